package notebooklm

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"swr/internal/services"
)

const (
	// DefaultBinary is the NotebookLM CLI executable name.
	DefaultBinary = "nlm"
	// reportFormat is the artifact type generated inside each notebook.
	reportFormat = "Briefing Doc"
	// NotebookURLBase prefixes shareable notebook links.
	NotebookURLBase = "https://notebooklm.google.com/notebook/"
)

// Config describes the NotebookLM CLI invocation.
type Config struct {
	Binary string
}

// Service wraps the nlm CLI. All pipeline interaction with NotebookLM goes
// through here so tests can swap in a fake runner.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) (string, error)
}

// NewService creates a NotebookLM service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) {
	s.commandRunner = runner
}

// Notebook is one entry from the CLI's notebook listing.
type Notebook struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// URL returns the shareable browser link for the notebook.
func (n Notebook) URL() string {
	return NotebookURLBase + n.ID
}

// AuthCheck verifies the CLI holds a valid login session.
func (s *Service) AuthCheck(ctx context.Context) error {
	if _, err := s.run(ctx, "login", "--check"); err != nil {
		return services.Wrap(services.ErrExternalTool, "upload", "auth-check",
			"NotebookLM login expired, run 'nlm login' to refresh", err)
	}
	return nil
}

// ListNotebooks returns every notebook visible to the authenticated account.
func (s *Service) ListNotebooks(ctx context.Context) ([]Notebook, error) {
	output, err := s.run(ctx, "notebook", "list", "--json")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "upload", "notebook-list", "list notebooks", err)
	}
	var notebooks []Notebook
	if err := json.Unmarshal([]byte(output), &notebooks); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "upload", "notebook-list",
			"unexpected notebook list payload", err)
	}
	return notebooks, nil
}

// FindByTitle returns the first notebook whose title matches exactly, or nil.
func (s *Service) FindByTitle(ctx context.Context, title string) (*Notebook, error) {
	notebooks, err := s.ListNotebooks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range notebooks {
		if notebooks[i].Title == title {
			return &notebooks[i], nil
		}
	}
	return nil, nil
}

// CreateNotebook creates an empty notebook and returns its metadata.
func (s *Service) CreateNotebook(ctx context.Context, title string) (*Notebook, error) {
	output, err := s.run(ctx, "notebook", "create", title, "--json")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "upload", "notebook-create",
			fmt.Sprintf("create notebook %q", title), err)
	}
	var notebook Notebook
	if err := json.Unmarshal([]byte(output), &notebook); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "upload", "notebook-create",
			"unexpected notebook create payload", err)
	}
	if notebook.ID == "" {
		return nil, services.Wrap(services.ErrExternalTool, "upload", "notebook-create",
			"notebook create returned no id", nil)
	}
	return &notebook, nil
}

// DeleteNotebook removes a notebook by id.
func (s *Service) DeleteNotebook(ctx context.Context, id string) error {
	if _, err := s.run(ctx, "notebook", "delete", id, "--confirm"); err != nil {
		return services.Wrap(services.ErrExternalTool, "upload", "notebook-delete",
			fmt.Sprintf("delete notebook %s", id), err)
	}
	return nil
}

// AddSource uploads one file into the notebook and waits for processing.
func (s *Service) AddSource(ctx context.Context, notebookID, path string) error {
	if _, err := s.run(ctx, "source", "add", notebookID, path, "--wait"); err != nil {
		return services.Wrap(services.ErrExternalTool, "upload", "source-add",
			fmt.Sprintf("add source %s", path), err)
	}
	return nil
}

// CreateReportArtifact generates a briefing-doc artifact inside the notebook.
// Failures here are reported to the caller but never abort the run: the
// artifact is a convenience inside the NotebookLM UI, not a pipeline output.
func (s *Service) CreateReportArtifact(ctx context.Context, notebookID, language string) error {
	args := []string{"report", "create", notebookID, "--format", reportFormat, "--confirm"}
	if language != "" {
		args = append(args, "--language", language)
	}
	if _, err := s.run(ctx, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "report", "artifact-create",
			"create briefing doc artifact", err)
	}
	return nil
}

// queryEnvelope mirrors the CLI's query response shape. Depending on the CLI
// version the answer arrives nested under value or at the top level.
type queryEnvelope struct {
	Value struct {
		Answer string `json:"answer"`
	} `json:"value"`
	Answer string `json:"answer"`
}

// Query asks the notebook one question and returns the answer text.
func (s *Service) Query(ctx context.Context, notebookID, question string) (string, error) {
	output, err := s.run(ctx, "query", "notebook", notebookID, question)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "report", "query", "notebook query", err)
	}
	raw := strings.TrimSpace(output)

	var envelope queryEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		// Older CLI builds print the answer as plain text.
		if raw != "" {
			return raw, nil
		}
		return "", services.Wrap(services.ErrExternalTool, "report", "query",
			"unexpected query payload", err)
	}
	answer := strings.TrimSpace(envelope.Value.Answer)
	if answer == "" {
		answer = strings.TrimSpace(envelope.Answer)
	}
	if answer == "" {
		return "", services.Wrap(services.ErrExternalTool, "report", "query",
			"query returned an empty answer", nil)
	}
	return answer, nil
}

func (s *Service) run(ctx context.Context, args ...string) (string, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.cfg.Binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.cfg.Binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w: %s", s.cfg.Binary, strings.Join(args, " "), err,
			strings.TrimSpace(string(output)))
	}
	return string(output), nil
}
