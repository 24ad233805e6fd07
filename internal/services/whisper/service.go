package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "swr/internal/language"
)

// Config describes the transcription CLI invocation.
type Config struct {
	Binary      string
	Model       string
	Language    string
	ComputeType string
}

// Service wraps the faster-whisper CLI as the opaque transcription collaborator.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ComputeType == "" {
		cfg.ComputeType = DefaultComputeType
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Result contains the outcome of one transcription call.
type Result struct {
	// Text is the full plain-text transcription.
	Text string
	// Language is the detected language reported by the engine.
	Language string
	// LanguageProbability is the engine's confidence in the detection.
	LanguageProbability float64
}

// Transcribe runs the CLI over one audio file and returns the full text plus
// detected-language metadata. The engine writes its JSON output next to a
// temporary working directory which is removed afterwards.
func (s *Service) Transcribe(ctx context.Context, audioPath, languageHint string) (Result, error) {
	var result Result

	if audioPath == "" {
		return result, fmt.Errorf("transcribe: audio path required")
	}

	workDir, err := os.MkdirTemp("", "swr-whisper-*")
	if err != nil {
		return result, fmt.Errorf("transcribe: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	args := s.buildArgs(audioPath, workDir, languageHint)
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return result, fmt.Errorf("whisper: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	payloadPath := filepath.Join(workDir, stem+".json")
	payload, err := loadPayload(payloadPath)
	if err != nil {
		return result, fmt.Errorf("whisper: read output: %w", err)
	}

	parts := make([]string, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	result.Text = strings.Join(parts, " ")
	result.Language = payload.Language
	result.LanguageProbability = payload.LanguageProbability
	return result, nil
}

func (s *Service) buildArgs(audioPath, outputDir, languageHint string) []string {
	args := []string{
		audioPath,
		"--model", s.cfg.Model,
		"--compute_type", s.cfg.ComputeType,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--beam_size", BeamSize,
	}
	hint := languageHint
	if hint == "" {
		hint = s.cfg.Language
	}
	if lang := langpkg.ToISO2(hint); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// segment is one transcribed span from the engine's JSON output.
type segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type payload struct {
	Language            string    `json:"language"`
	LanguageProbability float64   `json:"language_probability"`
	Segments            []segment `json:"segments"`
}

func loadPayload(jsonPath string) (payload, error) {
	var p payload
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse whisper json: %w", err)
	}
	return p, nil
}
