package report

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"swr/internal/fileutil"
	"swr/internal/logging"
	"swr/internal/runkey"
	"swr/internal/services/notebooklm"
	"swr/internal/stage"
)

// StageName identifies this stage in run summaries and logs.
const StageName = "report"

// MinReportChars is the validity gate for the assembled summary. A meaningful
// weekly report comfortably exceeds it; anything shorter means the notebook
// had not processed its sources yet and the report must not go out.
const MinReportChars = 5000

// QueryService is the collaborator the builder queries for section answers.
type QueryService interface {
	CreateReportArtifact(ctx context.Context, notebookID, language string) error
	Query(ctx context.Context, notebookID, question string) (string, error)
}

// Mailer delivers the finished report.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, subject, textBody, htmlBody string) error
}

// Builder assembles the weekly report from per-section notebook queries,
// saves it to disk, and optionally emails it.
type Builder struct {
	svc         QueryService
	mailer      Mailer
	logger      *slog.Logger
	reportsRoot string
	prefix      string
	language    string
}

// New creates a report builder writing under reportsRoot.
func New(svc QueryService, mailer Mailer, reportsRoot, prefix, language string, logger *slog.Logger) *Builder {
	return &Builder{
		svc:         svc,
		mailer:      mailer,
		logger:      logging.NewComponentLogger(logger, StageName),
		reportsRoot: reportsRoot,
		prefix:      prefix,
		language:    language,
	}
}

// Path returns where the report for key is saved.
func (b *Builder) Path(key runkey.Key) string {
	return filepath.Join(b.reportsRoot, key.String(), fmt.Sprintf("weekly_report_%s.txt", key.String()))
}

// Run builds the report for the given notebook. The file on disk is the
// canonical output: it is written before any email attempt, and a failed
// send downgrades the stage to partial instead of failing it.
func (b *Builder) Run(ctx context.Context, key runkey.Key, notebook *notebooklm.Notebook, sendEmail bool) stage.Result {
	if notebook == nil {
		return stage.Skipped(StageName, "no notebook available")
	}

	// The briefing-doc artifact lives inside the NotebookLM UI only, so a
	// failure here never blocks the report itself.
	if err := b.svc.CreateReportArtifact(ctx, notebook.ID, b.language); err != nil {
		b.logger.Warn("briefing doc creation failed", logging.Error(err))
	}

	summary, failedSections := b.querySections(ctx, notebook.ID)
	if strings.TrimSpace(summary) == "" {
		summary = fmt.Sprintf("（NotebookLM 未返回摘要，請直接開啟筆記本查看。）\n%s", notebook.URL())
	}

	if chars := utf8.RuneCountInString(strings.TrimSpace(summary)); chars < MinReportChars {
		return stage.Failed(StageName,
			fmt.Errorf("summary suspiciously short (%d chars < %d), notebook may still be processing", chars, MinReportChars))
	}

	plainBody := buildPlainBody(summary, notebook.URL())
	reportPath := b.Path(key)
	if err := fileutil.WriteFileAtomic(reportPath, []byte(plainBody), 0o644); err != nil {
		return stage.Failed(StageName, fmt.Errorf("save report: %w", err))
	}
	b.logger.Info("report saved",
		logging.String("path", reportPath),
		logging.Int("chars", utf8.RuneCountInString(summary)))

	detail := fmt.Sprintf("%d/%d sections", len(Sections)-failedSections, len(Sections))

	if !sendEmail {
		b.logger.Info("email sending disabled, report saved only")
	} else if !b.mailer.Configured() {
		b.logger.Warn("email not configured, report saved only")
	} else {
		subject := fmt.Sprintf("%s｜%s", b.prefix, key.DisplayRange())
		htmlBody, err := renderHTML(summary, notebook.URL(), key)
		if err != nil {
			b.logger.Warn("html rendering failed, sending plain text only", logging.Error(err))
			htmlBody = ""
		}
		if err := b.mailer.Send(ctx, subject, plainBody, htmlBody); err != nil {
			b.logger.Warn("email delivery failed, report remains on disk", logging.Error(err))
			return stage.Partial(StageName, detail+", email failed")
		}
		b.logger.Info("report emailed", logging.String("subject", subject))
	}

	if failedSections > 0 {
		return stage.Partial(StageName, detail)
	}
	return stage.OK(StageName, detail)
}

// querySections runs every section query independently and joins the answers
// into one markdown document. A failed section keeps its slot with a
// placeholder so the report structure stays stable.
func (b *Builder) querySections(ctx context.Context, notebookID string) (string, int) {
	parts := make([]string, 0, len(Sections))
	failed := 0
	for i, section := range Sections {
		b.logger.Info("querying section",
			logging.Int("index", i+1),
			logging.Int("total", len(Sections)),
			logging.String("title", section.Title))
		answer, err := b.svc.Query(ctx, notebookID, section.Question)
		if err != nil {
			b.logger.Warn("section query failed",
				logging.String("title", section.Title),
				logging.Error(err))
			answer = Placeholder
			failed++
		}
		parts = append(parts, fmt.Sprintf("## %s\n\n%s", section.Title, answer))
	}
	return strings.Join(parts, "\n\n---\n\n"), failed
}

func buildPlainBody(summary, notebookURL string) string {
	lines := []string{
		summary,
		"",
		strings.Repeat("-", 60),
		fmt.Sprintf("完整 NotebookLM 筆記本：%s", notebookURL),
		"",
		"（本郵件由 swr 自動生成）",
	}
	return strings.Join(lines, "\n")
}
