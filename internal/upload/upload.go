package upload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"swr/internal/logging"
	"swr/internal/manifest"
	"swr/internal/runkey"
	"swr/internal/services/notebooklm"
	"swr/internal/stage"
)

// StageName identifies this stage in run summaries and logs.
const StageName = "upload"

// MinUploadChars is the shortest transcript worth uploading as a notebook
// source. It sits well above the transcription validity floor: a transcript
// can be real speech yet still too thin to contribute to a weekly summary.
const MinUploadChars = 200

// NotebookService is the collaborator managing notebooks and sources.
type NotebookService interface {
	AuthCheck(ctx context.Context) error
	FindByTitle(ctx context.Context, title string) (*notebooklm.Notebook, error)
	CreateNotebook(ctx context.Context, title string) (*notebooklm.Notebook, error)
	DeleteNotebook(ctx context.Context, id string) error
	AddSource(ctx context.Context, notebookID, path string) error
}

// Uploader filters transcripts for validity and syncs the survivors into a
// fresh weekly notebook.
type Uploader struct {
	svc    NotebookService
	logger *slog.Logger
	prefix string
}

// New creates an uploader. prefix is the notebook title prefix.
func New(svc NotebookService, prefix string, logger *slog.Logger) *Uploader {
	return &Uploader{
		svc:    svc,
		logger: logging.NewComponentLogger(logger, StageName),
		prefix: prefix,
	}
}

// Outcome carries what the report stage needs from a completed upload.
type Outcome struct {
	// Notebook is the freshly created weekly notebook, nil when nothing was
	// uploaded.
	Notebook *notebooklm.Notebook
	// Uploaded counts transcripts accepted into the notebook.
	Uploaded int
	// Rejected counts transcripts excluded by the validity filter.
	Rejected int
}

// NotebookTitle returns the deterministic weekly notebook title.
func NotebookTitle(prefix string, key runkey.Key) string {
	return fmt.Sprintf("%s %s", prefix, key.String())
}

// Run validates each transcript, replaces any notebook left over from an
// earlier run of the same week, and uploads the valid transcripts. An
// existing same-title notebook is deleted rather than appended to, so reruns
// never double up sources.
func (u *Uploader) Run(ctx context.Context, items []manifest.Item, key runkey.Key) (Outcome, stage.Result) {
	var outcome Outcome

	if len(items) == 0 {
		return outcome, stage.Skipped(StageName, "no transcripts in window")
	}

	valid := make([]manifest.Item, 0, len(items))
	for _, item := range items {
		chars, ok := transcriptChars(item.TranscriptPath)
		if !ok || chars < MinUploadChars {
			u.logger.Warn("transcript excluded from upload",
				logging.String("feed", item.Feed),
				logging.String("file", item.Name()),
				logging.Int("chars", chars))
			outcome.Rejected++
			continue
		}
		valid = append(valid, item)
	}

	if len(valid) == 0 {
		return outcome, stage.Failed(StageName,
			fmt.Errorf("no transcript passed the validity filter (%d rejected)", outcome.Rejected))
	}

	if err := u.svc.AuthCheck(ctx); err != nil {
		return outcome, stage.Failed(StageName, err)
	}

	title := NotebookTitle(u.prefix, key)
	if existing, err := u.svc.FindByTitle(ctx, title); err != nil {
		return outcome, stage.Failed(StageName, err)
	} else if existing != nil {
		u.logger.Info("replacing notebook from earlier run",
			logging.String("title", title),
			logging.String("notebook_id", existing.ID))
		if err := u.svc.DeleteNotebook(ctx, existing.ID); err != nil {
			// A lingering duplicate is an inconvenience, not a lost week.
			u.logger.Warn("could not delete stale notebook, continuing",
				logging.String("notebook_id", existing.ID),
				logging.Error(err))
		}
	}

	notebook, err := u.svc.CreateNotebook(ctx, title)
	if err != nil {
		return outcome, stage.Failed(StageName, err)
	}
	outcome.Notebook = notebook

	failed := 0
	for _, item := range valid {
		if err := u.svc.AddSource(ctx, notebook.ID, item.TranscriptPath); err != nil {
			u.logger.Warn("source upload failed",
				logging.String("feed", item.Feed),
				logging.String("file", item.Name()),
				logging.Error(err))
			failed++
			continue
		}
		outcome.Uploaded++
		u.logger.Info("transcript uploaded",
			logging.String("feed", item.Feed),
			logging.String("file", item.Name()))
	}

	detail := fmt.Sprintf("%d uploaded, %d rejected, %d failed", outcome.Uploaded, outcome.Rejected, failed)
	if outcome.Uploaded == 0 {
		return outcome, stage.Failed(StageName, fmt.Errorf("all %d source uploads failed", failed))
	}
	if failed > 0 || outcome.Rejected > 0 {
		return outcome, stage.Partial(StageName, detail)
	}
	return outcome, stage.OK(StageName, detail)
}

// transcriptChars returns the trimmed character count of the transcript at
// path, and whether the file was readable.
func transcriptChars(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return utf8.RuneCountInString(strings.TrimSpace(string(data))), true
}
