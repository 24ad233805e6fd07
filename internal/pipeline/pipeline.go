package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"swr/internal/cleanup"
	"swr/internal/config"
	"swr/internal/fetch"
	"swr/internal/guard"
	"swr/internal/history"
	"swr/internal/logging"
	"swr/internal/manifest"
	"swr/internal/report"
	"swr/internal/runkey"
	"swr/internal/services"
	"swr/internal/services/mail"
	"swr/internal/services/notebooklm"
	"swr/internal/services/whisper"
	"swr/internal/stage"
	"swr/internal/transcribe"
	"swr/internal/upload"
)

// Options select which stages run and over which window.
type Options struct {
	// Key is the run window. Zero value means derive from the lookback.
	Key runkey.Key
	// NotebookID reuses an existing notebook instead of uploading.
	NotebookID string

	SkipFetch      bool
	SkipTranscribe bool
	SkipUpload     bool
	SkipEmail      bool
	SkipCleanup    bool
	SaveReportOnly bool
}

// Summary is the outcome of one pipeline run.
type Summary struct {
	RunID       string
	Key         runkey.Key
	Results     []stage.Result
	NotebookID  string
	NotebookURL string
	ReportPath  string
	Elapsed     time.Duration
}

// ExitCode maps the run outcome onto the process exit code: any failed stage
// means 1, everything else 0.
func (s *Summary) ExitCode() int {
	for _, result := range s.Results {
		if result.Status == stage.StatusFailed {
			return 1
		}
	}
	return 0
}

type fetchStage interface {
	Run(ctx context.Context, feeds []config.Feed, key runkey.Key) stage.Result
}

type transcribeStage interface {
	Run(ctx context.Context, items []manifest.Item) stage.Result
}

type uploadStage interface {
	Run(ctx context.Context, items []manifest.Item, key runkey.Key) (upload.Outcome, stage.Result)
}

type reportStage interface {
	Run(ctx context.Context, key runkey.Key, notebook *notebooklm.Notebook, sendEmail bool) stage.Result
	Path(key runkey.Key) string
}

type cleanupStage interface {
	Run() stage.Result
}

// Pipeline wires the weekly stages together and owns the run lock.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger

	fetcher     fetchStage
	transcriber transcribeStage
	uploader    uploadStage
	reporter    reportStage
	cleaner     cleanupStage
	store       *history.Store

	now func() time.Time
}

// New wires a production pipeline from the configuration.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) *Pipeline {
	whisperSvc := whisper.NewService(whisper.Config{
		Binary:      cfg.Whisper.Binary,
		Model:       cfg.Whisper.Model,
		Language:    cfg.Whisper.Language,
		ComputeType: cfg.Whisper.ComputeType,
	})
	notebookSvc := notebooklm.NewService(notebooklm.Config{Binary: cfg.NotebookLM.Binary})
	mailSvc := mail.NewService(mail.Config{
		From:     cfg.Email.From,
		To:       cfg.Email.To,
		SMTPHost: cfg.Email.SMTPHost,
		SMTPPort: cfg.Email.SMTPPort,
		SMTPUser: cfg.Email.SMTPUser,
		Password: cfg.SMTPPassword(),
	})

	return &Pipeline{
		cfg:         cfg,
		logger:      logger,
		fetcher:     fetch.New(cfg.AudioDir(), logger),
		transcriber: transcribe.NewEngine(whisperSvc, cfg.Whisper.Language, logger),
		uploader:    upload.New(notebookSvc, cfg.NotebookLM.NotebookPrefix, logger),
		reporter: report.New(notebookSvc, mailSvc, cfg.ReportsDir(),
			cfg.NotebookLM.NotebookPrefix, cfg.NotebookLM.ReportLanguage, logger),
		cleaner: cleanup.New(cleanup.Policy{
			AudioMonths:       cfg.Retention.AudioMonths,
			TranscriptsMonths: cfg.Retention.TranscriptsMonths,
			ReportsMonths:     cfg.Retention.ReportsMonths,
		}, cfg.AudioDir(), cfg.TranscriptsDir(), cfg.ReportsDir(), logger),
		store: store,
		now:   time.Now,
	}
}

// Run executes the configured stages in order. A failure in fetch or
// transcription aborts the downstream content stages, but cleanup still runs:
// retention must not depend on this week's content succeeding.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	key := opts.Key
	if key.IsZero() {
		key = runkey.FromLookback(p.cfg.Pipeline.LookbackDays, p.now())
	}

	runID := uuid.NewString()[:8]
	ctx = services.WithRunID(ctx, runID)
	logger := p.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldRunKey, key.String()))

	lock := flock.New(filepath.Join(p.cfg.Paths.DataDir, ".swr.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is already in progress (lock: %s)", lock.Path())
	}
	defer lock.Unlock()

	logger.Info("pipeline starting",
		logging.String("window", key.DisplayRange()),
		logging.Int("feeds", len(p.cfg.Feeds)))

	started := p.now()
	summary := &Summary{RunID: runID, Key: key}
	aborted := ""

	record := func(result stage.Result) {
		summary.Results = append(summary.Results, result)
		switch result.Status {
		case stage.StatusFailed:
			logger.Error("stage failed",
				logging.String(logging.FieldStage, result.Name),
				logging.String("detail", result.Detail),
				logging.Error(result.Err))
		default:
			logger.Info("stage finished",
				logging.String(logging.FieldStage, result.Name),
				logging.String("status", string(result.Status)),
				logging.String("detail", result.Detail))
		}
	}

	// Fetch.
	switch {
	case aborted != "":
	case opts.SkipFetch:
		record(stage.Skipped(fetch.StageName, "skipped by flag"))
	default:
		result := p.fetcher.Run(services.WithStage(ctx, fetch.StageName), p.cfg.Feeds, key)
		record(result)
		if result.Status == stage.StatusFailed {
			aborted = fetch.StageName
		}
	}

	items := p.loadManifest(key, logger)

	// Transcribe, with the integrity guard screening its input.
	switch {
	case aborted != "":
		record(stage.Skipped(transcribe.StageName, "aborted after "+aborted+" failure"))
	case opts.SkipTranscribe:
		record(stage.Skipped(transcribe.StageName, "skipped by flag"))
	default:
		guardReport, guardResult := guard.Check(items, logger)
		record(guardResult)
		if guardResult.Status == stage.StatusFailed {
			aborted = guard.StageName
			record(stage.Skipped(transcribe.StageName, "aborted after guard failure"))
			break
		}
		// Audio the guard removed stays gone for the rest of the run.
		items = guardReport.Usable
		result := p.transcriber.Run(services.WithStage(ctx, transcribe.StageName), items)
		record(result)
		if result.Status == stage.StatusFailed {
			aborted = transcribe.StageName
		}
	}

	// Upload, or reuse a notebook from a previous run.
	var notebook *notebooklm.Notebook
	switch {
	case aborted != "":
		record(stage.Skipped(upload.StageName, "aborted after "+aborted+" failure"))
	case opts.NotebookID != "":
		notebook = &notebooklm.Notebook{ID: opts.NotebookID}
		record(stage.Skipped(upload.StageName, "reusing notebook "+opts.NotebookID))
	case opts.SkipUpload:
		record(stage.Skipped(upload.StageName, "skipped by flag"))
	default:
		outcome, result := p.uploader.Run(services.WithStage(ctx, upload.StageName), items, key)
		record(result)
		notebook = outcome.Notebook
		if result.Status == stage.StatusFailed {
			aborted = upload.StageName
		}
	}

	// Report. Skipping upload without naming a notebook leaves nothing to
	// query, so the stage degrades to skipped rather than failing.
	switch {
	case aborted != "":
		record(stage.Skipped(report.StageName, "aborted after "+aborted+" failure"))
	case opts.SkipEmail:
		record(stage.Skipped(report.StageName, "skipped by flag"))
	default:
		sendEmail := !opts.SaveReportOnly
		result := p.reporter.Run(services.WithStage(ctx, report.StageName), key, notebook, sendEmail)
		record(result)
		if result.Status.Succeeded() {
			summary.ReportPath = p.reporter.Path(key)
		}
	}

	// Cleanup always runs, even after an upstream abort.
	if opts.SkipCleanup {
		record(stage.Skipped(cleanup.StageName, "skipped by flag"))
	} else {
		record(p.cleaner.Run())
	}

	if notebook != nil {
		summary.NotebookID = notebook.ID
		summary.NotebookURL = notebook.URL()
	}
	summary.Elapsed = p.now().Sub(started)

	p.recordHistory(ctx, summary, started, logger)

	logger.Info("pipeline finished",
		logging.Int("exit_code", summary.ExitCode()),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// loadManifest indexes this run's audio files. A missing audio root simply
// means no episodes yet.
func (p *Pipeline) loadManifest(key runkey.Key, logger *slog.Logger) []manifest.Item {
	m, err := manifest.Build(p.cfg.AudioDir(), p.cfg.TranscriptsDir(), key)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("manifest build failed", logging.Error(err))
		}
		return nil
	}
	return m.Items
}

func (p *Pipeline) recordHistory(ctx context.Context, summary *Summary, started time.Time, logger *slog.Logger) {
	if p.store == nil {
		return
	}
	run := history.Run{
		RunID:      summary.RunID,
		RunKey:     summary.Key.String(),
		StartedAt:  started,
		FinishedAt: p.now(),
		ExitCode:   summary.ExitCode(),
		NotebookID: summary.NotebookID,
		ReportPath: summary.ReportPath,
	}
	for _, result := range summary.Results {
		run.Stages = append(run.Stages, history.StageRecord{
			Name:   result.Name,
			Status: string(result.Status),
			Detail: result.Detail,
		})
	}
	if _, err := p.store.RecordRun(ctx, run); err != nil {
		logger.Warn("run history not recorded", logging.Error(err))
	}
}
