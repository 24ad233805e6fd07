package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"

	"swr/internal/fileutil"
	"swr/internal/logging"
	"swr/internal/manifest"
	"swr/internal/services/whisper"
	"swr/internal/stage"
)

// StageName identifies this stage in run summaries and logs.
const StageName = "transcribe"

const (
	// MinTranscriptChars is the shortest transcript accepted as real speech.
	// Engine hallucinations on silent or corrupt audio come in far under it.
	MinTranscriptChars = 50
	// MaxAttempts bounds the retries per episode.
	MaxAttempts = 3
	// RetryDelay is the pause between attempts.
	RetryDelay = 5 * time.Second
)

// Transcriber is the collaborator that turns audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, languageHint string) (whisper.Result, error)
}

// Engine drives per-episode transcription with retries and a final
// verification pass over everything the run expects on disk.
type Engine struct {
	transcriber Transcriber
	logger      *slog.Logger
	language    string
	retryDelay  time.Duration
}

// NewEngine creates a transcription engine.
func NewEngine(transcriber Transcriber, language string, logger *slog.Logger) *Engine {
	return &Engine{
		transcriber: transcriber,
		logger:      logging.NewComponentLogger(logger, StageName),
		language:    language,
		retryDelay:  RetryDelay,
	}
}

// WithRetryDelay overrides the inter-attempt pause (for testing).
func (e *Engine) WithRetryDelay(delay time.Duration) {
	e.retryDelay = delay
}

// Run transcribes every item lacking a valid transcript, then verifies the
// full expected set on disk. Verification, not attempt bookkeeping, decides
// the stage outcome: a transcript produced by an earlier run counts the same
// as one produced just now.
func (e *Engine) Run(ctx context.Context, items []manifest.Item) stage.Result {
	if len(items) == 0 {
		return stage.Skipped(StageName, "no audio to transcribe")
	}

	for _, item := range items {
		if TranscriptValid(item.TranscriptPath) {
			e.logger.Info("transcript already valid",
				logging.String("feed", item.Feed),
				logging.String("file", item.Name()))
			continue
		}
		if err := e.transcribeWithRetry(ctx, item); err != nil {
			e.logger.Warn("episode transcription failed after retries",
				logging.String("feed", item.Feed),
				logging.String("file", item.Name()),
				logging.Error(err))
		}
	}

	return e.verify(items)
}

// transcribeWithRetry attempts one episode up to MaxAttempts times with a
// constant delay. A stale or too-short transcript left by a failed attempt is
// deleted before the next try.
func (e *Engine) transcribeWithRetry(ctx context.Context, item manifest.Item) error {
	attempt := 0
	operation := func() error {
		attempt++
		if err := e.removeStale(item); err != nil {
			return backoff.Permanent(err)
		}

		result, err := e.transcriber.Transcribe(ctx, item.AudioPath, e.language)
		if err != nil {
			e.logger.Warn("transcription attempt failed",
				logging.String("feed", item.Feed),
				logging.String("file", item.Name()),
				logging.Int("attempt", attempt),
				logging.Error(err))
			return err
		}

		text := strings.TrimSpace(result.Text)
		if utf8.RuneCountInString(text) < MinTranscriptChars {
			err := fmt.Errorf("transcript too short: %d chars", utf8.RuneCountInString(text))
			e.logger.Warn("transcription attempt produced too little text",
				logging.String("feed", item.Feed),
				logging.String("file", item.Name()),
				logging.Int("attempt", attempt),
				logging.Error(err))
			return err
		}

		if err := fileutil.WriteFileAtomic(item.TranscriptPath, []byte(text+"\n"), 0o644); err != nil {
			return backoff.Permanent(fmt.Errorf("write transcript: %w", err))
		}
		e.logger.Info("episode transcribed",
			logging.String("feed", item.Feed),
			logging.String("file", item.Name()),
			logging.Int("attempt", attempt),
			logging.Int("chars", utf8.RuneCountInString(text)),
			logging.String("language", result.Language))
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(e.retryDelay), MaxAttempts-1), ctx)
	return backoff.Retry(operation, policy)
}

// removeStale deletes a transcript that exists but fails validation, so a
// retry starts from a clean slate.
func (e *Engine) removeStale(item manifest.Item) error {
	if fileutil.FileSize(item.TranscriptPath) < 0 {
		return nil
	}
	if TranscriptValid(item.TranscriptPath) {
		return nil
	}
	if err := os.Remove(item.TranscriptPath); err != nil {
		return fmt.Errorf("remove stale transcript %s: %w", item.TranscriptPath, err)
	}
	e.logger.Info("removed stale transcript", logging.String("file", item.TranscriptPath))
	return nil
}

// verify re-reads every expected transcript and derives the stage outcome
// from what is actually on disk. Missing transcripts are an episode-level
// problem, never an engine one, so the worst verification verdict is partial;
// the upload filter decides whether anything worth syncing survived.
func (e *Engine) verify(items []manifest.Item) stage.Result {
	valid := 0
	for _, item := range items {
		if TranscriptValid(item.TranscriptPath) {
			valid++
		}
	}
	detail := fmt.Sprintf("%d/%d transcripts valid", valid, len(items))
	if valid == len(items) {
		return stage.OK(StageName, detail)
	}
	return stage.Partial(StageName, detail)
}

// TranscriptValid reports whether the file at path holds a transcript of at
// least MinTranscriptChars characters of actual text.
func TranscriptValid(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(string(data))) >= MinTranscriptChars
}
