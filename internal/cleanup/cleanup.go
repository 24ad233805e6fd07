package cleanup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"swr/internal/logging"
	"swr/internal/manifest"
	"swr/internal/runkey"
	"swr/internal/stage"
)

// StageName identifies this stage in run summaries and logs.
const StageName = "cleanup"

// Policy sets per-category retention in months. Zero keeps a category
// forever.
type Policy struct {
	AudioMonths       int
	TranscriptsMonths int
	ReportsMonths     int
}

// Enabled reports whether any category has a retention limit.
func (p Policy) Enabled() bool {
	return p.AudioMonths > 0 || p.TranscriptsMonths > 0 || p.ReportsMonths > 0
}

// Cleaner prunes aged artifacts from the data layout. It is strictly
// best-effort: individual delete failures are logged, and the stage never
// aborts the pipeline.
type Cleaner struct {
	policy          Policy
	audioRoot       string
	transcriptsRoot string
	reportsRoot     string
	logger          *slog.Logger
	now             func() time.Time
}

// New creates a cleaner over the three artifact roots.
func New(policy Policy, audioRoot, transcriptsRoot, reportsRoot string, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		policy:          policy,
		audioRoot:       audioRoot,
		transcriptsRoot: transcriptsRoot,
		reportsRoot:     reportsRoot,
		logger:          logging.NewComponentLogger(logger, StageName),
		now:             time.Now,
	}
}

// WithClock overrides the wall clock (for testing).
func (c *Cleaner) WithClock(now func() time.Time) {
	c.now = now
}

// Run applies the retention policy. Cutoffs are computed from today, not the
// run window, so a backfill run for an old week never tightens retention.
func (c *Cleaner) Run() stage.Result {
	if !c.policy.Enabled() {
		return stage.Skipped(StageName, "retention disabled for all categories")
	}

	today := c.now().UTC().Truncate(24 * time.Hour)
	removed := 0
	removed += c.pruneDatedFiles(c.audioRoot, "audio", c.policy.AudioMonths, today)
	removed += c.pruneDatedFiles(c.transcriptsRoot, "transcripts", c.policy.TranscriptsMonths, today)
	removed += c.pruneRunFolders(c.reportsRoot, c.policy.ReportsMonths, today)

	return stage.OK(StageName, fmt.Sprintf("%d items removed", removed))
}

// pruneDatedFiles deletes files under root/{feed}/ whose filename date is
// older than the cutoff. Feed directories left empty are removed as well.
func (c *Cleaner) pruneDatedFiles(root, category string, months int, today time.Time) int {
	if months <= 0 {
		return 0
	}
	cutoff := today.AddDate(0, -months, 0)

	feeds, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("cannot read category root",
				logging.String("category", category),
				logging.Error(err))
		}
		return 0
	}

	removed := 0
	for _, feed := range feeds {
		if !feed.IsDir() {
			continue
		}
		feedDir := filepath.Join(root, feed.Name())
		files, err := os.ReadDir(feedDir)
		if err != nil {
			c.logger.Warn("cannot read feed directory",
				logging.String("dir", feedDir),
				logging.Error(err))
			continue
		}
		remaining := len(files)
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			date, ok := manifest.FileDate(file.Name())
			if !ok {
				continue
			}
			if !date.Before(cutoff) {
				continue
			}
			path := filepath.Join(feedDir, file.Name())
			if err := os.Remove(path); err != nil {
				c.logger.Warn("delete failed", logging.String("path", path), logging.Error(err))
				continue
			}
			c.logger.Info("removed aged file",
				logging.String("category", category),
				logging.String("path", path))
			removed++
			remaining--
		}
		if remaining == 0 {
			// Best effort; fails harmlessly if a straggler appeared.
			_ = os.Remove(feedDir)
		}
	}
	return removed
}

// pruneRunFolders deletes whole run-key folders under root whose window
// started before the cutoff. Folder names that are not run keys are ignored.
func (c *Cleaner) pruneRunFolders(root string, months int, today time.Time) int {
	if months <= 0 {
		return 0
	}
	cutoff := today.AddDate(0, -months, 0)

	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("cannot read reports root", logging.Error(err))
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		key, err := runkey.Parse(entry.Name())
		if err != nil {
			continue
		}
		if !key.Start.Before(cutoff) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			c.logger.Warn("delete failed", logging.String("path", path), logging.Error(err))
			continue
		}
		c.logger.Info("removed aged report folder", logging.String("path", path))
		removed++
	}
	return removed
}
