// Package guard screens downloaded audio before transcription. Zero-byte
// files are deleted on sight so a later rerun fetches them fresh; suspiciously
// small files are flagged but still transcribed.
package guard

import (
	"fmt"
	"log/slog"
	"os"

	"swr/internal/fileutil"
	"swr/internal/logging"
	"swr/internal/manifest"
	"swr/internal/stage"
)

// StageName identifies this stage in run summaries and logs.
const StageName = "guard"

// MinAudioBytes is the smallest size a real episode plausibly has. Files
// below it usually indicate a truncated download or an HTML error page.
const MinAudioBytes = 10 * 1024

// Report is the guard's verdict over one run's audio files.
type Report struct {
	// Usable holds the items that may proceed to transcription.
	Usable []manifest.Item
	// Removed counts zero-byte files deleted from disk.
	Removed int
	// Suspect counts files kept despite being smaller than MinAudioBytes.
	Suspect int
	// Total is the number of items inspected.
	Total int
}

// Check inspects every audio file in the manifest. The stage fails only when
// no usable audio remains at all.
func Check(items []manifest.Item, logger *slog.Logger) (Report, stage.Result) {
	log := logging.NewComponentLogger(logger, StageName)
	report := Report{Total: len(items)}

	if len(items) == 0 {
		return report, stage.Skipped(StageName, "no audio files in window")
	}

	for _, item := range items {
		size := fileutil.FileSize(item.AudioPath)
		switch {
		case size < 0:
			log.Warn("audio file vanished before inspection",
				logging.String("feed", item.Feed),
				logging.String("file", item.Name()))
			report.Removed++
		case size == 0:
			if err := os.Remove(item.AudioPath); err != nil {
				log.Warn("could not delete empty audio file",
					logging.String("file", item.AudioPath),
					logging.Error(err))
			}
			log.Warn("deleted zero-byte audio file",
				logging.String("feed", item.Feed),
				logging.String("file", item.Name()))
			report.Removed++
		case size < MinAudioBytes:
			log.Warn("audio file suspiciously small, transcribing anyway",
				logging.String("feed", item.Feed),
				logging.String("file", item.Name()),
				logging.Int64("bytes", size))
			report.Suspect++
			report.Usable = append(report.Usable, item)
		default:
			report.Usable = append(report.Usable, item)
		}
	}

	// Deleting a broken file is the guard doing its job, not a degraded
	// outcome: the stage fails only when nothing usable remains.
	detail := fmt.Sprintf("%d/%d usable", len(report.Usable), report.Total)
	if len(report.Usable) == 0 {
		return report, stage.Failed(StageName, fmt.Errorf("no usable audio: %s", detail))
	}
	return report, stage.OK(StageName, detail)
}
