// Package manifest builds the explicit index of audio items and their expected
// transcripts for one run. Filename date parsing happens here and nowhere else;
// the on-disk naming ({feed}/{feed}_{YYYYMMDD}.{ext}) is a compatibility
// contract shared with the fetch collaborator and retention cleanup.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"swr/internal/runkey"
)

// SupportedAudioExts lists the audio file extensions the pipeline processes.
var SupportedAudioExts = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".ogg":  {},
	".aac":  {},
	".wav":  {},
	".flac": {},
	".opus": {},
}

// Item is one audio file scheduled for the run, with its mirrored transcript path.
type Item struct {
	Feed           string
	Date           time.Time
	AudioPath      string
	TranscriptPath string
}

// Name returns the audio file base name, used in per-item reporting.
func (i Item) Name() string {
	return filepath.Base(i.AudioPath)
}

// Manifest indexes the audio items of one run, grouped under the shared roots.
type Manifest struct {
	Key            runkey.Key
	AudioRoot      string
	TranscriptRoot string
	Items          []Item
}

// Build scans audioRoot's per-feed subdirectories and indexes every supported
// audio file whose filename-embedded date falls inside the run interval.
// Files whose names do not carry a parsable date are ignored.
func Build(audioRoot, transcriptRoot string, key runkey.Key) (*Manifest, error) {
	m := &Manifest{Key: key, AudioRoot: audioRoot, TranscriptRoot: transcriptRoot}

	feeds, err := os.ReadDir(audioRoot)
	if err != nil {
		return nil, fmt.Errorf("read audio root: %w", err)
	}

	for _, feedEntry := range feeds {
		if !feedEntry.IsDir() {
			continue
		}
		feed := feedEntry.Name()
		feedDir := filepath.Join(audioRoot, feed)
		files, err := os.ReadDir(feedDir)
		if err != nil {
			return nil, fmt.Errorf("read feed directory %s: %w", feedDir, err)
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			name := file.Name()
			ext := strings.ToLower(filepath.Ext(name))
			if _, ok := SupportedAudioExts[ext]; !ok {
				continue
			}
			date, ok := FileDate(name)
			if !ok || !key.Contains(date) {
				continue
			}
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			m.Items = append(m.Items, Item{
				Feed:           feed,
				Date:           date,
				AudioPath:      filepath.Join(feedDir, name),
				TranscriptPath: filepath.Join(transcriptRoot, feed, stem+".txt"),
			})
		}
	}

	sort.Slice(m.Items, func(a, b int) bool {
		if m.Items[a].Feed != m.Items[b].Feed {
			return m.Items[a].Feed < m.Items[b].Feed
		}
		return m.Items[a].Date.Before(m.Items[b].Date)
	})

	return m, nil
}

// FileDate extracts the YYYYMMDD publish date embedded after the final
// underscore of a file name ("gooaye_20260220.mp3").
func FileDate(name string) (time.Time, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(stem, "_")
	if idx < 0 || idx+1 >= len(stem) {
		return time.Time{}, false
	}
	raw := stem[idx+1:]
	if len(raw) != 8 {
		return time.Time{}, false
	}
	date, err := time.ParseInLocation(runkey.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// FileName renders the canonical audio/transcript base name for a feed and date.
func FileName(feed string, date time.Time, ext string) string {
	return feed + "_" + date.Format(runkey.DateLayout) + ext
}
