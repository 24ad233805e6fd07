package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"swr/internal/config"
	"swr/internal/fileutil"
	"swr/internal/logging"
	"swr/internal/manifest"
	"swr/internal/runkey"
	"swr/internal/services"
	"swr/internal/stage"
)

// StageName identifies this stage in run summaries and logs.
const StageName = "fetch"

// defaultExtension is used when the enclosure URL carries no usable suffix.
const defaultExtension = ".mp3"

// Episode is one downloadable item selected from a feed.
type Episode struct {
	Feed         string
	Title        string
	Published    time.Time
	EnclosureURL string
}

// Fetcher downloads new podcast episodes into the audio layout.
type Fetcher struct {
	parser    *gofeed.Parser
	client    *http.Client
	logger    *slog.Logger
	audioRoot string
}

// New creates a fetcher writing under audioRoot.
func New(audioRoot string, logger *slog.Logger) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = "swr-podcast-fetcher"
	return &Fetcher{
		parser:    parser,
		client:    &http.Client{Timeout: 5 * time.Minute},
		logger:    logging.NewComponentLogger(logger, StageName),
		audioRoot: audioRoot,
	}
}

// WithHTTPClient swaps the download client (for testing).
func (f *Fetcher) WithHTTPClient(client *http.Client) {
	f.client = client
	f.parser.Client = client
}

// Run fetches every configured feed and downloads episodes published inside
// the run window. Existing non-empty files are left alone so reruns are cheap.
func (f *Fetcher) Run(ctx context.Context, feeds []config.Feed, key runkey.Key) stage.Result {
	if len(feeds) == 0 {
		return stage.Skipped(StageName, "no feeds configured")
	}

	var downloaded, existing, failed int
	for _, feed := range feeds {
		episodes, err := f.selectEpisodes(ctx, feed, key)
		if err != nil {
			f.logger.Warn("feed fetch failed", logging.String("feed", feed.Name), logging.Error(err))
			failed++
			continue
		}
		if len(episodes) == 0 {
			f.logger.Info("no episodes in window", logging.String("feed", feed.Name))
			continue
		}
		for _, episode := range episodes {
			switch err := f.download(ctx, episode); {
			case err == nil:
				downloaded++
			case services.IsSkip(err):
				existing++
			default:
				f.logger.Warn("episode download failed",
					logging.String("feed", episode.Feed),
					logging.String("url", episode.EnclosureURL),
					logging.Error(err))
				failed++
			}
		}
	}

	detail := fmt.Sprintf("%d downloaded, %d existing, %d failed", downloaded, existing, failed)
	if downloaded+existing == 0 && failed == 0 {
		return stage.OK(StageName, "no new episodes")
	}
	return stage.Counted(StageName, downloaded+existing, failed, detail)
}

// selectEpisodes parses one feed and keeps the items whose publication date
// falls inside the run window and that carry an audio enclosure.
func (f *Fetcher) selectEpisodes(ctx context.Context, feed config.Feed, key runkey.Key) ([]Episode, error) {
	parsed, err := f.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %q: %w", feed.Name, err)
	}

	var episodes []Episode
	for _, item := range parsed.Items {
		if item.PublishedParsed == nil {
			continue
		}
		published := item.PublishedParsed.UTC()
		if !key.Contains(published) {
			continue
		}
		enclosure := audioEnclosure(item)
		if enclosure == "" {
			continue
		}
		episodes = append(episodes, Episode{
			Feed:         feed.Name,
			Title:        item.Title,
			Published:    published,
			EnclosureURL: enclosure,
		})
	}
	return episodes, nil
}

// download streams one episode to its layout path. Returns a skip-marked
// error when a non-empty file already exists.
func (f *Fetcher) download(ctx context.Context, episode Episode) error {
	name := manifest.FileName(episode.Feed, episode.Published, extensionFromURL(episode.EnclosureURL))
	dest := filepath.Join(f.audioRoot, episode.Feed, name)

	if size := fileutil.FileSize(dest); size > 0 {
		f.logger.Info("episode already on disk",
			logging.String("feed", episode.Feed),
			logging.String("file", name),
			logging.Int64("bytes", size))
		return services.MarkSkip(fmt.Errorf("already exists: %s", dest))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, episode.EnclosureURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: unexpected status %s", resp.Status)
	}

	written, err := fileutil.WriteStreamAtomic(dest, resp.Body, 0o644)
	if err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	f.logger.Info("episode downloaded",
		logging.String("feed", episode.Feed),
		logging.String("file", name),
		logging.Int64("bytes", written))
	return nil
}

func audioEnclosure(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil || enclosure.URL == "" {
			continue
		}
		if strings.HasPrefix(enclosure.Type, "audio/") {
			return enclosure.URL
		}
		if ext := extensionFromURL(enclosure.URL); isSupportedAudioExt(ext) {
			return enclosure.URL
		}
	}
	return ""
}

func extensionFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return defaultExtension
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	if isSupportedAudioExt(ext) {
		return ext
	}
	return defaultExtension
}

func isSupportedAudioExt(ext string) bool {
	_, ok := manifest.SupportedAudioExts[ext]
	return ok
}
