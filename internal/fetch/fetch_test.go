package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"swr/internal/config"
	"swr/internal/logging"
	"swr/internal/runkey"
	"swr/internal/stage"
)

func rssDocument(enclosureURL string, published time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Weekly Market Talk</title>
    <item>
      <title>Episode in window</title>
      <pubDate>%s</pubDate>
      <enclosure url="%s" type="audio/mpeg" length="1024"/>
    </item>
    <item>
      <title>Stale episode</title>
      <pubDate>%s</pubDate>
      <enclosure url="%s" type="audio/mpeg" length="1024"/>
    </item>
  </channel>
</rss>`,
		published.Format(time.RFC1123Z), enclosureURL,
		published.AddDate(0, -2, 0).Format(time.RFC1123Z), enclosureURL)
}

func TestRunDownloadsEpisodesInWindow(t *testing.T) {
	published := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	key := runkey.Key{
		Start: time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC),
	}

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/episode.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp3-bytes"))
	})
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDocument(server.URL+"/episode.mp3", published))
	})

	audioRoot := t.TempDir()
	fetcher := New(audioRoot, logging.NewNop())
	fetcher.WithHTTPClient(server.Client())

	result := fetcher.Run(context.Background(), []config.Feed{{Name: "markettalk", URL: server.URL + "/feed.xml"}}, key)
	if result.Status != stage.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}

	want := filepath.Join(audioRoot, "markettalk", "markettalk_20260220.mp3")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("episode not written: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("unexpected content: %q", data)
	}

	// The stale episode is outside the window and must not be downloaded.
	entries, _ := os.ReadDir(filepath.Join(audioRoot, "markettalk"))
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
}

func TestRunSkipsExistingFile(t *testing.T) {
	published := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	key := runkey.Key{Start: published.AddDate(0, 0, -2), End: published.AddDate(0, 0, 2)}

	var downloads int
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/episode.mp3", func(w http.ResponseWriter, r *http.Request) {
		downloads++
		w.Write([]byte("mp3-bytes"))
	})
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDocument(server.URL+"/episode.mp3", published))
	})

	audioRoot := t.TempDir()
	existing := filepath.Join(audioRoot, "markettalk", "markettalk_20260220.mp3")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	fetcher := New(audioRoot, logging.NewNop())
	fetcher.WithHTTPClient(server.Client())

	result := fetcher.Run(context.Background(), []config.Feed{{Name: "markettalk", URL: server.URL + "/feed.xml"}}, key)
	if result.Status != stage.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}
	if downloads != 0 {
		t.Fatalf("existing file must not be re-downloaded, saw %d downloads", downloads)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "already here" {
		t.Fatal("existing file was overwritten")
	}
}

func TestRunFeedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := New(t.TempDir(), logging.NewNop())
	fetcher.WithHTTPClient(server.Client())

	key := runkey.FromLookback(7, time.Now())
	result := fetcher.Run(context.Background(), []config.Feed{{Name: "broken", URL: server.URL + "/feed.xml"}}, key)
	if result.Status != stage.StatusFailed {
		t.Fatalf("expected failed, got %+v", result)
	}
}

func TestRunNoFeeds(t *testing.T) {
	fetcher := New(t.TempDir(), logging.NewNop())
	result := fetcher.Run(context.Background(), nil, runkey.FromLookback(7, time.Now()))
	if result.Status != stage.StatusSkipped {
		t.Fatalf("expected skipped, got %+v", result)
	}
}

func TestExtensionFromURL(t *testing.T) {
	cases := map[string]string{
		"https://cdn.example.com/a/b/ep.m4a?token=1": ".m4a",
		"https://cdn.example.com/ep.mp3":             ".mp3",
		"https://cdn.example.com/stream":             ".mp3",
		"https://cdn.example.com/ep.EXE":             ".mp3",
	}
	for rawURL, want := range cases {
		if got := extensionFromURL(rawURL); got != want {
			t.Errorf("extensionFromURL(%q) = %q, want %q", rawURL, got, want)
		}
	}
}
