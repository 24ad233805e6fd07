package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[paths]
data_dir = "`+t.TempDir()+`"
`)
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved == "" {
		t.Fatal("expected resolved existing config path")
	}
	if cfg.Whisper.Model != "medium" {
		t.Fatalf("whisper model default missing: %q", cfg.Whisper.Model)
	}
	if cfg.Pipeline.LookbackDays != 7 {
		t.Fatalf("lookback default missing: %d", cfg.Pipeline.LookbackDays)
	}
	if cfg.NotebookLM.NotebookPrefix == "" {
		t.Fatal("notebook prefix default missing")
	}
	if cfg.Retention.AudioMonths != 3 {
		t.Fatalf("audio retention default missing: %d", cfg.Retention.AudioMonths)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("config should not exist")
	}
	if cfg.Email.SMTPHost != "smtp.gmail.com" {
		t.Fatalf("smtp host default missing: %q", cfg.Email.SMTPHost)
	}
}

func TestLoadRejectsBadFeed(t *testing.T) {
	path := writeConfig(t, `
[[feeds]]
name = "bad/name"
url = "https://example.com/rss"
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected path separator rejection")
	}

	path = writeConfig(t, `
[[feeds]]
name = "dup"
url = "https://example.com/a"

[[feeds]]
name = "dup"
url = "https://example.com/b"
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected duplicate feed rejection")
	}
}

func TestLoadRejectsNegativeRetention(t *testing.T) {
	path := writeConfig(t, `
[retention]
audio_months = -1
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected negative retention rejection")
	}
}

func TestSMTPUserFallsBackToFrom(t *testing.T) {
	path := writeConfig(t, `
[email]
from = "sender@example.com"
to = ["a@example.com", " ", "b@example.com"]
`)
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Email.SMTPUser != "sender@example.com" {
		t.Fatalf("smtp_user fallback missing: %q", cfg.Email.SMTPUser)
	}
	if len(cfg.Email.To) != 2 {
		t.Fatalf("blank recipients should be dropped: %v", cfg.Email.To)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Feeds = append(cfg.Feeds, Feed{Name: "gooaye", URL: "https://example.com/rss"})
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, _, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Feeds) != 1 || loaded.Feeds[0].Name != "gooaye" {
		t.Fatalf("feed did not survive round trip: %+v", loaded.Feeds)
	}
}

func TestCreateSampleParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[retention]") {
		t.Fatal("sample config missing retention section")
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
