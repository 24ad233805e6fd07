package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Feed describes one podcast RSS source. Feed names namespace audio and
// transcript subdirectories, so they must be filesystem-safe.
type Feed struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Whisper contains configuration for the transcription collaborator.
type Whisper struct {
	Binary      string `toml:"binary"`
	Model       string `toml:"model"`
	Language    string `toml:"language"`
	ComputeType string `toml:"compute_type"`
}

// NotebookLM contains configuration for the external knowledge-tool CLI.
type NotebookLM struct {
	Binary         string `toml:"binary"`
	NotebookPrefix string `toml:"notebook_prefix"`
	ReportLanguage string `toml:"report_language"`
}

// Email contains SMTP delivery settings. The SMTP password is read from the
// EMAIL_SMTP_PASSWORD environment variable and is never written back here.
type Email struct {
	From     string   `toml:"from"`
	To       []string `toml:"to"`
	SMTPHost string   `toml:"smtp_host"`
	SMTPPort int      `toml:"smtp_port"`
	SMTPUser string   `toml:"smtp_user"`
}

// Retention contains per-category retention windows in whole calendar months.
// A value of 0 means keep forever.
type Retention struct {
	AudioMonths       int `toml:"audio_months"`
	TranscriptsMonths int `toml:"transcripts_months"`
	ReportsMonths     int `toml:"reports_months"`
}

// Pipeline contains run-shaping settings.
type Pipeline struct {
	LookbackDays int `toml:"lookback_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for swr.
//
// Configuration sections by subsystem:
//   - Paths: data root and log directory
//   - Feeds: podcast RSS sources
//   - Whisper: transcription collaborator settings
//   - NotebookLM: knowledge-tool CLI settings
//   - Email: SMTP delivery settings
//   - Retention: per-category data retention windows
//   - Pipeline: lookback window
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Feeds      []Feed     `toml:"feeds"`
	Whisper    Whisper    `toml:"whisper"`
	NotebookLM NotebookLM `toml:"notebooklm"`
	Email      Email      `toml:"email"`
	Retention  Retention  `toml:"retention"`
	Pipeline   Pipeline   `toml:"pipeline"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/swr/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("swr.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Save writes the configuration back to path, creating parent directories as
// needed. Used by the feed/recipient/config management commands.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// AudioDir returns the root directory holding per-feed audio subdirectories.
func (c *Config) AudioDir() string {
	return filepath.Join(c.Paths.DataDir, "audio")
}

// TranscriptsDir returns the root directory holding per-feed transcript subdirectories.
func (c *Config) TranscriptsDir() string {
	return filepath.Join(c.Paths.DataDir, "transcripts")
}

// ReportsDir returns the root directory holding per-run report folders.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.Paths.DataDir, "reports")
}

// EnsureDirectories creates the data subtrees and log directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.AudioDir(), c.TranscriptsDir(), c.ReportsDir(), c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SMTPPassword resolves the delivery credential from the environment.
func (c *Config) SMTPPassword() string {
	return strings.TrimSpace(os.Getenv("EMAIL_SMTP_PASSWORD"))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
