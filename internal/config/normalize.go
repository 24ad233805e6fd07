package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFeeds()
	c.normalizeWhisper()
	c.normalizeNotebookLM()
	c.normalizeEmail()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFeeds() {
	for i := range c.Feeds {
		c.Feeds[i].Name = strings.TrimSpace(c.Feeds[i].Name)
		c.Feeds[i].URL = strings.TrimSpace(c.Feeds[i].URL)
	}
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Binary = strings.TrimSpace(c.Whisper.Binary)
	if c.Whisper.Binary == "" {
		c.Whisper.Binary = defaultWhisperBinary
	}
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	c.Whisper.Language = strings.TrimSpace(c.Whisper.Language)
	if c.Whisper.Language == "" {
		c.Whisper.Language = defaultWhisperLanguage
	}
	c.Whisper.ComputeType = strings.TrimSpace(c.Whisper.ComputeType)
	if c.Whisper.ComputeType == "" {
		c.Whisper.ComputeType = defaultWhisperComputeType
	}
}

func (c *Config) normalizeNotebookLM() {
	c.NotebookLM.Binary = strings.TrimSpace(c.NotebookLM.Binary)
	if c.NotebookLM.Binary == "" {
		c.NotebookLM.Binary = defaultNotebookLMBinary
	}
	c.NotebookLM.NotebookPrefix = strings.TrimSpace(c.NotebookLM.NotebookPrefix)
	if c.NotebookLM.NotebookPrefix == "" {
		c.NotebookLM.NotebookPrefix = defaultNotebookPrefix
	}
	c.NotebookLM.ReportLanguage = strings.TrimSpace(c.NotebookLM.ReportLanguage)
	if c.NotebookLM.ReportLanguage == "" {
		c.NotebookLM.ReportLanguage = defaultReportLanguage
	}
}

func (c *Config) normalizeEmail() {
	c.Email.From = strings.TrimSpace(c.Email.From)
	recipients := make([]string, 0, len(c.Email.To))
	for _, addr := range c.Email.To {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	c.Email.To = recipients
	c.Email.SMTPHost = strings.TrimSpace(c.Email.SMTPHost)
	if c.Email.SMTPHost == "" {
		c.Email.SMTPHost = defaultSMTPHost
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = defaultSMTPPort
	}
	c.Email.SMTPUser = strings.TrimSpace(c.Email.SMTPUser)
	if c.Email.SMTPUser == "" {
		c.Email.SMTPUser = c.Email.From
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.LookbackDays == 0 {
		c.Pipeline.LookbackDays = defaultLookbackDays
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
