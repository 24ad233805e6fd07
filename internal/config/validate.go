package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFeeds(); err != nil {
		return err
	}
	if err := c.validateRetention(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFeeds() error {
	seen := make(map[string]struct{}, len(c.Feeds))
	for i, feed := range c.Feeds {
		if feed.Name == "" {
			return fmt.Errorf("feeds[%d].name must be set", i)
		}
		if strings.ContainsAny(feed.Name, `/\`) {
			return fmt.Errorf("feeds[%d].name %q must not contain path separators", i, feed.Name)
		}
		if feed.URL == "" {
			return fmt.Errorf("feeds[%d].url must be set", i)
		}
		if _, dup := seen[feed.Name]; dup {
			return fmt.Errorf("duplicate feed name %q", feed.Name)
		}
		seen[feed.Name] = struct{}{}
	}
	return nil
}

func (c *Config) validateRetention() error {
	if c.Retention.AudioMonths < 0 {
		return errors.New("retention.audio_months must be >= 0")
	}
	if c.Retention.TranscriptsMonths < 0 {
		return errors.New("retention.transcripts_months must be >= 0")
	}
	if c.Retention.ReportsMonths < 0 {
		return errors.New("retention.reports_months must be >= 0")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.LookbackDays <= 0 {
		return errors.New("pipeline.lookback_days must be positive")
	}
	return nil
}

func (c *Config) validateEmail() error {
	if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
		return errors.New("email.smtp_port must be a valid port")
	}
	return nil
}
