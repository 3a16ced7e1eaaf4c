package config

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"asreval/internal/textutil"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScoring() error {
	if utf8.RuneCountInString(c.Scoring.Delimiter) != 1 {
		return fmt.Errorf("scoring.delimiter must be exactly one character, got %q", c.Scoring.Delimiter)
	}
	if c.Scoring.OffenderThreshold < 0 || math.IsNaN(c.Scoring.OffenderThreshold) {
		return errors.New("scoring.offender_threshold must be >= 0")
	}
	if c.Scoring.TopK < 0 {
		return errors.New("scoring.top_k must be >= 0")
	}
	if c.Scoring.Workers < 0 {
		return errors.New("scoring.workers must be >= 0")
	}
	return nil
}

func (c *Config) validateManifest() error {
	if c.Manifest.MaxDuration <= 0 {
		return errors.New("manifest.max_duration must be positive (seconds)")
	}
	if _, err := textutil.CompileCharset(c.Manifest.AllowedChars); err != nil {
		return fmt.Errorf("manifest.allowed_chars: %w", err)
	}
	for i, rule := range c.Manifest.Sources {
		if rule.Name == "" {
			return fmt.Errorf("manifest.sources[%d].name must be set", i)
		}
		if len(rule.Patterns) == 0 {
			return fmt.Errorf("manifest.sources[%d] (%s) must include at least one pattern", i, rule.Name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
