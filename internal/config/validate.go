package config

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateWeb(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.BaseDir == "" {
		return errors.New("paths.base_dir must be set")
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if c.Whisper.Model == "" {
		return errors.New("whisper.model must be set")
	}
	if c.Whisper.ComputeType == "" {
		return errors.New("whisper.compute_type must be set")
	}
	if c.Whisper.BeamSize < 0 {
		return errors.New("whisper.beam_size must be >= 0 (0 uses the engine default)")
	}
	if c.Whisper.TimeoutSeconds < 0 {
		return errors.New("whisper.timeout_seconds must be >= 0")
	}
	if c.Whisper.Language != "" {
		if _, err := language.Parse(c.Whisper.Language); err != nil {
			return fmt.Errorf("whisper.language: unrecognized tag %q", c.Whisper.Language)
		}
	}
	return nil
}

func (c *Config) validateWeb() error {
	if c.Web.Bind == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Web.Bind); err != nil {
		return fmt.Errorf("web.bind: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
