package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnvOverrides()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWhisper()
	c.normalizeLogging()
	c.Web.Bind = strings.TrimSpace(c.Web.Bind)
	c.Web.APIToken = strings.TrimSpace(c.Web.APIToken)
	return nil
}

// applyEnvOverrides layers the SUBTITLE_* container environment
// variables on top of file values.
func (c *Config) applyEnvOverrides() {
	if value, ok := lookupEnv("SUBTITLE_BASE_DIR"); ok {
		c.Paths.BaseDir = value
	}
	if value, ok := lookupEnv("SUBTITLE_MODEL_SIZE"); ok {
		c.Whisper.Model = value
	}
	if value, ok := lookupEnv("SUBTITLE_COMPUTE_TYPE"); ok {
		c.Whisper.ComputeType = value
	}
	if value, ok := lookupEnv("SUBTITLE_LANGUAGE"); ok {
		c.Whisper.Language = value
	}
	if value, ok := lookupEnv("SUBTITLE_BEAM_SIZE"); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			c.Whisper.BeamSize = parsed
		}
	}
	if value, ok := lookupEnv("SUBTITLE_VAD_FILTER"); ok {
		c.Whisper.VADFilter = parseFlag(value)
	}
	if value, ok := lookupEnv("SUBGEN_API_TOKEN"); ok {
		c.Web.APIToken = value
	}
}

func lookupEnv(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// parseFlag accepts the truthy set shared by the web form and the env
// overrides: 1, true, yes, on.
func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// ParseFlag exposes the env flag parsing rules for other packages.
func ParseFlag(value string) bool {
	return parseFlag(value)
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.BaseDir, err = expandPath(c.Paths.BaseDir); err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Binary = strings.TrimSpace(c.Whisper.Binary)
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	c.Whisper.ComputeType = strings.TrimSpace(c.Whisper.ComputeType)
	c.Whisper.Language = strings.ToLower(strings.TrimSpace(c.Whisper.Language))
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
