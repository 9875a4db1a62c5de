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
	// BaseDir is the mount point whose subdirectories the web UI offers
	// for selection.
	BaseDir string `toml:"base_dir"`
	LogDir  string `toml:"log_dir"`
	// WorkDir holds per-run engine output before the SRT is written next
	// to its source file.
	WorkDir string `toml:"work_dir"`
}

// Whisper contains the faster-whisper engine parameters.
type Whisper struct {
	// Binary overrides the engine executable. Empty means the bundled
	// whisper-ctranslate2 found on PATH.
	Binary      string `toml:"binary"`
	Model       string `toml:"model"`
	ComputeType string `toml:"compute_type"`
	// Language forces a transcription language; empty means auto-detect.
	Language  string `toml:"language"`
	BeamSize  int    `toml:"beam_size"`
	VADFilter bool   `toml:"vad_filter"`
	// TimeoutSeconds bounds a single file transcription. Zero disables
	// the per-file timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Scan contains directory scanning behavior.
type Scan struct {
	Recursive bool `toml:"recursive"`
	// Overwrite replaces existing subtitle files instead of skipping them.
	Overwrite bool `toml:"overwrite"`
}

// Web contains the HTTP front-end configuration.
type Web struct {
	Bind string `toml:"bind"`
	// APIToken, when set, is required as a bearer token on /api requests.
	APIToken string `toml:"api_token"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subgen.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Whisper Whisper `toml:"whisper"`
	Scan    Scan    `toml:"scan"`
	Web     Web     `toml:"web"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has environment overrides applied and all path fields expanded.
// The second return is the resolved path, the third whether a file was read.
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
		if _, err := os.Stat(expanded); err != nil {
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
	projectPath, err := filepath.Abs("subgen.toml")
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

// EnsureDirectories creates the directories subgen writes to. BaseDir is
// created on a best-effort basis so startup survives an offline mount.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.BaseDir) != "" {
		_ = os.MkdirAll(c.Paths.BaseDir, 0o755)
	}
	return nil
}

// WhisperBinary returns the engine executable name.
func (c *Config) WhisperBinary() string {
	if strings.TrimSpace(c.Whisper.Binary) != "" {
		return c.Whisper.Binary
	}
	return "whisper-ctranslate2"
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
