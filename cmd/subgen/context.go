package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"subgen/internal/config"
	"subgen/internal/logging"
	"subgen/internal/runlog"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// newLogger builds the configured logger writing to stderr and the log
// file. CLI commands that print machine-readable output pass quiet to
// keep log lines off the terminal; the file still receives them.
func (c *commandContext) newLogger(quiet bool) *slog.Logger {
	cfg := c.configValue()
	if cfg == nil {
		return logging.NewNop()
	}
	paths := []string{filepath.Join(cfg.Paths.LogDir, "subgen.log")}
	if !quiet {
		paths = append(paths, "stderr")
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: paths,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// openStore opens the run history database for the loaded config.
func (c *commandContext) openStore() (*runlog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return runlog.Open(cfg)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
