package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subgen/internal/config"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

// setupCLITestEnv builds a temp config file plus a stub engine script
// that emits a minimal JSON transcript, so generate runs end to end
// without the real whisper binary.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, name := range []string{
		"SUBTITLE_BASE_DIR", "SUBTITLE_MODEL_SIZE", "SUBTITLE_COMPUTE_TYPE",
		"SUBTITLE_LANGUAGE", "SUBTITLE_BEAM_SIZE", "SUBTITLE_VAD_FILTER",
		"SUBGEN_API_TOKEN",
	} {
		t.Setenv(name, "")
	}

	cfg := config.Default()
	cfg.Paths.BaseDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Whisper.Binary = writeStubEngine(t, base)
	cfg.Web.Bind = "127.0.0.1:0"
	if err := os.MkdirAll(cfg.Paths.BaseDir, 0o755); err != nil {
		t.Fatalf("mkdir base dir: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, &cfg)

	return &cliTestEnv{cfg: &cfg, configPath: configPath, baseDir: base}
}

// writeStubEngine creates a shell script matching the engine CLI: it
// scans its arguments for --output_dir and writes <source-base>.json
// there with one segment.
func writeStubEngine(t *testing.T, base string) string {
	t.Helper()

	script := `#!/bin/sh
src="$1"
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--output_dir" ]; then
    out="$arg"
  fi
  prev="$arg"
done
name=$(basename "$src")
name="${name%.*}"
printf '{"segments":[{"start":0.0,"end":1.5,"text":"stub transcript"}]}' > "$out/$name.json"
`
	path := filepath.Join(base, "fake-whisper")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub engine: %v", err)
	}
	return path
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	content := fmt.Sprintf(`[paths]
base_dir = %q
log_dir = %q
work_dir = %q

[whisper]
binary = %q

[web]
bind = %q
`,
		cfg.Paths.BaseDir,
		cfg.Paths.LogDir,
		cfg.Paths.WorkDir,
		cfg.Whisper.Binary,
		cfg.Web.Bind,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
