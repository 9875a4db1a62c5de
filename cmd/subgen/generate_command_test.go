package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateWritesSubtitleAndSkipsSecondRun(t *testing.T) {
	env := setupCLITestEnv(t)
	mediaDir := filepath.Join(env.cfg.Paths.BaseDir, "movies")
	source := filepath.Join(mediaDir, "clip.mkv")
	writeMediaFile(t, source)

	out, _, err := runCLI(t, env.configPath, "generate", mediaDir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "Subtitle created successfully.")
	requireContains(t, out, "1 created, 0 skipped, 0 failed")

	subtitle := filepath.Join(mediaDir, "clip.srt")
	data, err := os.ReadFile(subtitle)
	if err != nil {
		t.Fatalf("read subtitle: %v", err)
	}
	requireContains(t, string(data), "stub transcript")
	requireContains(t, string(data), "00:00:00,000 --> 00:00:01,500")

	// Without --overwrite the second run leaves the file alone.
	out, _, err = runCLI(t, env.configPath, "generate", mediaDir)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	requireContains(t, out, "Subtitle already exists.")
	requireContains(t, out, "0 created, 1 skipped, 0 failed")

	out, _, err = runCLI(t, env.configPath, "generate", mediaDir, "--overwrite")
	if err != nil {
		t.Fatalf("overwrite generate: %v", err)
	}
	requireContains(t, out, "1 created, 0 skipped, 0 failed")
}

func TestGenerateReportsEmptyDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	emptyDir := filepath.Join(env.cfg.Paths.BaseDir, "empty")
	if err := os.MkdirAll(emptyDir, 0o755); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, env.configPath, "generate", emptyDir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "No media files detected.")
}

func TestGenerateNoRecursiveFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	mediaDir := filepath.Join(env.cfg.Paths.BaseDir, "shows")
	nested := filepath.Join(mediaDir, "season1", "episode.mp4")
	writeMediaFile(t, nested)

	// Recursion is on by default, so the nested episode is found.
	out, _, err := runCLI(t, env.configPath, "generate", mediaDir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "1 created, 0 skipped, 0 failed")
	if _, err := os.Stat(filepath.Join(mediaDir, "season1", "episode.srt")); err != nil {
		t.Fatalf("nested subtitle missing: %v", err)
	}

	other := filepath.Join(env.cfg.Paths.BaseDir, "flat")
	writeMediaFile(t, filepath.Join(other, "deep", "clip.mkv"))
	out, _, err = runCLI(t, env.configPath, "generate", other, "--no-recursive")
	if err != nil {
		t.Fatalf("no-recursive generate: %v", err)
	}
	requireContains(t, out, "No media files detected.")
}

func TestGenerateContinuesPastFailures(t *testing.T) {
	env := setupCLITestEnv(t)

	// Replace the stub with one that fails for a specific file.
	script := `#!/bin/sh
src="$1"
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--output_dir" ]; then out="$arg"; fi
  prev="$arg"
done
case "$src" in
  *bad*) echo "model crashed" >&2; exit 1 ;;
esac
name=$(basename "$src")
name="${name%.*}"
printf '{"segments":[{"start":0.0,"end":1.5,"text":"stub transcript"}]}' > "$out/$name.json"
`
	if err := os.WriteFile(env.cfg.Whisper.Binary, []byte(script), 0o755); err != nil {
		t.Fatalf("rewrite stub: %v", err)
	}

	mediaDir := filepath.Join(env.cfg.Paths.BaseDir, "mixed")
	writeMediaFile(t, filepath.Join(mediaDir, "bad.mkv"))
	writeMediaFile(t, filepath.Join(mediaDir, "good.mkv"))

	out, _, err := runCLI(t, env.configPath, "generate", mediaDir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "Failed to generate subtitle:")
	requireContains(t, out, "model crashed")
	requireContains(t, out, "1 created, 0 skipped, 1 failed")
	if _, err := os.Stat(filepath.Join(mediaDir, "good.srt")); err != nil {
		t.Fatalf("good subtitle missing: %v", err)
	}
}

func TestGenerateJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	mediaDir := filepath.Join(env.cfg.Paths.BaseDir, "movies")
	writeMediaFile(t, filepath.Join(mediaDir, "clip.flac"))

	out, _, err := runCLI(t, env.configPath, "generate", mediaDir, "--json")
	if err != nil {
		t.Fatalf("generate --json: %v", err)
	}
	var payload struct {
		RunID   string `json:"run_id"`
		Created int    `json:"created"`
		Results []struct {
			Status string `json:"status"`
			Output string `json:"output"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if payload.RunID == "" || payload.Created != 1 || len(payload.Results) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Results[0].Status != "created" {
		t.Fatalf("unexpected result: %+v", payload.Results[0])
	}
}

func TestGenerateRequiresDirectoryArgument(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "generate")
	if err == nil {
		t.Fatal("expected error for missing directory argument")
	}
}

func writeMediaFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("fake media payload"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
}
