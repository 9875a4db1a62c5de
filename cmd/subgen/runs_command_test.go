package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunsListsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")

	mediaDir := filepath.Join(env.cfg.Paths.BaseDir, "movies")
	writeMediaFile(t, filepath.Join(mediaDir, "clip.mkv"))
	if _, _, err := runCLI(t, env.configPath, "generate", mediaDir); err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, _, err = runCLI(t, env.configPath, "runs")
	if err != nil {
		t.Fatalf("runs after generate: %v", err)
	}
	requireContains(t, out, mediaDir)
	if !strings.Contains(out, "Created") {
		t.Fatalf("missing table header in %q", out)
	}
}

func TestRunsShowsDetail(t *testing.T) {
	env := setupCLITestEnv(t)
	mediaDir := filepath.Join(env.cfg.Paths.BaseDir, "movies")
	source := filepath.Join(mediaDir, "clip.mkv")
	writeMediaFile(t, source)

	out, _, err := runCLI(t, env.configPath, "generate", mediaDir, "--json")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var payload struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode run id: %v", err)
	}

	out, _, err = runCLI(t, env.configPath, "runs", payload.RunID)
	if err != nil {
		t.Fatalf("runs detail: %v", err)
	}
	requireContains(t, out, payload.RunID)
	requireContains(t, out, source)
	requireContains(t, out, "1 created, 0 skipped, 0 failed")
}

func TestRunsUnknownID(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "runs", "not-a-run")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
