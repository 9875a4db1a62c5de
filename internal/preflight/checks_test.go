package preflight_test

import (
	"path/filepath"
	"testing"

	"subgen/internal/preflight"
	"subgen/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("dir", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir: %+v", result)
	}

	missing := preflight.CheckDirectoryAccess("dir", filepath.Join(dir, "absent"))
	if missing.Passed {
		t.Fatalf("expected failure for missing dir: %+v", missing)
	}

	file := filepath.Join(dir, "file.mkv")
	testsupport.WriteFile(t, file, 8)
	notDir := preflight.CheckDirectoryAccess("dir", file)
	if notDir.Passed {
		t.Fatalf("expected failure for non-directory: %+v", notDir)
	}
}

func TestCheckEngineBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("fake-whisper"), testsupport.WithWhisperBinary("fake-whisper"))

	result := preflight.CheckEngineBinary(cfg.WhisperBinary())
	if !result.Passed {
		t.Fatalf("expected stubbed binary to be found: %+v", result)
	}

	absent := preflight.CheckEngineBinary("definitely-not-a-real-engine")
	if absent.Passed {
		t.Fatalf("expected failure for missing binary: %+v", absent)
	}
}

func TestRunCoversAllChecks(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	results := preflight.Run(cfg)
	if len(results) < 4 {
		t.Fatalf("expected at least 4 checks, got %d", len(results))
	}
	names := map[string]bool{}
	for _, result := range results {
		names[result.Name] = true
	}
	for _, want := range []string{"Transcription engine", "Media base directory", "Work directory", "Log directory"} {
		if !names[want] {
			t.Fatalf("missing check %q in %v", want, results)
		}
	}
}
