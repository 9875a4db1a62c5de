package generate_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subgen/internal/generate"
	"subgen/internal/media"
	"subgen/internal/runlog"
	"subgen/internal/testsupport"
	"subgen/internal/whisper"
)

// fakeEngine returns canned segments per source basename and records calls.
type fakeEngine struct {
	calls    []string
	failures map[string]error
}

func (e *fakeEngine) Transcribe(ctx context.Context, source, outputDir string) ([]whisper.Segment, error) {
	e.calls = append(e.calls, source)
	if err, ok := e.failures[filepath.Base(source)]; ok {
		return nil, err
	}
	return []whisper.Segment{
		{Start: 0, End: 1.5, Text: "Transcribed " + filepath.Base(source)},
	}, nil
}

func newService(t *testing.T, engine generate.Engine) (*generate.Service, *runlog.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return generate.NewService(cfg, engine, store, nil), store
}

func TestRunCreatesSubtitlesNextToMedia(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "movie.mkv"), 64)
	testsupport.WriteFile(t, filepath.Join(root, "nested", "episode.mp4"), 64)

	engine := &fakeEngine{}
	svc, store := newService(t, engine)

	summary, err := svc.Run(context.Background(), generate.Request{Roots: []string{root}, Recursive: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Created != 2 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	for _, source := range []string{
		filepath.Join(root, "movie.mkv"),
		filepath.Join(root, "nested", "episode.mp4"),
	} {
		output := media.SubtitlePath(source)
		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("expected subtitle at %s: %v", output, err)
		}
		if !strings.Contains(string(data), "Transcribed") {
			t.Fatalf("unexpected subtitle content: %q", data)
		}
	}

	run, err := store.GetRun(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run == nil || run.Created != 2 || !run.Finished() {
		t.Fatalf("unexpected recorded run: %+v", run)
	}
}

func TestRunSkipsExistingSubtitleUnlessOverwrite(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "movie.mkv")
	testsupport.WriteFile(t, source, 64)
	existing := media.SubtitlePath(source)
	if err := os.WriteFile(existing, []byte("1\n00:00:00,000 --> 00:00:01,000\nold\n"), 0o644); err != nil {
		t.Fatalf("seed subtitle: %v", err)
	}

	engine := &fakeEngine{}
	svc, _ := newService(t, engine)

	summary, err := svc.Run(context.Background(), generate.Request{Roots: []string{root}, Recursive: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped != 1 || summary.Created != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(engine.calls) != 0 {
		t.Fatalf("engine should not run for skipped file, calls: %v", engine.calls)
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("read subtitle: %v", err)
	}
	if !strings.Contains(string(data), "old") {
		t.Fatal("existing subtitle was modified without overwrite")
	}

	// Same run with overwrite replaces the file.
	summary, err = svc.Run(context.Background(), generate.Request{Roots: []string{root}, Recursive: true, Overwrite: true})
	if err != nil {
		t.Fatalf("Run overwrite: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("unexpected overwrite summary: %+v", summary)
	}
	data, err = os.ReadFile(existing)
	if err != nil {
		t.Fatalf("read subtitle: %v", err)
	}
	if strings.Contains(string(data), "old") {
		t.Fatal("subtitle was not regenerated with overwrite")
	}
}

func TestRunContinuesPastPerFileFailures(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "bad.mkv"), 64)
	testsupport.WriteFile(t, filepath.Join(root, "good.mkv"), 64)

	engine := &fakeEngine{failures: map[string]error{"bad.mkv": errors.New("decode failed")}}
	svc, store := newService(t, engine)

	summary, err := svc.Run(context.Background(), generate.Request{Roots: []string{root}, Recursive: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 1 || summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var failed generate.Result
	for _, result := range summary.Results {
		if !result.Created && result.Message != generate.MessageExists {
			failed = result
		}
	}
	if !strings.HasPrefix(failed.Message, "Failed to generate subtitle:") {
		t.Fatalf("unexpected failure message: %q", failed.Message)
	}
	if _, err := os.Stat(media.SubtitlePath(filepath.Join(root, "good.mkv"))); err != nil {
		t.Fatalf("good file should still produce a subtitle: %v", err)
	}

	results, err := store.ResultsForRun(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("ResultsForRun: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 recorded results, got %d", len(results))
	}
}

func TestRunReportsNoMediaPerRoot(t *testing.T) {
	emptyA := t.TempDir()
	emptyB := t.TempDir()

	engine := &fakeEngine{}
	svc, _ := newService(t, engine)

	summary, err := svc.Run(context.Background(), generate.Request{Roots: []string{emptyA, emptyB}, Recursive: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Results) != 2 {
		t.Fatalf("expected one result per root, got %v", summary.Results)
	}
	for _, result := range summary.Results {
		if result.Message != generate.MessageNoMedia {
			t.Fatalf("unexpected message: %q", result.Message)
		}
		if result.Outcome() != runlog.OutcomeSkipped {
			t.Fatalf("unexpected outcome: %q", result.Outcome())
		}
	}
	if len(engine.calls) != 0 {
		t.Fatalf("engine should not run with no media, calls: %v", engine.calls)
	}
}

func TestRunSkipsNonMediaFiles(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "notes.txt"), 64)
	testsupport.WriteFile(t, filepath.Join(root, "movie.mkv"), 64)

	engine := &fakeEngine{}
	svc, _ := newService(t, engine)

	if _, err := svc.Run(context.Background(), generate.Request{Roots: []string{root}, Recursive: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(engine.calls) != 1 || filepath.Base(engine.calls[0]) != "movie.mkv" {
		t.Fatalf("unexpected engine calls: %v", engine.calls)
	}
}

func TestRunRequiresRoots(t *testing.T) {
	engine := &fakeEngine{}
	svc, _ := newService(t, engine)

	if _, err := svc.Run(context.Background(), generate.Request{}); err == nil {
		t.Fatal("expected error for empty roots")
	}
}
