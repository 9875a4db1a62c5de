package media_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"subgen/internal/media"
	"subgen/internal/testsupport"
)

func TestScanFiltersNonMediaFiles(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "movie.mkv"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "song.MP3"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "notes.txt"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "movie.srt"), 16)

	files, err := media.Scan(root, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{
		filepath.Join(root, "movie.mkv"),
		filepath.Join(root, "song.MP3"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("Scan returned %v, want %v", files, want)
	}
}

func TestScanRecursiveControlsSubdirectories(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "top.mp4"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "season1", "episode1.mkv"), 16)

	flat, err := media.Scan(root, false)
	if err != nil {
		t.Fatalf("Scan flat: %v", err)
	}
	if len(flat) != 1 || flat[0] != filepath.Join(root, "top.mp4") {
		t.Fatalf("flat scan returned %v", flat)
	}

	deep, err := media.Scan(root, true)
	if err != nil {
		t.Fatalf("Scan recursive: %v", err)
	}
	want := []string{
		filepath.Join(root, "season1", "episode1.mkv"),
		filepath.Join(root, "top.mp4"),
	}
	if !reflect.DeepEqual(deep, want) {
		t.Fatalf("recursive scan returned %v, want %v", deep, want)
	}
}

func TestScanSkipsUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "open", "movie.mkv"), 16)
	locked := filepath.Join(root, "locked")
	testsupport.WriteFile(t, filepath.Join(locked, "hidden.mkv"), 16)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(locked, 0o755)
	})

	files, err := media.Scan(root, true)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{filepath.Join(root, "open", "movie.mkv")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("Scan returned %v, want %v", files, want)
	}
}

func TestScanMissingRootYieldsNoFiles(t *testing.T) {
	files, err := media.Scan(filepath.Join(t.TempDir(), "absent"), true)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}
}

func TestScanRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "movie.mkv")
	testsupport.WriteFile(t, path, 16)

	if _, err := media.Scan(path, true); err == nil {
		t.Fatal("expected error for file root")
	}
}

func TestSubtitlePathReplacesExtension(t *testing.T) {
	cases := map[string]string{
		"/data/movies/Heat.mkv":  "/data/movies/Heat.srt",
		"/data/a/b/episode.m4a":  "/data/a/b/episode.srt",
		"/data/odd.name.tar.mp4": "/data/odd.name.tar.srt",
	}
	for in, want := range cases {
		if got := media.SubtitlePath(in); got != want {
			t.Fatalf("SubtitlePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestListSubdirectories(t *testing.T) {
	base := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(base, "movies", "a.mkv"), 16)
	testsupport.WriteFile(t, filepath.Join(base, "shows", "b.mkv"), 16)
	testsupport.WriteFile(t, filepath.Join(base, "loose.mkv"), 16)

	dirs, err := media.ListSubdirectories(base)
	if err != nil {
		t.Fatalf("ListSubdirectories: %v", err)
	}
	want := []string{
		filepath.Join(base, "movies"),
		filepath.Join(base, "shows"),
	}
	if !reflect.DeepEqual(dirs, want) {
		t.Fatalf("ListSubdirectories returned %v, want %v", dirs, want)
	}
}
