package media

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Audio and video containers faster-whisper can decode.
var mediaExtensions = map[string]struct{}{
	".aac":  {},
	".aiff": {},
	".flac": {},
	".m4a":  {},
	".mkv":  {},
	".mov":  {},
	".mp3":  {},
	".mp4":  {},
	".ogg":  {},
	".wav":  {},
	".webm": {},
	".wma":  {},
}

// IsMediaFile reports whether the path carries a known media extension.
func IsMediaFile(path string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns the known media extensions in sorted order.
func Extensions() []string {
	out := make([]string, 0, len(mediaExtensions))
	for ext := range mediaExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// SubtitlePath returns the SRT destination for a media file: the same
// path with the media extension replaced by .srt.
func SubtitlePath(mediaPath string) string {
	ext := filepath.Ext(mediaPath)
	return strings.TrimSuffix(mediaPath, ext) + ".srt"
}

// Scan returns every media file under root. With recursive false only the
// immediate directory entries are considered. A missing root yields no
// files and no error so one absent mount does not fail a whole run.
// Results are sorted for deterministic processing order.
func Scan(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			// An unreadable subdirectory is skipped, not fatal; mixed
			// permissions on a media mount must not kill a whole run.
			if walkErr != nil {
				if entry != nil && entry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if entry.Type().IsRegular() && IsMediaFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", root, err)
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && IsMediaFile(entry.Name()) {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// ScanAll scans every root in order and concatenates the results.
func ScanAll(roots []string, recursive bool) ([]string, error) {
	var files []string
	for _, root := range roots {
		found, err := Scan(root, recursive)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// ListSubdirectories returns the sorted immediate subdirectories of base.
// The web UI offers these as selectable scan roots.
func ListSubdirectories(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", base, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(base, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
