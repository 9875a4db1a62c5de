package subtitles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cue is a single timed caption.
type Cue struct {
	// Start and End are offsets from the beginning of the media in seconds.
	Start float64
	End   float64
	Text  string
}

// WriteSRT renders cues to destination in SubRip format. Parent
// directories are created as needed. Cues with empty text are dropped.
func WriteSRT(cues []Cue, destination string) error {
	if dir := filepath.Dir(destination); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure subtitle directory: %w", err)
		}
	}

	var builder strings.Builder
	index := 0
	for _, cue := range cues {
		text := sanitizeCueText(cue.Text)
		if text == "" {
			continue
		}
		index++
		if index > 1 {
			builder.WriteByte('\n')
		}
		fmt.Fprintf(&builder, "%d\n%s --> %s\n%s\n",
			index, FormatTimestamp(cue.Start), FormatTimestamp(cue.End), text)
	}

	if err := os.WriteFile(destination, []byte(builder.String()), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// sanitizeCueText trims whitespace and rewrites the SRT timing arrow so
// transcribed text cannot masquerade as a timing line.
func sanitizeCueText(text string) string {
	text = strings.TrimSpace(text)
	return strings.ReplaceAll(text, " --> ", " → ")
}

// FormatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(seconds*1000 + 0.5)
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
