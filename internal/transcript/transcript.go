// Package transcript formats recognized segments as timestamped text and
// writes them to disk.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Segment is one recognized utterance. Start and End are in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// FormatLine renders s as "[start ~ end] text" with one decimal place.
func FormatLine(s Segment) string {
	return fmt.Sprintf("[%.1f ~ %.1f] %s", s.Start, s.End, s.Text)
}

// Format renders segments one per line, in order, joined by "\n" with no
// trailing newline.
func Format(segments []Segment) string {
	lines := make([]string, len(segments))
	for i, s := range segments {
		lines[i] = FormatLine(s)
	}
	return strings.Join(lines, "\n")
}

// Offset returns a copy of segments shifted by seconds.
func Offset(segments []Segment, seconds float64) []Segment {
	out := make([]Segment, len(segments))
	for i, s := range segments {
		out[i] = Segment{Start: s.Start + seconds, End: s.End + seconds, Text: s.Text}
	}
	return out
}

// Save writes text to path as UTF-8, creating missing parent directories
// and replacing any existing file.
func Save(text, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create transcript directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
