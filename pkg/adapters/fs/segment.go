package fs

import (
	"strings"
)

// Segment splits raw text into paragraphs on blank lines. Line endings are
// normalised, each paragraph is trimmed, and source order is kept. Lines
// inside a paragraph stay joined by newlines.
func Segment(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var (
		paragraphs []string
		current    []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		if p := strings.TrimSpace(strings.Join(current, "\n")); p != "" {
			paragraphs = append(paragraphs, p)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	flush()
	return paragraphs
}
