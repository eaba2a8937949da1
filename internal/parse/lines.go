package parse

import "strings"

// NormalizeLines splits raw text into trimmed, non-empty lines, preserving
// document order. Every downstream extractor works off this view.
func NormalizeLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
