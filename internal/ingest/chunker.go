package ingest

import "strings"

const (
	maxSectionLength    = 1000
	sentenceSearchLimit = 100
	sectionOverlap      = 100
)

var sentenceEndings = ".!?"
var wordBreaks = ",;:(){}[] \t\n"

// SplitText cuts text into overlapping sections of at most
// maxSectionLength characters, preferring to break at a sentence ending
// near the boundary and falling back to any word break.
func SplitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxSectionLength {
		return []string{text}
	}

	var sections []string
	start := 0
	for start < len(text) {
		end := start + maxSectionLength
		if end >= len(text) {
			if section := strings.TrimSpace(text[start:]); section != "" {
				sections = append(sections, section)
			}
			break
		}

		cut := findBreak(text, end)
		section := strings.TrimSpace(text[start:cut])
		if section != "" {
			sections = append(sections, section)
		}

		next := cut - sectionOverlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return sections
}

// findBreak scans backwards from end for a sentence ending, then for any
// word break, and returns the index to cut at. The hard boundary is used
// when neither appears within the search window.
func findBreak(text string, end int) int {
	limit := end - sentenceSearchLimit
	if limit < 0 {
		limit = 0
	}
	for i := end - 1; i >= limit; i-- {
		if strings.IndexByte(sentenceEndings, text[i]) >= 0 {
			return i + 1
		}
	}
	for i := end - 1; i >= limit; i-- {
		if strings.IndexByte(wordBreaks, text[i]) >= 0 {
			return i + 1
		}
	}
	return end
}
