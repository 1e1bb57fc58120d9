package ingest

import (
	"strings"
	"testing"
)

func TestSplitTextShortTextSingleSection(t *testing.T) {
	sections := SplitText("a short document")
	if len(sections) != 1 || sections[0] != "a short document" {
		t.Errorf("sections = %v", sections)
	}
}

func TestSplitTextEmpty(t *testing.T) {
	if sections := SplitText("   \n "); sections != nil {
		t.Errorf("sections = %v", sections)
	}
}

func TestSplitTextRespectsMaxLength(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)
	sections := SplitText(text)

	if len(sections) < 2 {
		t.Fatalf("expected multiple sections, got %d", len(sections))
	}
	for i, s := range sections {
		if len(s) > maxSectionLength {
			t.Errorf("section %d length %d exceeds %d", i, len(s), maxSectionLength)
		}
	}
}

func TestSplitTextBreaksAtSentences(t *testing.T) {
	text := strings.Repeat("This sentence is exactly some words long and ends cleanly. ", 100)
	sections := SplitText(text)

	for i, s := range sections[:len(sections)-1] {
		if !strings.HasSuffix(s, ".") {
			t.Errorf("section %d does not end at a sentence: %q", i, s[len(s)-20:])
		}
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon. ", 150)
	sections := SplitText(text)
	if len(sections) < 2 {
		t.Fatalf("expected multiple sections, got %d", len(sections))
	}

	// The tail of each section reappears in the next one.
	for i := 0; i < len(sections)-1; i++ {
		tail := strings.TrimSpace(sections[i][len(sections[i])-20:])
		if !strings.Contains(sections[i+1], tail) {
			t.Errorf("section %d tail %q not found in next section", i, tail)
		}
	}
}

func TestSplitTextNoBreakFallsBackToHardCut(t *testing.T) {
	text := strings.Repeat("x", 2500)
	sections := SplitText(text)
	if len(sections) < 3 {
		t.Fatalf("expected at least 3 sections, got %d", len(sections))
	}
	for i, s := range sections {
		if len(s) > maxSectionLength {
			t.Errorf("section %d length %d exceeds %d", i, len(s), maxSectionLength)
		}
	}
}
