// Package search retrieves grounding snippets from a document index.
//
// Two backends implement the Index interface: AzureIndex talks to an
// Azure AI Search service over REST, LocalIndex queries an embedded
// chromem-go vector store filled by `docchat ingest`.
package search

import (
	"context"
	"fmt"
	"strings"
)

// Mode selects how the index is queried.
type Mode string

const (
	ModeText    Mode = "text"
	ModeVectors Mode = "vectors"
	ModeHybrid  Mode = "hybrid"
)

// HasText reports whether the mode includes lexical matching. An empty
// mode means hybrid.
func (m Mode) HasText() bool {
	return m == ModeText || m == ModeHybrid || m == ""
}

// HasVectors reports whether the mode includes vector matching.
func (m Mode) HasVectors() bool {
	return m == ModeVectors || m == ModeHybrid || m == ""
}

// Valid reports whether m is a recognized retrieval mode.
func (m Mode) Valid() bool {
	switch m {
	case "", ModeText, ModeVectors, ModeHybrid:
		return true
	}
	return false
}

// Snippet is one grounding snippet produced by retrieval. SourceID is a
// stable document/page identifier used for citations.
type Snippet struct {
	SourceID string `json:"source_id"`
	Content  string `json:"content"`
}

// Query is one normalized index lookup.
type Query struct {
	// Text is the lexical query, nil when the retrieval mode excludes
	// lexical matching.
	Text *string
	// Vector is the query embedding, nil when the retrieval mode
	// excludes vector matching.
	Vector []float32
	// Top caps the number of returned snippets.
	Top int
	// ExcludeCategory drops documents whose category equals this value
	// exactly. Empty means no exclusion.
	ExcludeCategory string
	// SecurityFilter is an additional backend-specific filter expression
	// (odata for the Azure backend) for access control.
	SecurityFilter string
	// UseSemanticRanker requests semantic re-ranking of lexical results.
	UseSemanticRanker bool
	// UseSemanticCaptions requests extractive caption fragments as the
	// snippet bodies.
	UseSemanticCaptions bool
}

// Index is the search service contract: one lookup per request,
// normalized to a flat snippet list.
type Index interface {
	Search(ctx context.Context, q Query) ([]Snippet, error)
}

// collapseNewlines replaces embedded line breaks with spaces so a snippet
// occupies a single source line in the prompt.
func collapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// SourcesText renders snippets as prompt source lines, one "name: body"
// line per snippet, matching the citation format the answer prompts
// instruct the model to use.
func SourcesText(snippets []Snippet) string {
	lines := make([]string, len(snippets))
	for i, s := range snippets {
		lines[i] = s.SourceID + ": " + collapseNewlines(s.Content)
	}
	return strings.Join(lines, "\n")
}

// FormatSnippets renders snippets as human-readable text for CLI and MCP
// output.
func FormatSnippets(snippets []Snippet) string {
	if len(snippets) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(snippets))
	for i, s := range snippets {
		fmt.Fprintf(&sb, "\n--- Result %d ---\n", i+1)
		fmt.Fprintf(&sb, "Source: %s\n\n", s.SourceID)
		sb.WriteString(s.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
