// Package chat orchestrates grounded question answering: it rewrites the
// user's question into a search query, retrieves grounding snippets, and
// generates an answer constrained to those snippets, optionally streamed.
package chat

import (
	"github.com/ziadkadry99/docchat/internal/search"
)

// Turn is one exchange in the conversation history. The final turn in a
// request carries the unanswered current question, so its Bot field is
// empty and ignored.
type Turn struct {
	User string `json:"user"`
	Bot  string `json:"bot,omitempty"`
}

// Overrides is the per-request configuration record. Unknown JSON keys
// are ignored on decode, never dispatched on.
type Overrides struct {
	RetrievalMode            search.Mode `json:"retrieval_mode,omitempty"`
	UseSemanticRanker        bool        `json:"semantic_ranker,omitempty"`
	UseSemanticCaptions      bool        `json:"semantic_captions,omitempty"`
	Top                      int         `json:"top,omitempty"`
	ExcludeCategory          string      `json:"exclude_category,omitempty"`
	PromptTemplate           string      `json:"prompt_template,omitempty"`
	Temperature              *float32    `json:"temperature,omitempty"`
	SuggestFollowupQuestions bool        `json:"suggest_followup_questions,omitempty"`
}

// temperature returns the override temperature or the given default.
func (o Overrides) temperature(fallback float32) float32 {
	if o.Temperature != nil {
		return *o.Temperature
	}
	return fallback
}

// retrievalOptions translates the request overrides into retriever options.
func (o Overrides) retrievalOptions() search.Options {
	return search.Options{
		Mode:                o.RetrievalMode,
		Top:                 o.Top,
		ExcludeCategory:     o.ExcludeCategory,
		UseSemanticRanker:   o.UseSemanticRanker,
		UseSemanticCaptions: o.UseSemanticCaptions,
	}
}

// ThoughtStep is one diagnostic trace entry. It is append-only and used
// for observability, never for control flow.
type ThoughtStep struct {
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Props   map[string]any `json:"props,omitempty"`
}

// Answer is the shaped result of a non-streaming run.
type Answer struct {
	Answer            string           `json:"answer"`
	DataPoints        []search.Snippet `json:"data_points"`
	Thoughts          []ThoughtStep    `json:"thoughts"`
	FollowupQuestions []string         `json:"followup_questions,omitempty"`
}

// StreamEvent is one shaped event of a streaming run. The first event
// announces the assistant role and carries the retrieval context, content
// events follow, and a final event carries the follow-up questions.
type StreamEvent struct {
	Role              string           `json:"role,omitempty"`
	Content           string           `json:"content,omitempty"`
	DataPoints        []search.Snippet `json:"data_points,omitempty"`
	Thoughts          []ThoughtStep    `json:"thoughts,omitempty"`
	FollowupQuestions []string         `json:"followup_questions,omitempty"`
	Error             string           `json:"error,omitempty"`
}
