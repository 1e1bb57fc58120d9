package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/search"
)

// fixedIndex serves canned snippets.
type fixedIndex struct {
	snippets []search.Snippet
}

func (f *fixedIndex) Search(_ context.Context, q search.Query) ([]search.Snippet, error) {
	return f.snippets, nil
}

// fixedAsk returns a canned answer.
type fixedAsk struct {
	answer string
}

func (f *fixedAsk) Run(_ context.Context, question string, _ chat.Overrides) (*chat.Answer, error) {
	return &chat.Answer{Answer: f.answer}, nil
}

func callToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, not text", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name string
		tool mcp.Tool
	}{
		{"search_sources", searchSourcesTool},
		{"ask_question", askQuestionTool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.name {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.name)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestHandleSearchSources(t *testing.T) {
	index := &fixedIndex{snippets: []search.Snippet{
		{SourceID: "plan.pdf#1", Content: "the plan covers dental"},
	}}
	s := NewServer(search.NewRetriever(index, nil, nil), &fixedAsk{})

	result, err := s.handleSearchSources(context.Background(), callToolRequest("search_sources", map[string]any{
		"query":          "dental",
		"retrieval_mode": "text",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "plan.pdf#1") {
		t.Errorf("result missing citation id: %q", text)
	}
}

func TestHandleSearchSourcesMissingQuery(t *testing.T) {
	s := NewServer(search.NewRetriever(&fixedIndex{}, nil, nil), &fixedAsk{})

	result, err := s.handleSearchSources(context.Background(), callToolRequest("search_sources", map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Error("expected a tool error for missing query")
	}
}

func TestHandleSearchSourcesEmptyIndex(t *testing.T) {
	s := NewServer(search.NewRetriever(&fixedIndex{}, nil, nil), &fixedAsk{})

	result, err := s.handleSearchSources(context.Background(), callToolRequest("search_sources", map[string]any{
		"query":          "anything",
		"retrieval_mode": "text",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(resultText(t, result), "docchat ingest") {
		t.Errorf("empty result should point at ingestion: %q", resultText(t, result))
	}
}

func TestHandleAskQuestion(t *testing.T) {
	s := NewServer(search.NewRetriever(&fixedIndex{}, nil, nil), &fixedAsk{answer: "It is covered [plan.pdf]."})

	result, err := s.handleAskQuestion(context.Background(), callToolRequest("ask_question", map[string]any{
		"question": "Is dental covered?",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := resultText(t, result); got != "It is covered [plan.pdf]." {
		t.Errorf("answer = %q", got)
	}
}
