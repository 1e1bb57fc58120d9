package chat

import (
	"encoding/json"
	"strings"

	"github.com/ziadkadry99/docchat/internal/llm"
)

// noQuerySentinel is what the reformulation prompt instructs the model
// to return when no useful search query can be derived.
const noQuerySentinel = "0"

// searchSourcesTool is offered on the reformulation call so models that
// prefer function calling can return the query as a structured argument.
var searchSourcesTool = llm.Tool{
	Name:        "search_sources",
	Description: "Retrieve sources from the knowledge base search index",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"search_query": map[string]any{
				"type":        "string",
				"description": "Query string to retrieve documents from the search index",
			},
		},
		"required": []string{"search_query"},
	},
}

type searchSourcesArgs struct {
	SearchQuery string `json:"search_query"`
}

// searchQueryFromResponse extracts the reformulated search query from a
// completion. A search_sources tool call wins over plain content; the
// sentinel, malformed tool arguments, or an empty response all fall back
// to the given text, which is the user's question verbatim.
func searchQueryFromResponse(resp *llm.ChatResponse, fallback string) string {
	for _, call := range resp.ToolCalls {
		if call.Name != "search_sources" {
			continue
		}
		var args searchSourcesArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return fallback
		}
		query := strings.TrimSpace(args.SearchQuery)
		if query == "" || query == noQuerySentinel {
			return fallback
		}
		return query
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" || content == noQuerySentinel {
		return fallback
	}
	return content
}
