package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/search"
)

// handleSearchSources performs one retrieval and formats the snippets.
func (s *Server) handleSearchSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	opts := search.Options{
		Mode:            search.Mode(request.GetString("retrieval_mode", "")),
		Top:             request.GetInt("top", 0),
		ExcludeCategory: request.GetString("exclude_category", ""),
	}
	if !opts.Mode.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid retrieval_mode %q", opts.Mode)), nil
	}

	snippets, err := s.retriever.Retrieve(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(snippets) == 0 {
		return mcp.NewToolResultText("No results found. The knowledge base may not be ingested yet. Run `docchat ingest` to fill it."), nil
	}

	return mcp.NewToolResultText(search.FormatSnippets(snippets)), nil
}

// handleAskQuestion runs the single-shot answer approach.
func (s *Server) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	answer, err := s.ask.Run(ctx, question, chat.Overrides{
		Top: request.GetInt("top", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %v", err)), nil
	}

	return mcp.NewToolResultText(answer.Answer), nil
}
