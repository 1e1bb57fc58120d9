package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchSourcesTool defines the search_sources MCP tool.
var searchSourcesTool = mcp.NewTool("search_sources",
	mcp.WithDescription("Search the knowledge base and return the matching source snippets with their citation ids."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("top",
		mcp.Description("Maximum number of snippets to return (default 3)"),
	),
	mcp.WithString("retrieval_mode",
		mcp.Description("How to query the index"),
		mcp.Enum("text", "vectors", "hybrid"),
	),
	mcp.WithString("exclude_category",
		mcp.Description("Category of documents to exclude from the results"),
	),
)

// askQuestionTool defines the ask_question MCP tool.
var askQuestionTool = mcp.NewTool("ask_question",
	mcp.WithDescription("Answer a question using only the knowledge base, with source citations."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer"),
	),
	mcp.WithNumber("top",
		mcp.Description("Number of snippets to ground the answer on (default 3)"),
	),
)
