// Package mcp exposes the knowledge base to AI agents over the Model
// Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes knowledge base tools.
type Server struct {
	retriever *search.Retriever
	ask       chat.AskApproach
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server over the given retriever and ask
// approach.
func NewServer(retriever *search.Retriever, ask chat.AskApproach) *Server {
	s := &Server{
		retriever: retriever,
		ask:       ask,
	}

	s.mcp = server.NewMCPServer(
		"docchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchSourcesTool, s.handleSearchSources)
	s.mcp.AddTool(askQuestionTool, s.handleAskQuestion)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
