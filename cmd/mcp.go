package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docchat/internal/chat"
	mcpserver "github.com/ziadkadry99/docchat/internal/mcp"
	"github.com/ziadkadry99/docchat/internal/search"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the
knowledge base search and question answering tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		defer log.Sync()

		provider, err := createProvider(cfg)
		if err != nil {
			return err
		}
		embedder, err := createEmbedder(cfg)
		if err != nil {
			return err
		}
		index, err := createIndex(cfg, embedder, log)
		if err != nil {
			return err
		}
		retriever := search.NewRetriever(index, embedder, log)
		ask := chat.NewRetrieveThenRead(provider, retriever, cfg.OpenAI.ChatModel, log)

		mcpserver.Version = Version
		fmt.Fprintln(os.Stderr, "docchat MCP server started on stdio")

		srv := mcpserver.NewServer(retriever, ask)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
