package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Grounded question answering over your own documents",
	Long: `Docchat answers questions using only your knowledge base. It rewrites
each question into a search query, retrieves the matching document
snippets, and generates a cited answer constrained to them. It can run
against an Azure AI Search index or a local index filled from your own
files, serves an HTTP chat API, and integrates with AI agents via MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
