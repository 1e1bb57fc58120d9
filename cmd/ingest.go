package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docchat/internal/config"
	"github.com/ziadkadry99/docchat/internal/ingest"
	"github.com/ziadkadry99/docchat/internal/search"
)

var (
	ingestInclude []string
	ingestExclude []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Fill the local index from a directory of documents",
	Long: `Walks the given directory, splits every text file into overlapping
sections, embeds them, and persists the resulting index for the local
backend.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Backend != config.BackendLocal {
			return fmt.Errorf("ingest requires the local backend, config has %q", cfg.Backend)
		}
		log := newLogger(cfg)
		defer log.Sync()

		embedder, err := createEmbedder(cfg)
		if err != nil {
			return err
		}
		index, err := search.NewLocalIndex(embedder)
		if err != nil {
			return err
		}

		exclude := append([]string{}, config.DefaultExcludes...)
		exclude = append(exclude, ingestExclude...)

		ing := ingest.New(index, ingest.NewReporter(), log)
		stats, err := ing.Run(cmd.Context(), ingest.Options{
			RootDir: args[0],
			Include: ingestInclude,
			Exclude: exclude,
			DataDir: cfg.Local.DataDir,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Ingested %d file(s) as %d section(s) into %s\n", stats.Files, stats.Sections, cfg.Local.DataDir)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestInclude, "include", nil, "glob patterns to include (default: all text files)")
	ingestCmd.Flags().StringSliceVar(&ingestExclude, "exclude", nil, "extra glob patterns to exclude")
	rootCmd.AddCommand(ingestCmd)
}
