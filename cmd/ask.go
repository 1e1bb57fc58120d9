package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docchat/internal/server"
)

var askApproach string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		defer log.Sync()

		registry, err := buildRegistry(cfg, log)
		if err != nil {
			return err
		}
		approach, err := registry.Ask(askApproach)
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")
		answer, err := approach.Run(cmd.Context(), question, defaultOverrides(cfg))
		if err != nil {
			return err
		}

		fmt.Println(answer.Answer)
		if len(answer.DataPoints) > 0 {
			fmt.Println("\nSources:")
			for _, dp := range answer.DataPoints {
				fmt.Printf("  %s\n", dp.SourceID)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askApproach, "approach", server.DefaultAskApproach, "answer approach to use")
	rootCmd.AddCommand(askCmd)
}
