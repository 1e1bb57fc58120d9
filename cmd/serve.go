package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/history"
	"github.com/ziadkadry99/docchat/internal/server"
)

var serveAllowAll bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat API",
	Long: `Starts the HTTP server exposing /ask, /chat and /chat_stream over the
configured knowledge base.`,
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

		var store *history.Store
		if cfg.Server.HistoryPath != "" {
			store, err = history.Open(cfg.Server.HistoryPath)
			if err != nil {
				return fmt.Errorf("opening history store: %w", err)
			}
			defer store.Close()
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: serveAllowAll,
		}, registry, store, log)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			log.Info("shutting down", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
