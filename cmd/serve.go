package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Manju4599/data-cleaner-app/internal/storage"
	"github.com/Manju4599/data-cleaner-app/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP cleaning service",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		if cmd.Flags().Changed("addr") {
			c.ListenAddr = serveAddr
		}

		store, err := storage.NewStore(c.UploadDir)
		if err != nil {
			return err
		}
		srv := web.NewServer(c, store, logger)

		// Expire stored files in the background.
		lifetime := time.Duration(c.FileLifetimeSec) * time.Second
		stopCleanup := make(chan struct{})
		if lifetime > 0 {
			go func() {
				ticker := time.NewTicker(lifetime / 4)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						n, err := store.CleanupOlder(lifetime)
						if err != nil {
							logger.Warn("cleanup failed", zap.Error(err))
						} else if n > 0 {
							logger.Info("expired stored files", zap.Int("removed", n))
						}
					case <-stopCleanup:
						return
					}
				}
			}()
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			close(stopCleanup)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sig:
			close(stopCleanup)
			logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
