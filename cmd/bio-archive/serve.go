// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bio-archive/internal/archive"
	"github.com/pdiddy/bio-archive/internal/observability"
	"github.com/pdiddy/bio-archive/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the archive over a local HTTP API",
	Long: `Serve syncs the archive, then exposes it over HTTP: the summary index,
dossier details with offline fallback, filtered search, typeahead, and
Prometheus metrics. A failed initial sync is logged but not fatal; the
server starts with whatever the record store holds and reports not-ready
until records are indexed.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	cfg := archiveConfig(cmd)
	if address, _ := cmd.Flags().GetString("address"); address != "" {
		cfg.Serve.Address = address
	}

	svc, err := archive.Open(cfg, logger, observability.NewMetrics())
	if err != nil {
		return err
	}
	defer svc.Close()

	if count, err := svc.Sync(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("initial sync failed, serving without records")
	} else {
		logger.Info().Int("records", count).Msg("archive synced")
	}

	srv := server.New(cfg.Serve, svc, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Serve.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func init() {
	serveCmd.Flags().String("address", "", "listen address (default :8571)")

	rootCmd.AddCommand(serveCmd)
}
