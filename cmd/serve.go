package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/api"
	"github.com/omrzgit/medium-scraper-search/internal/index"
	"github.com/omrzgit/medium-scraper-search/internal/search"
	"github.com/omrzgit/medium-scraper-search/internal/snapshot"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the article search API",
		Long: `Loads the CSV snapshot, fits the TF-IDF index once, and serves the
search API. When the snapshot is missing the server still starts and
reports the not-ready condition on every query.`,

		RunE: runServeCommand,
	}
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	engine := loadEngine(a)
	server := api.NewServer(engine, a.logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()
	a.logger.Info("search API listening", zap.Int("port", a.cfg.Server.Port))

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}

// loadEngine performs the one-time fit at startup. A missing or broken
// snapshot leaves the service in not-ready mode instead of failing.
func loadEngine(a *app) *search.Engine {
	store := snapshot.NewStore(a.cfg.Scraper.OutputFile, a.logger)
	articles, err := store.Read()
	if err != nil {
		a.logger.Warn("snapshot unavailable, serving in not-ready mode",
			zap.String("path", store.Path()), zap.Error(err))
		return nil
	}
	return search.NewEngine(index.BuildCorpus(articles), a.logger)
}
