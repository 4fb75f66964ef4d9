// Package cmd defines the CLI commands for the mediumsearch executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/config"
	"github.com/omrzgit/medium-scraper-search/internal/logging"
	"github.com/omrzgit/medium-scraper-search/internal/metrics"
)

var cfgFile string

// app bundles the shared services built once before any subcommand runs.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

type appKeyType struct{}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mediumsearch",
		Short: "Scrape Medium articles and serve ranked search over them",
		Long: `mediumsearch collects article content from a list of Medium URLs into
a CSV snapshot, then serves ranked search results over the collected
corpus using a TF-IDF index fused with article popularity.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			metrics.Init()
			ctx := context.WithValue(cmd.Context(), appKeyType{}, &app{cfg: cfg, logger: logger})
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKeyType{}).(*app); ok && a != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func resolveApp(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKeyType{}).(*app)
	if !ok || a == nil {
		return nil, errors.New("application services not initialized")
	}
	return a, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
