package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/scraper"
	"github.com/omrzgit/medium-scraper-search/internal/snapshot"
)

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the configured URL list into a CSV snapshot",
		Long: `Fetches every URL in the configured list sequentially, with a
politeness delay between requests, extracts an article record from each
page and writes the full result set to the CSV snapshot in one batch.`,

		RunE: runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	urls, err := scraper.ReadURLList(a.cfg.Scraper.URLsFile)
	if err != nil {
		return err
	}

	fetcher := scraper.NewCollyFetcher(a.cfg.Scraper, a.logger)
	client := scraper.NewClient(fetcher, scraper.TimerSleeper{}, a.cfg.Scraper, a.logger)
	driver := scraper.NewDriver(
		client,
		scraper.NewExtractor(a.logger),
		scraper.TimerSleeper{},
		a.cfg.Scraper.Politeness(),
		a.logger,
	)

	articles, err := driver.Run(cmd.Context(), urls)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	store := snapshot.NewStore(a.cfg.Scraper.OutputFile, a.logger)
	if err := store.Write(articles); err != nil {
		return err
	}

	a.logger.Info("scrape finished",
		zap.Int("scraped", len(articles)),
		zap.Int("requested", len(urls)),
		zap.String("snapshot", store.Path()),
	)
	return nil
}
