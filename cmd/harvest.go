package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docharvester/internal/config"
	"docharvester/internal/dates"
	"docharvester/internal/decision"
	"docharvester/internal/fetcher"
	"docharvester/internal/logging"
	"docharvester/internal/metrics"
	"docharvester/internal/runner"
	"docharvester/internal/scraper"
	"docharvester/internal/stats"
	"docharvester/internal/storage/local"
	"docharvester/internal/storage/postgres"
)

func newHarvestCmd() *cobra.Command {
	var fromFlag, toFlag string

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Runs one harvest pass over the configured archive",
		Long: `Scrapes the configured index pages, classifies each discovered
document (download, already present, outside the date range, or failed)
and prints the run summary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHarvest(cmd, fromFlag, toFlag)
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "only documents published on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "only documents published on or before this date (YYYY-MM-DD)")

	return cmd
}

func runHarvest(cmd *cobra.Command, fromFlag, toFlag string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if fromFlag != "" {
		cfg.Filter.From = fromFlag
	}
	if toFlag != "" {
		cfg.Filter.To = toFlag
	}

	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, logger); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	summary, runErr := harvest(ctx, cfg, logger)

	// The summary prints even when the run was cut short.
	fmt.Fprintln(cmd.OutOrStdout(), summary.Render())
	return runErr
}

func harvest(ctx context.Context, cfg config.Config, logger *zap.Logger) (stats.Summary, error) {
	fileStore, err := local.New(local.Config{BaseDir: cfg.Storage.Dir})
	if err != nil {
		return stats.Summary{}, fmt.Errorf("init document store: %w", err)
	}

	recordStore, err := postgres.New(ctx, postgres.Config{
		DSN:      cfg.DB.DSN,
		Table:    cfg.DB.Table,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		return stats.Summary{}, fmt.Errorf("init record store: %w", err)
	}
	defer recordStore.Close()

	filter, err := cfg.Filter.Range()
	if err != nil {
		return stats.Summary{}, err
	}

	fetch := fetcher.New(fetcher.Config{
		UserAgent:   cfg.Archive.UserAgent,
		Timeout:     cfg.HTTP.Timeout(),
		MaxAttempts: cfg.HTTP.MaxRetries,
		BackoffBase: cfg.HTTP.BackoffInitial(),
		BackoffMax:  cfg.HTTP.BackoffMax(),
	}, fileStore, recordStore, logger)

	engine := decision.New(
		fileStore,
		recordStore,
		fetch,
		filter,
		decision.Config{IncludeUndated: cfg.Filter.IncludeUndated},
		logger,
	)

	source := scraper.New(scraper.Config{
		IndexURLs:     cfg.Archive.IndexURLs,
		LinkSelector:  cfg.Archive.LinkSelector,
		UserAgent:     cfg.Archive.UserAgent,
		RespectRobots: cfg.Archive.RespectRobots,
		Timeout:       cfg.HTTP.Timeout(),
	}, logger)

	extractor := dates.NewExtractor(dates.Config{DayFirst: cfg.Dates.DayFirst})

	summary, err := runner.New(source, extractor, engine, logger).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return summary, fmt.Errorf("harvest run: %w", err)
	}
	return summary, nil
}
