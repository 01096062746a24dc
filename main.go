package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dealscout/config"
	"dealscout/internal/pipeline"
	"dealscout/internal/publish"
	"dealscout/internal/scrape"
	"dealscout/logger"
	"dealscout/services/cache"
	"dealscout/services/notify"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		outputDir   string
		minDiscount int
		maxItems    int
		sourcesFile string
	)

	cmd := &cobra.Command{
		Use:          "dealscout",
		Short:        "Scrape deal listings and publish an affiliate-tagged artifact set",
		Long:         "dealscout runs one scrape-and-publish cycle: it fetches the configured listing pages, extracts discounted products, rewrites their links with the affiliate tag and atomically publishes CSV, JSON and HTML artifacts to the output directory.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load environment variables
			godotenv.Load()

			// Initialize logger first
			logger.Init()
			log := logger.Default

			cfg := config.LoadConfig()

			// Flags override environment configuration
			if cmd.Flags().Changed("output-dir") {
				cfg.OutputDir = outputDir
				cfg.SeenFile = ""
			}
			if cmd.Flags().Changed("min-discount") {
				cfg.MinDiscountPercent = minDiscount
			}
			if cmd.Flags().Changed("max-items") {
				cfg.MaxItems = maxItems
			}
			if cmd.Flags().Changed("sources") {
				cfg.SourcesFile = sourcesFile
			}

			publisher := publish.NewPublisher(cfg.OutputDir)
			if cfg.SeenFile == "" {
				cfg.SeenFile = publisher.SeenPath()
			}

			if err := cfg.Validate(); err != nil {
				log.Error().Err(err).Msg("Invalid configuration")
				return err
			}

			sources, err := config.LoadSources(cfg.SourcesFile)
			if err != nil {
				log.Error().Err(err).Msg("Invalid source list")
				return err
			}

			log.Info().
				Str("environment", cfg.Environment).
				Str("output_dir", cfg.OutputDir).
				Int("min_discount", cfg.MinDiscountPercent).
				Int("sources", len(sources)).
				Msg("Starting run")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Memcache keeps rate-limit blocks across scheduled runs;
			// without it blocks only last for this process.
			var cacheSvc cache.CacheService
			if cfg.MemcacheAddr != "" {
				cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
				log.Info().Str("addr", cfg.MemcacheAddr).Msg("Using memcache for block state")
			} else {
				cacheSvc = cache.NewMemoryService()
			}

			fetcher := scrape.NewFetcher(cfg.RequestTimeout, cacheSvc, cfg.MaxRetries, cfg.RetryDelay, cfg.HostDelay)

			var notifier notify.Notifier
			if cfg.RedisAddr != "" {
				redisNotifier := notify.NewRedisNotifier(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLen)
				defer redisNotifier.Close()
				notifier = redisNotifier
				log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("Announcing new deals to Redis")
			}

			p := pipeline.New(cfg, sources, fetcher, publisher, notifier)
			report := p.Run(ctx)

			if report.Outcome == pipeline.Failed {
				return fmt.Errorf("run failed: %d/%d pages fetched, %d warnings",
					report.PagesSucceeded, report.PagesAttempted, len(report.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "docs", "directory the artifact set is published to")
	cmd.Flags().IntVar(&minDiscount, "min-discount", 50, "minimum discount percent a deal must reach")
	cmd.Flags().IntVar(&maxItems, "max-items", 100, "maximum number of deals to publish")
	cmd.Flags().StringVar(&sourcesFile, "sources", "", "YAML file listing the pages to scrape")

	return cmd
}
