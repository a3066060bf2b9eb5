package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"reelwrap/internal/config"
	"reelwrap/internal/diary"
	"reelwrap/internal/enrichment"
	"reelwrap/internal/logging"
	"reelwrap/internal/metacache"
	"reelwrap/internal/preflight"
	"reelwrap/internal/services"
	"reelwrap/internal/stats"
	"reelwrap/internal/tmdb"
)

type wrapOptions struct {
	year      int
	diaryPath string
	cachePath string
	dryRun    bool
}

func newWrapCommand(ctx *commandContext) *cobra.Command {
	var opts wrapOptions

	cmd := &cobra.Command{
		Use:   "wrap",
		Short: "Enrich the diary with TMDB metadata and print the yearly report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.year == 0 {
				opts.year = time.Now().Year()
			}
			return runWrap(cmd, ctx, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.year, "year", "y", 0, "Watch year to report on (default: current year)")
	cmd.Flags().StringVar(&opts.diaryPath, "diary", "", "Diary CSV path (overrides paths.diary)")
	cmd.Flags().StringVar(&opts.cachePath, "cache", "", "Metadata cache path (overrides paths.cache_file)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Fetch missing metadata without writing the cache")
	return cmd
}

func runWrap(cmd *cobra.Command, ctx *commandContext, opts wrapOptions) error {
	base, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := applyWrapOverrides(*base, opts)
	if err != nil {
		return err
	}
	entries, err := diary.Load(cfg.Paths.Diary)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	if err := preflight.Err(preflight.RunAll(cfg)); err != nil {
		return err
	}

	lock, err := metacache.AcquireLock(cfg.LockPath())
	if err != nil {
		if errors.Is(err, metacache.ErrLocked) {
			return services.Wrap(services.ErrConfiguration, "wrap", "lock cache", "another reelwrap run is in progress", err)
		}
		return err
	}
	defer func() { _ = lock.Release() }()

	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	runCtx := services.WithRunID(cmd.Context(), uuid.NewString())
	logging.WithContext(runCtx, logger).Info("wrap started",
		logging.String("diary", cfg.Paths.Diary),
		logging.Int("entries", len(entries)),
		logging.Int("year", opts.year),
		logging.Bool("dry_run", opts.dryRun))

	store, err := metacache.OpenStore(cfg, logger)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "wrap", "open cache", "", err)
	}
	if opts.dryRun {
		cache, _, err := store.Load(runCtx)
		if err != nil {
			return err
		}
		store = metacache.NewMemoryStoreFrom(cache)
	}

	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithTimeout(cfg.RequestTimeout()))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "wrap", "tmdb client", "", err)
	}
	engine, err := enrichment.New(enrichment.Options{RequestDelay: cfg.RequestDelay()}, tmdb.NewProvider(client, logger), store, logger)
	if err != nil {
		return err
	}

	result, err := engine.Run(runCtx, entries)
	if err != nil {
		return err
	}

	report := stats.Compute(result.Enriched, opts.year)
	out := cmd.OutOrStdout()
	w := newReportWriter(out, shouldColorize(out))
	w.render(report, stats.Insights(report))
	w.renderRunSummary(result.Stats, result.Cache.Len(), result.Saved, opts.dryRun)
	return nil
}

func applyWrapOverrides(cfg config.Config, opts wrapOptions) (*config.Config, error) {
	if opts.year < 1 {
		return nil, services.Wrap(services.ErrConfiguration, "wrap", "flags", fmt.Sprintf("invalid --year %d", opts.year), nil)
	}
	if p := strings.TrimSpace(opts.diaryPath); p != "" {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("resolve diary path: %w", err)
		}
		cfg.Paths.Diary = expanded
	}
	if p := strings.TrimSpace(opts.cachePath); p != "" {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("resolve cache path: %w", err)
		}
		cfg.Paths.CacheFile = expanded
	}
	return &cfg, nil
}
