package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reelwrap/internal/diary"
	"reelwrap/internal/logging"
	"reelwrap/internal/metacache"
	"reelwrap/internal/services"
	"reelwrap/internal/tmdb"
)

// DefaultRequestDelay is the minimum gap between two TMDB calls.
const DefaultRequestDelay = 250 * time.Millisecond

// listSeparator joins genre and country names in cache cells.
const listSeparator = ", "

const stageName = "enrichment"

// Provider performs the three metadata lookups. Each reports false when the
// film or the data is unavailable, whatever the cause.
type Provider interface {
	Search(ctx context.Context, title string, year *int) (tmdb.Result, bool)
	Details(ctx context.Context, id int64) (*tmdb.MovieDetails, bool)
	Credits(ctx context.Context, id int64) (*tmdb.Credits, bool)
}

// Options configures an Engine.
type Options struct {
	// RequestDelay is the minimum gap between provider calls.
	RequestDelay time.Duration
	// Sleep replaces the pacing wait; tests use it to avoid real delays.
	Sleep SleepFunc
}

// RunStats summarizes one run.
type RunStats struct {
	Entries      int
	DistinctKeys int
	CachedKeys   int
	Fetched      int
	NotFound     int
	Partial      int
	Calls        int
}

// Result is the outcome of a successful run.
type Result struct {
	Cache    *metacache.Cache
	Enriched []EnrichedEntry
	Stats    RunStats
	Load     metacache.LoadInfo
	Saved    bool
}

// Engine enriches diary entries through a Provider and a metadata Store.
type Engine struct {
	provider Provider
	store    metacache.Store
	logger   *slog.Logger
	pacer    *Pacer
}

// New validates its collaborators and returns an Engine.
func New(opts Options, provider Provider, store metacache.Store, logger *slog.Logger) (*Engine, error) {
	if provider == nil {
		return nil, errors.New("enrichment: provider required")
	}
	if store == nil {
		return nil, errors.New("enrichment: store required")
	}
	if opts.RequestDelay < 0 {
		return nil, fmt.Errorf("enrichment: negative request delay %s", opts.RequestDelay)
	}
	return &Engine{
		provider: provider,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "enrichment"),
		pacer:    NewPacer(opts.RequestDelay, opts.Sleep),
	}, nil
}

// Run loads the cache, fetches metadata for keys it lacks, persists the
// grown cache, and returns the enriched rows.
func (e *Engine) Run(ctx context.Context, entries []diary.Entry) (*Result, error) {
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, e.logger)

	cache, info, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metadata cache: %w", err)
	}

	keys := DistinctKeys(entries)
	stats := RunStats{Entries: len(entries), DistinctKeys: len(keys)}
	missing := make([]metacache.Key, 0, len(keys))
	for _, key := range keys {
		if cache.Contains(key) {
			stats.CachedKeys++
			continue
		}
		missing = append(missing, key)
	}
	logger.Info("enrichment started",
		logging.String("store", e.store.Describe()),
		logging.Int("entries", stats.Entries),
		logging.Int("distinct_films", stats.DistinctKeys),
		logging.Int("cached", stats.CachedKeys),
		logging.Int("to_fetch", len(missing)))

	batch := make([]metacache.Record, 0, len(missing))
	for i, key := range missing {
		rec, partial, err := e.resolve(ctx, key, &stats)
		if err != nil {
			logger.Info("enrichment cancelled; cache left unchanged",
				logging.Int("resolved", i),
				logging.Int("remaining", len(missing)-i),
				logging.Error(err))
			return nil, err
		}
		batch = append(batch, rec)
		stats.Fetched++
		switch {
		case rec.NotFound():
			stats.NotFound++
		case partial:
			stats.Partial++
		}
		logger.Debug("film resolved",
			logging.String("film", key.String()),
			logging.Bool("found", !rec.NotFound()),
			logging.Bool("partial", partial),
			logging.Int("progress", i+1),
			logging.Int("total", len(missing)))
	}

	merged := cache.Merge(batch)
	saved := false
	if merged.Added > 0 || info.Rebuilt {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.store.Save(ctx, cache); err != nil {
			return nil, fmt.Errorf("save metadata cache: %w", err)
		}
		saved = true
	}

	logger.Info("enrichment completed",
		logging.Int("fetched", stats.Fetched),
		logging.Int("not_found", stats.NotFound),
		logging.Int("partial", stats.Partial),
		logging.Int("calls", stats.Calls),
		logging.Int("cache_size", cache.Len()),
		logging.Bool("saved", saved))

	return &Result{
		Cache:    cache,
		Enriched: Join(entries, cache),
		Stats:    stats,
		Load:     info,
		Saved:    saved,
	}, nil
}

// resolve looks up one key. Only context cancellation is returned as an
// error; every other failure is folded into the record.
func (e *Engine) resolve(ctx context.Context, key metacache.Key, stats *RunStats) (metacache.Record, bool, error) {
	if err := e.pace(ctx, stats); err != nil {
		return metacache.Record{}, false, err
	}
	match, found := e.provider.Search(ctx, key.Title, key.YearPtr())
	if err := ctx.Err(); err != nil {
		return metacache.Record{}, false, err
	}
	if !found {
		return metacache.NegativeRecord(key), false, nil
	}

	id := match.ID
	rec := metacache.Record{Key: key, TMDBID: &id}

	if err := e.pace(ctx, stats); err != nil {
		return metacache.Record{}, false, err
	}
	details, detailsOK := e.provider.Details(ctx, id)
	if err := ctx.Err(); err != nil {
		return metacache.Record{}, false, err
	}
	if detailsOK {
		rec.Genre = joinNames(details.Genres, func(g tmdb.Genre) string { return g.Name })
		rec.Country = joinNames(details.ProductionCountries, func(c tmdb.Country) string { return c.Name })
		if details.Runtime != nil {
			runtime := *details.Runtime
			rec.Runtime = &runtime
		}
	}

	if err := e.pace(ctx, stats); err != nil {
		return metacache.Record{}, false, err
	}
	credits, creditsOK := e.provider.Credits(ctx, id)
	if err := ctx.Err(); err != nil {
		return metacache.Record{}, false, err
	}
	if name, ok := credits.Director(); creditsOK && ok {
		rec.Director = &name
	}

	return rec, !detailsOK || !creditsOK, nil
}

func (e *Engine) pace(ctx context.Context, stats *RunStats) error {
	if err := e.pacer.Wait(ctx); err != nil {
		return err
	}
	stats.Calls++
	return nil
}

func joinNames[T any](items []T, name func(T) string) *string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if n := strings.TrimSpace(name(item)); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil
	}
	joined := strings.Join(names, listSeparator)
	return &joined
}
