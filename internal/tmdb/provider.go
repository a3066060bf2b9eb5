package tmdb

import (
	"context"
	"log/slog"
	"strings"

	"reelwrap/internal/logging"
)

// Provider adapts a Searcher into lookups that degrade instead of failing.
// Every failure is logged as an informational event and reported through the
// boolean result.
type Provider struct {
	client Searcher
	logger *slog.Logger
}

// NewProvider wraps client. A nil logger discards events.
func NewProvider(client Searcher, logger *slog.Logger) *Provider {
	return &Provider{
		client: client,
		logger: logging.NewComponentLogger(logger, "tmdb"),
	}
}

// Search returns the first match in TMDB's relevance order. A year, when
// known, narrows the search. An empty result set and a failed call both
// report false.
func (p *Provider) Search(ctx context.Context, title string, year *int) (Result, bool) {
	if strings.TrimSpace(title) == "" {
		logging.InfoEvent(logging.WithContext(ctx, p.logger), "skipping tmdb search for empty title", "tmdb_search_skipped")
		return Result{}, false
	}
	opts := SearchOptions{}
	if year != nil {
		opts.Year = *year
	}
	resp, err := p.client.SearchMovie(ctx, title, opts)
	if err != nil {
		p.degraded(ctx, "tmdb search failed; treating as not found", "tmdb_search_failed", err,
			logging.String("title", title))
		return Result{}, false
	}
	if resp == nil || len(resp.Results) == 0 {
		return Result{}, false
	}
	return resp.Results[0], true
}

// Details fetches genres, production countries, and runtime for id.
func (p *Provider) Details(ctx context.Context, id int64) (*MovieDetails, bool) {
	details, err := p.client.GetMovieDetails(ctx, id)
	if err != nil || details == nil {
		p.degraded(ctx, "tmdb details unavailable", "tmdb_details_failed", err,
			logging.Int64("tmdb_id", id))
		return nil, false
	}
	return details, true
}

// Credits fetches the crew list for id.
func (p *Provider) Credits(ctx context.Context, id int64) (*Credits, bool) {
	credits, err := p.client.GetMovieCredits(ctx, id)
	if err != nil || credits == nil {
		p.degraded(ctx, "tmdb credits unavailable; director unknown", "tmdb_credits_failed", err,
			logging.Int64("tmdb_id", id))
		return nil, false
	}
	return credits, true
}

func (p *Provider) degraded(ctx context.Context, msg, eventType string, err error, attrs ...logging.Attr) {
	if err != nil {
		attrs = append(attrs, logging.Error(err))
	}
	logging.InfoEvent(logging.WithContext(ctx, p.logger), msg, eventType, attrs...)
}
