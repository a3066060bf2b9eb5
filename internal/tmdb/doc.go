// Package tmdb provides the minimal TMDB API client used to enrich diary
// entries.
//
// Client authenticates with an API key and exposes movie search (optionally
// narrowed by release year), movie detail lookups, and credits lookups, all
// returning typed responses and explicit errors. Provider wraps a Client for
// the enrichment engine: it never returns errors, reporting any transport,
// status, or decode failure as "not found" or "unavailable" so one bad lookup
// cannot abort a whole enrichment pass.
package tmdb
