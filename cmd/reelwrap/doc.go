// Package main hosts the reelwrap CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, runs preflight checks,
// and hands off to the internal packages: diary parsing, TMDB enrichment
// through the metadata cache, and the yearly report. Keep this package lean:
// new behavior belongs in internal/ first and is surfaced here through
// commands or flags.
package main
