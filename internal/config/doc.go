// Package config loads, normalizes, and validates reelwrap configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TMDB_API_KEY environment
// fallback. The Config type centralizes every knob the CLI and the enrichment
// engine need so the engine itself never reads ambient process state.
package config
