// Package services defines small shared utilities consumed by the enrichment
// pipeline, the CLI, and the logging layer.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names so log lines
//     from one enrichment pass can be correlated.
//   - Error markers plus the Wrap helper that classify failures into
//     configuration errors (fatal, reported once) and everything else.
package services
