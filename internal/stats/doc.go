// Package stats turns enriched diary rows into a yearly viewing report and a
// handful of narrative insights.
package stats
