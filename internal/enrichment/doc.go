// Package enrichment resolves diary films against TMDB and maintains the
// persistent metadata cache.
//
// An Engine run deduplicates diary keys, looks up only the keys the cache has
// never seen, paces every provider call, merges the new records into the
// cache, saves once, and joins the cache back onto the diary rows. Lookup
// failures degrade a single film to unknown fields; they never abort a run.
// A cancelled run returns the context error and leaves the stored cache as it
// was.
package enrichment
