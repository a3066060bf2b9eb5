package enrichment

import (
	"reelwrap/internal/diary"
	"reelwrap/internal/metacache"
)

// EnrichedEntry is a diary row with the cached metadata for its film.
// Metadata fields stay nil when the film is unknown to TMDB or a lookup
// degraded.
type EnrichedEntry struct {
	diary.Entry
	TMDBID   *int64
	Genre    *string
	Director *string
	Country  *string
	Runtime  *int
}

// KeyOf returns the cache key for a diary entry.
func KeyOf(entry diary.Entry) metacache.Key {
	return metacache.NewKey(entry.Title, entry.Year)
}

// DistinctKeys returns the entries' cache keys without repeats, in order of
// first appearance.
func DistinctKeys(entries []diary.Entry) []metacache.Key {
	seen := make(map[metacache.Key]struct{}, len(entries))
	keys := make([]metacache.Key, 0, len(entries))
	for _, entry := range entries {
		key := KeyOf(entry)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// Join attaches cache metadata to every entry. Row count and order are those
// of entries; a key missing from the cache leaves the metadata nil.
func Join(entries []diary.Entry, cache *metacache.Cache) []EnrichedEntry {
	out := make([]EnrichedEntry, len(entries))
	for i, entry := range entries {
		out[i] = EnrichedEntry{Entry: entry}
		if cache == nil {
			continue
		}
		rec, ok := cache.Lookup(KeyOf(entry))
		if !ok {
			continue
		}
		rec = rec.Clone()
		out[i].TMDBID = rec.TMDBID
		out[i].Genre = rec.Genre
		out[i].Director = rec.Director
		out[i].Country = rec.Country
		out[i].Runtime = rec.Runtime
	}
	return out
}
