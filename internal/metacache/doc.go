// Package metacache owns the persistent film metadata cache.
//
// A Cache holds at most one Record per Key, where a Key is the exact
// (title, release year) pair taken from the viewing diary. Records are only
// ever appended: a Record without a TMDB id is a permanent negative entry and
// is never looked up again. Stores persist the whole cache in one step and
// validate the on-disk schema on load; a cache file that lacks any required
// column is discarded and rebuilt from scratch rather than patched.
//
// Three Store backends exist: a flat CSV file (the default), a SQLite
// database, and an in-memory store for tests and dry runs. A Lock guards the
// cache file against a second reelwrap run touching it at the same time.
package metacache
