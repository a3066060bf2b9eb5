package metacache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reelwrap/internal/config"
)

// Column names of the persisted cache table.
const (
	ColumnTitle    = "title"
	ColumnYear     = "year"
	ColumnTMDBID   = "tmdb_id"
	ColumnGenre    = "genre"
	ColumnDirector = "director"
	ColumnCountry  = "country"
	ColumnRuntime  = "runtime"
)

// RequiredColumns lists every column a cache file must carry. A file missing
// any of them is treated as an older schema and rebuilt.
var RequiredColumns = []string{
	ColumnTitle,
	ColumnYear,
	ColumnTMDBID,
	ColumnGenre,
	ColumnDirector,
	ColumnCountry,
	ColumnRuntime,
}

// LoadInfo describes what a Load found on disk.
type LoadInfo struct {
	// Existed is true when backing storage was present.
	Existed bool
	// Rebuilt is true when existing storage was discarded because its schema
	// or content could not be used.
	Rebuilt bool
	// Reason explains a rebuild.
	Reason string
}

// Store persists a Cache. Load never fails because of an incompatible or
// malformed cache; those cases yield an empty cache with LoadInfo.Rebuilt set.
// Save replaces the stored cache entirely.
type Store interface {
	Load(ctx context.Context) (*Cache, LoadInfo, error)
	Save(ctx context.Context, cache *Cache) error
	Describe() string
}

// OpenStore returns the store selected by the configuration.
func OpenStore(cfg *config.Config, logger *slog.Logger) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("open cache store: config required")
	}
	switch cfg.Cache.Backend {
	case config.BackendCSV, "":
		return NewCSVStore(cfg.Paths.CacheFile, logger), nil
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.Paths.CacheFile, logger), nil
	default:
		return nil, fmt.Errorf("open cache store: unsupported backend %q", cfg.Cache.Backend)
	}
}

func missingColumns(present map[string]struct{}) []string {
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func rebuildInfo(missing []string) LoadInfo {
	return LoadInfo{
		Existed: true,
		Rebuilt: true,
		Reason:  "missing columns: " + strings.Join(missing, ", "),
	}
}
