package metacache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"reelwrap/internal/logging"
)

const sqliteTable = "metadata"

const sqliteSchema = `CREATE TABLE metadata (
    position INTEGER PRIMARY KEY,
    title    TEXT NOT NULL,
    year     INTEGER,
    tmdb_id  INTEGER,
    genre    TEXT,
    director TEXT,
    country  TEXT,
    runtime  INTEGER
)`

// SQLiteStore keeps the cache in a single SQLite table. Row order is preserved
// through the position column.
type SQLiteStore struct {
	path   string
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a store backed by the database file at path.
func NewSQLiteStore(path string, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{
		path:   path,
		logger: logging.NewComponentLogger(logger, "metacache"),
	}
}

// Describe names the backend for operator output.
func (s *SQLiteStore) Describe() string { return "sqlite:" + s.path }

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}
	return db, nil
}

// Load reads every row of the metadata table. A missing database or table
// yields an empty cache; a table that lacks a required column is rebuilt on
// the next Save.
func (s *SQLiteStore) Load(ctx context.Context) (*Cache, LoadInfo, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), LoadInfo{}, nil
		}
		return nil, LoadInfo{}, fmt.Errorf("stat cache db: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return nil, LoadInfo{}, err
	}
	defer db.Close()

	present, err := tableColumns(ctx, db)
	if err != nil {
		return s.rebuildUnreadable(ctx, err)
	}
	if len(present) == 0 {
		return New(), LoadInfo{Existed: true}, nil
	}
	if missing := missingColumns(present); len(missing) > 0 {
		info := rebuildInfo(missing)
		logging.InfoEvent(s.logger, "cache table incompatible; rebuilding from scratch", "cache_rebuild",
			logging.String("path", s.path),
			logging.String("reason", info.Reason))
		return New(), info, nil
	}

	orderBy := "rowid"
	if _, ok := present["position"]; ok {
		orderBy = "position"
	}
	rows, err := db.QueryContext(ctx,
		`SELECT title, year, tmdb_id, genre, director, country, runtime FROM metadata ORDER BY `+orderBy)
	if err != nil {
		return nil, LoadInfo{}, fmt.Errorf("query cache rows: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			title                    string
			year, tmdbID, runtime    sql.NullInt64
			genre, director, country sql.NullString
		)
		if err := rows.Scan(&title, &year, &tmdbID, &genre, &director, &country, &runtime); err != nil {
			return s.rebuildUnreadable(ctx, fmt.Errorf("scan cache row: %w", err))
		}
		rec := Record{
			Key:      NewKey(title, nullInt(year)),
			Genre:    nullString(genre),
			Director: nullString(director),
			Country:  nullString(country),
			Runtime:  nullInt(runtime),
		}
		if tmdbID.Valid {
			v := tmdbID.Int64
			rec.TMDBID = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return s.rebuildUnreadable(ctx, fmt.Errorf("iterate cache rows: %w", err))
	}

	cache := FromRecords(records)
	s.logger.Debug("loaded metadata cache",
		logging.String("path", s.path),
		logging.Int("entry_count", cache.Len()))
	return cache, LoadInfo{Existed: true}, nil
}

// rebuildUnreadable treats a table that cannot be read as malformed. A
// canceled context is reported as such.
func (s *SQLiteStore) rebuildUnreadable(ctx context.Context, err error) (*Cache, LoadInfo, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, LoadInfo{}, ctxErr
	}
	info := malformed(err)
	logging.InfoEvent(s.logger, "cache database unreadable; rebuilding from scratch", "cache_rebuild",
		logging.String("path", s.path),
		logging.String("reason", info.Reason))
	return New(), info, nil
}

// Save recreates the metadata table and inserts every record inside a single
// transaction, so readers see either the old cache or the new one.
func (s *SQLiteStore) Save(ctx context.Context, cache *Cache) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+sqliteTable); err != nil {
		return fmt.Errorf("drop cache table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO metadata (position, title, year, tmdb_id, genre, director, country, runtime)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cache insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range cache.Records() {
		var year any
		if rec.Key.HasYear {
			year = rec.Key.Year
		}
		if _, err := stmt.ExecContext(ctx,
			i,
			rec.Key.Title,
			year,
			nullableInt64(rec.TMDBID),
			nullableString(rec.Genre),
			nullableString(rec.Director),
			nullableString(rec.Country),
			nullableInt(rec.Runtime),
		); err != nil {
			return fmt.Errorf("insert cache row %q: %w", rec.Key.String(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache transaction: %w", err)
	}
	s.logger.Debug("saved metadata cache",
		logging.String("path", s.path),
		logging.Int("entry_count", cache.Len()))
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+sqliteTable+")")
	if err != nil {
		return nil, fmt.Errorf("inspect cache table: %w", err)
	}
	defer rows.Close()

	present := make(map[string]struct{})
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		present[name] = struct{}{}
	}
	return present, rows.Err()
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
