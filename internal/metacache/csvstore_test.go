package metacache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleCache() *Cache {
	return FromRecords([]Record{
		fullRecord("Alien", 1979, 348),
		NegativeRecord(NewKey("Unknown Film", intp(2099))),
		{Key: NewKey("Home Movie, Part 1", nil), TMDBID: id(7), Director: str(`Jane "JD" Doe`)},
	})
}

func assertSameCache(t *testing.T, got, want *Cache) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("record count mismatch: got %d want %d", got.Len(), want.Len())
	}
	gotRecs, wantRecs := got.Records(), want.Records()
	for i := range wantRecs {
		if !gotRecs[i].Equal(wantRecs[i]) {
			t.Fatalf("record %d mismatch:\n got %+v\nwant %+v", i, gotRecs[i], wantRecs[i])
		}
	}
}

func TestCSVStoreLoadAbsentFile(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "missing.csv"), nil)
	cache, info, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cache.Len() != 0 || info.Existed || info.Rebuilt {
		t.Fatalf("expected empty fresh cache, got len=%d info=%+v", cache.Len(), info)
	}
}

func TestCSVStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tmdb_cache.csv")
	store := NewCSVStore(path, nil)
	want := sampleCache()

	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, info, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !info.Existed || info.Rebuilt {
		t.Fatalf("unexpected load info %+v", info)
	}
	assertSameCache(t, got, want)

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(leftovers) != 0 {
		t.Fatalf("expected temp files to be cleaned up, found %v", leftovers)
	}
}

func TestCSVStoreSaveIsByteStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmdb_cache.csv")
	store := NewCSVStore(path, nil)
	if err := store.Save(context.Background(), sampleCache()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	first, _ := os.ReadFile(path)

	loaded, _, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := store.Save(context.Background(), loaded); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Fatalf("expected identical files:\n%s\n---\n%s", first, second)
	}
	if !strings.HasPrefix(string(first), "title,year,tmdb_id,genre,director,country,runtime\n") {
		t.Fatalf("unexpected header in %q", first)
	}
}

func TestCSVStoreMissingColumnRebuilds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmdb_cache.csv")
	legacy := "title,year,tmdb_id,genre,country,runtime\nAlien,1979,348,Horror,United Kingdom,117\n"
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy cache: %v", err)
	}
	cache, info, err := NewCSVStore(path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, got %d records", cache.Len())
	}
	if !info.Rebuilt || !strings.Contains(info.Reason, "director") {
		t.Fatalf("expected rebuild naming director, got %+v", info)
	}
}

func TestCSVStoreAcceptsFloatIntegersAndExtraColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmdb_cache.csv")
	content := "\ufeffruntime,title,extra,year,tmdb_id,genre,director,country\n" +
		"117.0,Alien,x,1979.0,348.0,Horror,Ridley Scott,United Kingdom\n" +
		",Ghost,,,,,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	cache, info, err := NewCSVStore(path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if info.Rebuilt {
		t.Fatalf("did not expect rebuild: %+v", info)
	}
	alien, ok := cache.Lookup(NewKey("Alien", intp(1979)))
	if !ok {
		t.Fatal("expected Alien record")
	}
	if *alien.TMDBID != 348 || *alien.Runtime != 117 || *alien.Director != "Ridley Scott" {
		t.Fatalf("unexpected Alien record %+v", alien)
	}
	ghost, ok := cache.Lookup(NewKey("Ghost", nil))
	if !ok || !ghost.NotFound() || ghost.Genre != nil {
		t.Fatalf("expected negative Ghost record, got %+v (ok=%v)", ghost, ok)
	}
}

func TestCSVStoreMalformedNumberRebuilds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmdb_cache.csv")
	content := "title,year,tmdb_id,genre,director,country,runtime\nAlien,nineteen,348,,,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	cache, info, err := NewCSVStore(path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cache.Len() != 0 || !info.Rebuilt {
		t.Fatalf("expected rebuild, got len=%d info=%+v", cache.Len(), info)
	}
}

func TestCSVStoreDuplicateRowsFirstWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmdb_cache.csv")
	content := "title,year,tmdb_id,genre,director,country,runtime\n" +
		"Alien,1979,348,,,,\n" +
		"Alien,1979,1,,,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	cache, _, err := NewCSVStore(path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected dedup to one record, got %d", cache.Len())
	}
	rec, _ := cache.Lookup(NewKey("Alien", intp(1979)))
	if *rec.TMDBID != 348 {
		t.Fatalf("expected first row to win, got %d", *rec.TMDBID)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmdb_cache.db")
	store := NewSQLiteStore(path, nil)

	empty, info, err := store.Load(context.Background())
	if err != nil || empty.Len() != 0 || info.Existed {
		t.Fatalf("expected empty cache for missing db, got len=%d info=%+v err=%v", empty.Len(), info, err)
	}

	want := sampleCache()
	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, info, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !info.Existed || info.Rebuilt {
		t.Fatalf("unexpected load info %+v", info)
	}
	assertSameCache(t, got, want)

	// A second save replaces rather than appends.
	if err := store.Save(context.Background(), got); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}
	again, _, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	assertSameCache(t, again, want)
}

func TestSQLiteStoreMissingColumnRebuilds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmdb_cache.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE metadata (title TEXT, year INTEGER, tmdb_id INTEGER, genre TEXT, country TEXT, runtime INTEGER)`); err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO metadata VALUES ('Alien', 1979, 348, 'Horror', 'UK', 117)`); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}
	_ = db.Close()

	store := NewSQLiteStore(path, nil)
	cache, info, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cache.Len() != 0 || !info.Rebuilt || !strings.Contains(info.Reason, "director") {
		t.Fatalf("expected rebuild, got len=%d info=%+v", cache.Len(), info)
	}
	if err := store.Save(context.Background(), sampleCache()); err != nil {
		t.Fatalf("Save after rebuild returned error: %v", err)
	}
	reloaded, info, err := store.Load(context.Background())
	if err != nil || info.Rebuilt {
		t.Fatalf("expected migrated table, info=%+v err=%v", info, err)
	}
	assertSameCache(t, reloaded, sampleCache())
}

func TestSQLiteStoreUnscannableRowRebuilds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmdb_cache.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE metadata (title TEXT, year TEXT, tmdb_id INTEGER, genre TEXT, director TEXT, country TEXT, runtime INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO metadata VALUES ('Alien', 'abc', 348, 'Horror', 'Ridley Scott', 'UK', 117)`); err != nil {
		t.Fatalf("insert row: %v", err)
	}
	_ = db.Close()

	store := NewSQLiteStore(path, nil)
	cache, info, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cache.Len() != 0 || !info.Rebuilt || !strings.Contains(info.Reason, "malformed") {
		t.Fatalf("expected malformed rebuild, got len=%d info=%+v", cache.Len(), info)
	}
	if err := store.Save(context.Background(), sampleCache()); err != nil {
		t.Fatalf("Save after rebuild returned error: %v", err)
	}
	reloaded, info, err := store.Load(context.Background())
	if err != nil || info.Rebuilt {
		t.Fatalf("expected rewritten table, info=%+v err=%v", info, err)
	}
	assertSameCache(t, reloaded, sampleCache())
}

func TestMemoryStoreCopiesOnSaveAndLoad(t *testing.T) {
	store := NewMemoryStore()
	cache := sampleCache()
	if err := store.Save(context.Background(), cache); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	rec, _ := cache.Lookup(NewKey("Alien", intp(1979)))
	*rec.Genre = "mutated"

	loaded, info, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !info.Existed {
		t.Fatal("expected Existed after save")
	}
	got, _ := loaded.Lookup(NewKey("Alien", intp(1979)))
	if *got.Genre != "Horror, Science Fiction" {
		t.Fatalf("memory store aliased caller state: %q", *got.Genre)
	}
	if store.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", store.Saves())
	}
}

func TestMemoryStoreHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore()
	if err := store.Save(ctx, New()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.Saves() != 0 {
		t.Fatal("expected no save after cancellation")
	}
}

func TestAcquireLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmdb_cache.csv.lock")
	first, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock returned error: %v", err)
	}
	if _, err := AcquireLock(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	second, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	_ = second.Release()
	var nilLock *Lock
	if err := nilLock.Release(); err != nil {
		t.Fatalf("nil Release returned error: %v", err)
	}
}
