package metacache

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"reelwrap/internal/fileutil"
	"reelwrap/internal/logging"
)

// CSVStore keeps the cache as a flat CSV table with a header row.
type CSVStore struct {
	path   string
	logger *slog.Logger
}

var _ Store = (*CSVStore)(nil)

// NewCSVStore creates a store backed by the CSV file at path. The file is
// created lazily on the first Save.
func NewCSVStore(path string, logger *slog.Logger) *CSVStore {
	return &CSVStore{
		path:   path,
		logger: logging.NewComponentLogger(logger, "metacache"),
	}
}

// Path returns the backing file.
func (s *CSVStore) Path() string { return s.path }

// Describe names the backend for operator output.
func (s *CSVStore) Describe() string { return "csv:" + s.path }

// Load reads the cache file. An absent file yields an empty cache. A file that
// lacks a required column or cannot be parsed yields an empty cache with
// LoadInfo.Rebuilt set; the next Save overwrites it.
func (s *CSVStore) Load(ctx context.Context) (*Cache, LoadInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, LoadInfo{}, err
	}
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), LoadInfo{}, nil
		}
		return nil, LoadInfo{}, fmt.Errorf("open cache file: %w", err)
	}
	defer file.Close()

	records, info, err := readCSV(file)
	if err != nil {
		return nil, LoadInfo{}, err
	}
	if info.Rebuilt {
		logging.InfoEvent(s.logger, "cache file incompatible; rebuilding from scratch", "cache_rebuild",
			logging.String("path", s.path),
			logging.String("reason", info.Reason))
		return New(), info, nil
	}

	cache := FromRecords(records)
	s.logger.Debug("loaded metadata cache",
		logging.String("path", s.path),
		logging.Int("entry_count", cache.Len()))
	return cache, info, nil
}

// Save writes the whole cache through a temp file and rename so a crash never
// leaves a truncated table behind.
func (s *CSVStore) Save(ctx context.Context, cache *Cache) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(s.path, 0o644, func(w io.Writer) error {
		return writeCSV(w, cache)
	}); err != nil {
		return fmt.Errorf("save cache %s: %w", s.path, err)
	}

	s.logger.Debug("saved metadata cache",
		logging.String("path", s.path),
		logging.Int("entry_count", cache.Len()))
	return nil
}

func readCSV(r io.Reader) ([]Record, LoadInfo, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, LoadInfo{Existed: true, Rebuilt: true, Reason: "empty file"}, nil
		}
		return nil, malformed(err), nil
	}

	columns := make(map[string]int, len(header))
	present := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
		present[name] = struct{}{}
	}
	if missing := missingColumns(present); len(missing) > 0 {
		return nil, rebuildInfo(missing), nil
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(err), nil
		}
		rec, err := parseRow(row, columns)
		if err != nil {
			return nil, malformed(fmt.Errorf("line %d: %w", line, err)), nil
		}
		records = append(records, rec)
	}
	return records, LoadInfo{Existed: true}, nil
}

func malformed(err error) LoadInfo {
	return LoadInfo{Existed: true, Rebuilt: true, Reason: "malformed file: " + err.Error()}
}

func parseRow(row []string, columns map[string]int) (Record, error) {
	cell := func(name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	year, err := parseOptionalInt(cell(ColumnYear))
	if err != nil {
		return Record{}, fmt.Errorf("year: %w", err)
	}
	id, err := parseOptionalInt(cell(ColumnTMDBID))
	if err != nil {
		return Record{}, fmt.Errorf("tmdb_id: %w", err)
	}
	runtime, err := parseOptionalInt(cell(ColumnRuntime))
	if err != nil {
		return Record{}, fmt.Errorf("runtime: %w", err)
	}

	rec := Record{
		Key:      NewKey(cell(ColumnTitle), intPtr(year)),
		Genre:    optionalString(cell(ColumnGenre)),
		Director: optionalString(cell(ColumnDirector)),
		Country:  optionalString(cell(ColumnCountry)),
		Runtime:  intPtr(runtime),
	}
	if id != nil {
		v := int64(*id)
		rec.TMDBID = &v
	}
	return rec, nil
}

func writeCSV(w io.Writer, cache *Cache) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(RequiredColumns); err != nil {
		return fmt.Errorf("write cache header: %w", err)
	}
	for _, rec := range cache.Records() {
		row := []string{
			rec.Key.Title,
			formatYear(rec.Key),
			formatInt64(rec.TMDBID),
			derefString(rec.Genre),
			derefString(rec.Director),
			derefString(rec.Country),
			formatInt(rec.Runtime),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write cache row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush cache file: %w", err)
	}
	return nil
}

// parseOptionalInt accepts integers and integral floats ("1979.0"), which is
// how spreadsheet tools write integer columns that contain blanks.
func parseOptionalInt(value string) (*int64, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return nil, nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("not an integer: %q", value)
	}
	n := int64(f)
	return &n, nil
}

func intPtr(v *int64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatYear(k Key) string {
	if !k.HasYear {
		return ""
	}
	return strconv.Itoa(k.Year)
}

func formatInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
