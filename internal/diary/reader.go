package diary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"reelwrap/internal/services"
)

// Column names required in a diary export.
const (
	ColumnDate    = "Date"
	ColumnName    = "Name"
	ColumnYear    = "Year"
	ColumnRating  = "Rating"
	ColumnRewatch = "Rewatch"
)

// RequiredColumns lists the header cells every diary must carry.
var RequiredColumns = []string{ColumnDate, ColumnName, ColumnYear, ColumnRating, ColumnRewatch}

// MissingColumnsError reports a diary header without the required columns.
// It classifies as a configuration error.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("diary is missing required columns: %s (need %s)",
		strings.Join(e.Missing, ", "), strings.Join(RequiredColumns, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return services.ErrConfiguration }

// Load reads the diary file at path.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "diary", "open", fmt.Sprintf("file %s not found", path), fmt.Errorf("%w: %w", services.ErrNotFound, err))
		}
		return nil, services.Wrap(services.ErrConfiguration, "diary", "open", path, err)
	}
	defer file.Close()
	return Read(file)
}

// Read parses a diary from r.
func Read(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MissingColumnsError{Missing: append([]string{}, RequiredColumns...)}
		}
		return nil, fmt.Errorf("read diary header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	var entries []Entry
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read diary row %d: %w", row, err)
		}
		cell := func(name string) string {
			i := columns[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}
		entries = append(entries, Entry{
			Row:     row,
			Title:   cell(ColumnName),
			Year:    ParseYear(cell(ColumnYear)),
			Date:    ParseDate(cell(ColumnDate)),
			Rating:  ParseRating(cell(ColumnRating)),
			Rewatch: ParseRewatch(cell(ColumnRewatch)),
		})
	}
	return entries, nil
}

// ParseDate parses free-form date text. Unparseable input yields nil.
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// ParseYear parses a release year, accepting integral floats such as "1979.0".
func ParseYear(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}

// ParseRating parses a star rating on the 0.5 to 5 scale. Empty, unparseable,
// and out-of-range values yield nil.
func ParseRating(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || f <= 0 || f > 5 {
		return nil
	}
	return &f
}
