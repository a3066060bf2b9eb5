package diary

import (
	"strings"
	"time"
)

// Entry is one diary row. Entries are read-only once loaded.
type Entry struct {
	// Row is the 1-based data row number in the source file.
	Row     int
	Title   string
	Year    *int
	Date    *time.Time
	Rating  *float64
	Rewatch bool
}

// WatchedYear returns the calendar year of the watch date.
func (e Entry) WatchedYear() (int, bool) {
	if e.Date == nil {
		return 0, false
	}
	return e.Date.Year(), true
}

var rewatchTokens = map[string]struct{}{
	"yes":         {},
	"y":           {},
	"true":        {},
	"1":           {},
	"sim":         {},
	"s":           {},
	"reassistido": {},
	"rewatch":     {},
}

// ParseRewatch reports whether a free-form rewatch cell means "yes".
func ParseRewatch(value string) bool {
	_, ok := rewatchTokens[strings.ToLower(strings.TrimSpace(value))]
	return ok
}
