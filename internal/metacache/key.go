package metacache

import "strconv"

// Key identifies a film in the cache. Equality is exact: no case folding and
// no fuzzy matching. A missing release year is a distinct key value, so
// "Solaris" with no year never collides with "Solaris" (1972).
type Key struct {
	Title   string
	Year    int
	HasYear bool
}

// NewKey builds a key from a diary title and optional release year.
func NewKey(title string, year *int) Key {
	if year == nil {
		return Key{Title: title}
	}
	return Key{Title: title, Year: *year, HasYear: true}
}

// YearPtr returns the release year or nil when it is unknown.
func (k Key) YearPtr() *int {
	if !k.HasYear {
		return nil
	}
	year := k.Year
	return &year
}

func (k Key) String() string {
	if !k.HasYear {
		return k.Title + " (year unknown)"
	}
	return k.Title + " (" + strconv.Itoa(k.Year) + ")"
}
