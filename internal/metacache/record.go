package metacache

// Record is one cache row. Nil fields mean "unknown". A nil TMDBID marks a
// lookup that found nothing; such records are permanent.
type Record struct {
	Key      Key
	TMDBID   *int64
	Genre    *string
	Director *string
	Country  *string
	Runtime  *int
}

// NegativeRecord returns the permanent not-found entry for key.
func NegativeRecord(key Key) Record {
	return Record{Key: key}
}

// NotFound reports whether the record is a negative cache entry.
func (r Record) NotFound() bool {
	return r.TMDBID == nil
}

// Clone returns a copy that shares no pointers with r.
func (r Record) Clone() Record {
	out := Record{Key: r.Key}
	if r.TMDBID != nil {
		v := *r.TMDBID
		out.TMDBID = &v
	}
	out.Genre = cloneString(r.Genre)
	out.Director = cloneString(r.Director)
	out.Country = cloneString(r.Country)
	if r.Runtime != nil {
		v := *r.Runtime
		out.Runtime = &v
	}
	return out
}

// Equal compares records field by field, following pointers.
func (r Record) Equal(other Record) bool {
	return r.Key == other.Key &&
		equalPtr(r.TMDBID, other.TMDBID) &&
		equalPtr(r.Genre, other.Genre) &&
		equalPtr(r.Director, other.Director) &&
		equalPtr(r.Country, other.Country) &&
		equalPtr(r.Runtime, other.Runtime)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
