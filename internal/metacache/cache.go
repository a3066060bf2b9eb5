package metacache

// Cache is the in-memory metadata collection: records in insertion order plus
// an index by Key. It is not safe for concurrent use.
type Cache struct {
	records []Record
	index   map[Key]int
}

// MergeResult summarizes a Merge call.
type MergeResult struct {
	Added      int
	Duplicates int
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{index: make(map[Key]int)}
}

// FromRecords builds a cache from rows read off disk. When the rows repeat a
// key, the first occurrence wins.
func FromRecords(records []Record) *Cache {
	c := New()
	c.Merge(records)
	return c
}

// Len returns the number of records.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Lookup returns the record stored for key.
func (c *Cache) Lookup(key Key) (Record, bool) {
	if c == nil {
		return Record{}, false
	}
	i, ok := c.index[key]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Contains reports whether key has a record, negative entries included.
func (c *Cache) Contains(key Key) bool {
	_, ok := c.Lookup(key)
	return ok
}

// Records returns the records in insertion order. The slice is a copy; the
// records share field pointers with the cache and must be treated as read-only.
func (c *Cache) Records() []Record {
	if c == nil {
		return nil
	}
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Merge appends batch to the cache keeping exactly one record per key. Records
// already in the cache come first and therefore win; inside the batch the
// first record for a key wins and later ones are dropped.
func (c *Cache) Merge(batch []Record) MergeResult {
	var result MergeResult
	for _, rec := range batch {
		if _, exists := c.index[rec.Key]; exists {
			result.Duplicates++
			continue
		}
		c.index[rec.Key] = len(c.records)
		c.records = append(c.records, rec)
		result.Added++
	}
	return result
}

// Clone returns a deep copy of the cache.
func (c *Cache) Clone() *Cache {
	out := New()
	if c == nil {
		return out
	}
	batch := make([]Record, 0, len(c.records))
	for _, rec := range c.records {
		batch = append(batch, rec.Clone())
	}
	out.Merge(batch)
	return out
}

// NegativeCount returns how many records are permanent not-found entries.
func (c *Cache) NegativeCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, rec := range c.records {
		if rec.NotFound() {
			n++
		}
	}
	return n
}

// Equal reports whether both caches hold equal records in the same order.
func (c *Cache) Equal(other *Cache) bool {
	if c.Len() != other.Len() {
		return false
	}
	a, b := c.Records(), other.Records()
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
