package stats

import (
	"cmp"
	"slices"
)

// Count is a ranked value with its occurrence count.
type Count struct {
	Name  string
	Count int
}

// counter tallies values and ranks them by descending count. Ties keep the
// order in which values were first seen.
type counter[K comparable] struct {
	order  []K
	counts map[K]int
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(key K) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter[K]) get(key K) int { return c.counts[key] }

func (c *counter[K]) empty() bool { return len(c.order) == 0 }

func (c *counter[K]) ranked() []K {
	keys := slices.Clone(c.order)
	slices.SortStableFunc(keys, func(a, b K) int {
		return cmp.Compare(c.counts[b], c.counts[a])
	})
	return keys
}

func (c *counter[K]) top() (K, int, bool) {
	var zero K
	if c.empty() {
		return zero, 0, false
	}
	key := c.ranked()[0]
	return key, c.counts[key], true
}
