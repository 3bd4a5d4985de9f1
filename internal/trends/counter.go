// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"sort"

	"github.com/pdiddy/papersynth/pkg/types"
)

// Counter is a frequency counter that remembers the order in which labels
// were first seen. Ranking is by descending count with ties broken by
// first appearance.
type Counter struct {
	index   map[string]int
	entries []types.Count
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{index: make(map[string]int)}
}

// Add counts one occurrence of label.
func (c *Counter) Add(label string) {
	if i, ok := c.index[label]; ok {
		c.entries[i].N++
		return
	}
	c.index[label] = len(c.entries)
	c.entries = append(c.entries, types.Count{Label: label, N: 1})
}

// Len returns the number of distinct labels.
func (c *Counter) Len() int { return len(c.entries) }

// Distribution returns all counts in first-seen order.
func (c *Counter) Distribution() types.Counts {
	if len(c.entries) == 0 {
		return nil
	}
	out := make(types.Counts, len(c.entries))
	copy(out, c.entries)
	return out
}

// MostCommon returns the n highest counts; n <= 0 returns all of them.
func (c *Counter) MostCommon(n int) types.Counts {
	ranked := c.Distribution()
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].N > ranked[j].N })
	return ranked.Top(n)
}
