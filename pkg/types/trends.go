// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Count is one label with its number of occurrences.
type Count struct {
	Label string `json:"label"`
	N     int    `json:"count"`
}

// Counts is an ordered frequency table. It serializes as a JSON object whose
// keys keep the slice order, and deserializes in document order, so a
// count-sorted table survives a round trip.
type Counts []Count

// Get returns the count for label.
func (c Counts) Get(label string) (int, bool) {
	for _, e := range c {
		if e.Label == label {
			return e.N, true
		}
	}
	return 0, false
}

// Labels returns the labels in order.
func (c Counts) Labels() []string {
	if len(c) == 0 {
		return nil
	}
	out := make([]string, len(c))
	for i, e := range c {
		out[i] = e.Label
	}
	return out
}

// Top returns at most n leading entries. n <= 0 returns all entries.
func (c Counts) Top(n int) Counts {
	if n <= 0 || n >= len(c) {
		return c
	}
	return c[:n]
}

// MarshalJSON writes the table as an ordered JSON object.
func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", e.N)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of label → count, keeping key order.
func (c *Counts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("counts: expected object, got %v", tok)
	}

	var out Counts
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("counts: expected string key, got %v", keyTok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("counts: value for %q: %w", key, err)
		}
		out = append(out, Count{Label: key, N: n})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

// TrendSummary is the frequency summary of one analyzed batch.
type TrendSummary struct {
	// AICategories counts ai_subcategory labels, most common first.
	AICategories Counts `json:"ai_categories"`

	// TopKeywords counts technical keywords, truncated to the top N.
	TopKeywords Counts `json:"top_keywords"`

	// Methodologies counts methodology labels, most common first.
	Methodologies Counts `json:"methodologies"`

	// AvgNoveltyScore is the mean of the numeric novelty scores, 0 when none.
	AvgNoveltyScore float64 `json:"avg_novelty_score"`

	// NoveltyDistribution counts scores rounded half-to-even.
	NoveltyDistribution Counts `json:"novelty_distribution"`
}
