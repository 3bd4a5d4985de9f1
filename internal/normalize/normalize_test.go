// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papersynth/pkg/types"
)

var fetchedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeFullRecord(t *testing.T) {
	raw := types.RawRecord{
		"entry_id":         "http://arxiv.org/abs/2401.00001v2",
		"title":            "Attention\n  Is All You Need",
		"authors":          []string{"Ann Smith", " Bo Li "},
		"summary":          "We   propose\na <new> model (T5) [1]; it works!",
		"published":        time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"primary_category": "cs.CL",
		"categories":       []any{"cs.CL", "cs.LG"},
		"link":             "http://arxiv.org/abs/2401.00001v2",
		"pdf_url":          "http://arxiv.org/pdf/2401.00001v2",
	}

	p := Normalize(raw, 3, fetchedAt)

	assert.Equal(t, 3, p.Seq)
	assert.Equal(t, fetchedAt, p.FetchedDate)
	require.NotNil(t, p.ArxivID)
	assert.Equal(t, "2401.00001v2", *p.ArxivID)
	assert.Equal(t, "Attention Is All You Need", *p.Title)
	assert.Equal(t, []string{"Ann Smith", "Bo Li"}, p.Authors)
	assert.Equal(t, "We propose a new model (T5) [1]; it works!", *p.Summary)
	assert.Equal(t, "2024-01-02T03:04:05Z", *p.Published)
	assert.Equal(t, "cs.CL", *p.PrimaryCategory)
	assert.Equal(t, []string{"cs.CL", "cs.LG"}, p.Categories)
	assert.Equal(t, "http://arxiv.org/pdf/2401.00001v2", *p.PDFURL)
	assert.Equal(t, "https://arxiv.org/abs/2401.00001v2", *p.ArxivURL)
	assert.Equal(t, "https://ar5iv.labs.arxiv.org/html/2401.00001v2", *p.Ar5ivURL)
}

func TestNormalizeEmptyRecord(t *testing.T) {
	p := Normalize(types.RawRecord{}, 1, fetchedAt)

	assert.Nil(t, p.ArxivID)
	assert.Nil(t, p.Title)
	assert.Nil(t, p.Summary)
	assert.Nil(t, p.Published)
	assert.Nil(t, p.Authors)
	assert.Nil(t, p.ArxivURL)
	assert.Nil(t, p.Ar5ivURL)
	assert.Equal(t, "unknown", p.ID())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{"arxiv_id", "title", "summary", "published", "arxiv_url", "ar5iv_url", "pdf_url"} {
		v, ok := m[key]
		assert.True(t, ok, "key %s missing", key)
		assert.Nil(t, v, "key %s should be null", key)
	}
}

func TestNormalizeIdentifierWithoutPath(t *testing.T) {
	p := Normalize(types.RawRecord{"entry_id": "2312.99999"}, 1, fetchedAt)
	require.NotNil(t, p.ArxivID)
	assert.Equal(t, "2312.99999", *p.ArxivID)
}

func TestNormalizeAuthorShapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"string slice", []string{"A", "B"}, []string{"A", "B"}},
		{"any of strings", []any{"A", 7, "B"}, []string{"A", "B"}},
		{"name objects", []any{map[string]any{"name": "A"}, map[string]any{"name": " B "}}, []string{"A", "B"}},
		{"comma string", "A, B,, C", []string{"A", "B", "C"}},
		{"unsupported", 42, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(types.RawRecord{"authors": tt.in}, 1, fetchedAt)
			assert.Equal(t, tt.want, p.Authors)
		})
	}
}

func TestNormalizePublished(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *string
	}{
		{"time value", time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), types.Ptr("2024-05-06T07:08:09Z")},
		{"rfc3339 string", "2024-05-06T07:08:09Z", types.Ptr("2024-05-06T07:08:09Z")},
		{"date only", "2024-05-06", types.Ptr("2024-05-06T00:00:00Z")},
		{"garbage", "last tuesday", nil},
		{"zero time", time.Time{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(types.RawRecord{"published": tt.in}, 1, fetchedAt)
			assert.Equal(t, tt.want, p.Published)
		})
	}
}

func TestCleanAbstract(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text.", "plain text."},
		{"  leading\t\tand\n trailing  ", "leading and trailing"},
		{"math $x^2$ & {braces}", "math x2  braces"},
		{"keeps (parens) [brackets] - dashes: ok?", "keeps (parens) [brackets] - dashes: ok?"},
		{"unicode naïve café", "unicode naïve café"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanAbstract(tt.in), "CleanAbstract(%q)", tt.in)
	}
}

func TestNormalizeAllNumbersFromOne(t *testing.T) {
	papers := NormalizeAll([]types.RawRecord{
		{"entry_id": "http://arxiv.org/abs/1"},
		{"entry_id": "http://arxiv.org/abs/2"},
	}, fetchedAt)
	require.Len(t, papers, 2)
	assert.Equal(t, 1, papers[0].Seq)
	assert.Equal(t, 2, papers[1].Seq)
	assert.Equal(t, "2", papers[1].ID())
}
