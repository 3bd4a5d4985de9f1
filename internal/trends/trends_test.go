// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papersynth/pkg/types"
)

func score(f float64) *float64 { return &f }

func result(cat, method string, s *float64, keywords ...string) types.AnalysisResult {
	return types.AnalysisResult{Analysis: &types.Analysis{
		AISubcategory:     cat,
		Methodology:       method,
		TechnicalKeywords: keywords,
		NoveltyScore:      s,
	}}
}

func diagnostic() types.AnalysisResult {
	return types.AnalysisResult{Diagnostic: &types.ParseDiagnostic{RawResponse: "oops", ParseError: "invalid"}}
}

func TestCounterMostCommonTieBreak(t *testing.T) {
	c := NewCounter()
	for _, kw := range []string{"a", "a", "b", "c", "c", "c"} {
		c.Add(kw)
	}
	assert.Equal(t, types.Counts{{Label: "c", N: 3}, {Label: "a", N: 2}}, c.MostCommon(2))
	assert.Equal(t, types.Counts{{Label: "a", N: 2}, {Label: "b", N: 1}, {Label: "c", N: 3}}, c.Distribution())
	assert.Equal(t, 3, c.Len())
}

func TestCounterTiesKeepFirstSeen(t *testing.T) {
	c := NewCounter()
	for _, l := range []string{"x", "y", "z", "y", "x"} {
		c.Add(l)
	}
	assert.Equal(t, []string{"x", "y", "z"}, c.MostCommon(0).Labels())
}

func TestCounterEmpty(t *testing.T) {
	c := NewCounter()
	assert.Nil(t, c.MostCommon(5))
	assert.Nil(t, c.Distribution())
}

func TestAggregate(t *testing.T) {
	results := []types.AnalysisResult{
		result("NLP", "Transformer", score(6), "llm", "rag"),
		diagnostic(),
		result("CV", "Diffusion", score(8), "diffusion", "llm"),
		result("NLP", "", nil, "llm"),
	}

	s := Aggregate(results, 15)

	assert.Equal(t, types.Counts{{Label: "NLP", N: 2}, {Label: "CV", N: 1}}, s.AICategories)
	assert.Equal(t, types.Counts{{Label: "llm", N: 3}, {Label: "rag", N: 1}, {Label: "diffusion", N: 1}}, s.TopKeywords)
	assert.Equal(t, types.Counts{{Label: "Transformer", N: 1}, {Label: "Diffusion", N: 1}}, s.Methodologies)
	assert.InDelta(t, 7.0, s.AvgNoveltyScore, 1e-9)
	assert.Equal(t, types.Counts{{Label: "6", N: 1}, {Label: "8", N: 1}}, s.NoveltyDistribution)
}

func TestAggregateTruncatesKeywords(t *testing.T) {
	s := Aggregate([]types.AnalysisResult{result("ML", "m", nil, "a", "a", "b", "c", "c", "c")}, 2)
	assert.Equal(t, types.Counts{{Label: "c", N: 3}, {Label: "a", N: 2}}, s.TopKeywords)
}

func TestAggregateEmpty(t *testing.T) {
	for _, in := range [][]types.AnalysisResult{nil, {diagnostic()}} {
		s := Aggregate(in, DefaultKeywordTopN)
		assert.Equal(t, 0.0, s.AvgNoveltyScore)
		assert.Empty(t, s.AICategories)
		assert.Empty(t, s.TopKeywords)
		assert.Empty(t, s.NoveltyDistribution)
	}
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 5.5, Mean([]float64{4, 7}), 1e-9)
}

func TestHistogramRoundsHalfToEven(t *testing.T) {
	got := Histogram([]float64{6.5, 7.5, 7.4, 8.0, 6.4})
	// 6.5 → 6, 7.5 → 8, 7.4 → 7, 8.0 → 8, 6.4 → 6
	assert.Equal(t, types.Counts{{Label: "6", N: 2}, {Label: "8", N: 2}, {Label: "7", N: 1}}, got)
}

func TestViews(t *testing.T) {
	results := []types.AnalysisResult{
		result("NLP", "Transformer", nil, "llm", "rag"),
		result("CV", "Transformer", nil, "llm"),
		diagnostic(),
	}

	kv := Keywords(results)
	assert.Equal(t, 2, kv.TotalUniqueKeywords)
	assert.Equal(t, types.Counts{{Label: "llm", N: 2}, {Label: "rag", N: 1}}, kv.TopKeywords)

	mv := Methodologies(results)
	assert.Equal(t, types.Counts{{Label: "Transformer", N: 2}}, mv.TopMethodologies)

	cv := Categories(results)
	require.NotNil(t, cv.Dominant)
	assert.Equal(t, types.Count{Label: "NLP", N: 1}, *cv.Dominant)
	assert.Len(t, cv.CategoryDistribution, 2)

	assert.Nil(t, Categories(nil).Dominant)
}
