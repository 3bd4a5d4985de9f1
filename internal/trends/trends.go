// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trends aggregates analysis results into frequency summaries.
// Only results carrying structured analysis contribute; diagnostics are
// ignored. The functions tolerate any subset of a batch, in any order.
package trends

import (
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/papersynth/pkg/types"
)

// DefaultKeywordTopN is the keyword truncation used in reports.
const DefaultKeywordTopN = 15

// tally holds the counters of one pass over a result set.
type tally struct {
	categories    *Counter
	keywords      *Counter
	methodologies *Counter
	scores        []float64
}

func collect(results []types.AnalysisResult) tally {
	t := tally{
		categories:    NewCounter(),
		keywords:      NewCounter(),
		methodologies: NewCounter(),
	}
	for _, r := range results {
		if !r.Parsed() {
			continue
		}
		a := r.Analysis
		if label := strings.TrimSpace(a.AISubcategory); label != "" {
			t.categories.Add(label)
		}
		for _, kw := range a.TechnicalKeywords {
			t.keywords.Add(kw)
		}
		if label := strings.TrimSpace(a.Methodology); label != "" {
			t.methodologies.Add(label)
		}
		if a.NoveltyScore != nil && !math.IsNaN(*a.NoveltyScore) && !math.IsInf(*a.NoveltyScore, 0) {
			t.scores = append(t.scores, *a.NoveltyScore)
		}
	}
	return t
}

// Aggregate summarizes results. Keywords are truncated to topN (all when
// topN <= 0).
func Aggregate(results []types.AnalysisResult, topN int) types.TrendSummary {
	t := collect(results)
	return types.TrendSummary{
		AICategories:        t.categories.MostCommon(0),
		TopKeywords:         t.keywords.MostCommon(topN),
		Methodologies:       t.methodologies.MostCommon(0),
		AvgNoveltyScore:     Mean(t.scores),
		NoveltyDistribution: Histogram(t.scores),
	}
}

// Mean returns the arithmetic mean of scores, or 0 for none.
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// Histogram counts scores rounded half-to-even (6.5 → 6, 7.5 → 8), most
// common first.
func Histogram(scores []float64) types.Counts {
	c := NewCounter()
	for _, s := range scores {
		c.Add(strconv.FormatFloat(math.RoundToEven(s), 'f', -1, 64))
	}
	return c.MostCommon(0)
}
