// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles a Report from analysis results and trends and
// renders it as JSON, Markdown and HTML. Renderings are pure functions of
// the Report value.
package report

import (
	"fmt"
	"time"

	"github.com/pdiddy/papersynth/pkg/types"
)

const (
	sampleSize        = 5
	sampleAuthors     = 3
	emergingKeywordsN = 5
)

// FetchMeta is the part of the fetch stage the report needs.
type FetchMeta struct {
	Query      string
	Categories []string
	Fetched    int
}

// MetaFromFetch extracts FetchMeta from a fetch result.
func MetaFromFetch(f types.FetchResult) FetchMeta {
	return FetchMeta{Query: f.QueryUsed, Categories: f.CategoriesSearched, Fetched: len(f.Papers)}
}

// Build assembles the report. results is every analysis result of the run,
// including diagnostics; trends is their summary.
func Build(meta FetchMeta, results []types.AnalysisResult, trends types.TrendSummary, now time.Time, version string) types.Report {
	categories := meta.Categories
	if categories == nil {
		categories = []string{}
	}

	emerging := trends.TopKeywords.Top(emergingKeywordsN).Labels()
	if emerging == nil {
		emerging = []string{}
	}

	return types.Report{
		Metadata: types.ReportMetadata{
			GenerationDate:     now.Format(time.RFC3339),
			PapersynthVersion:  version,
			QueryUsed:          meta.Query,
			CategoriesSearched: categories,
		},
		Summary: types.ReportSummary{
			TotalPapersFound: meta.Fetched,
			PapersAnalyzed:   len(results),
			SuccessRate:      SuccessRate(len(results), meta.Fetched),
		},
		Trends: trends,
		Insights: types.Insights{
			DominantCategory: DominantCategory(trends.AICategories),
			EmergingKeywords: emerging,
			InnovationLevel:  InnovationLevel(trends.AvgNoveltyScore),
		},
		SamplePapers: samplePapers(results),
	}
}

// SuccessRate formats analyzed/fetched as a one-decimal percentage.
// A zero fetched count yields "0%".
func SuccessRate(analyzed, fetched int) string {
	if fetched == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(analyzed)/float64(fetched)*100)
}

// InnovationLevel buckets a mean novelty score. Bounds are exclusive:
// exactly 7 is Medium and exactly 5 is Low.
func InnovationLevel(avg float64) string {
	switch {
	case avg > 7:
		return types.InnovationHigh
	case avg > 5:
		return types.InnovationMedium
	default:
		return types.InnovationLow
	}
}

// DominantCategory returns the label with the highest count, the earliest
// one on ties, or types.UnknownCategory when there are none.
func DominantCategory(categories types.Counts) string {
	best := -1
	label := types.UnknownCategory
	for _, c := range categories {
		if c.N > best {
			best = c.N
			label = c.Label
		}
	}
	return label
}

func samplePapers(results []types.AnalysisResult) []types.SamplePaper {
	n := min(len(results), sampleSize)
	out := make([]types.SamplePaper, 0, n)
	for _, r := range results[:n] {
		authors := make([]string, min(len(r.Authors), sampleAuthors))
		copy(authors, r.Authors)
		out = append(out, types.SamplePaper{
			Title:      r.Title,
			ArxivID:    r.ArxivID,
			Authors:    authors,
			Analysis:   r.Analysis,
			Diagnostic: r.Diagnostic,
		})
	}
	return out
}
