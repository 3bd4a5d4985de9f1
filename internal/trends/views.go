// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import "github.com/pdiddy/papersynth/pkg/types"

// KeywordView is the keyword-focused trend breakdown.
type KeywordView struct {
	TopKeywords         types.Counts `json:"top_keywords"`
	TotalUniqueKeywords int          `json:"total_unique_keywords"`
	KeywordDistribution types.Counts `json:"keyword_distribution"`
}

// MethodologyView is the methodology-focused trend breakdown.
type MethodologyView struct {
	TopMethodologies        types.Counts `json:"top_methodologies"`
	MethodologyDistribution types.Counts `json:"methodology_distribution"`
}

// CategoryView is the category-focused trend breakdown. Dominant is nil
// when no category was counted.
type CategoryView struct {
	CategoryDistribution types.Counts `json:"category_distribution"`
	Dominant             *types.Count `json:"dominant_category"`
}

// Keywords returns the top 10 keywords, the number of distinct keywords and
// the full distribution in first-seen order.
func Keywords(results []types.AnalysisResult) KeywordView {
	t := collect(results)
	return KeywordView{
		TopKeywords:         t.keywords.MostCommon(10),
		TotalUniqueKeywords: t.keywords.Len(),
		KeywordDistribution: t.keywords.Distribution(),
	}
}

// Methodologies returns the top 5 methodologies and the full distribution.
func Methodologies(results []types.AnalysisResult) MethodologyView {
	t := collect(results)
	return MethodologyView{
		TopMethodologies:        t.methodologies.MostCommon(5),
		MethodologyDistribution: t.methodologies.Distribution(),
	}
}

// Categories returns the category distribution and the dominant category.
func Categories(results []types.AnalysisResult) CategoryView {
	t := collect(results)
	v := CategoryView{CategoryDistribution: t.categories.Distribution()}
	if top := t.categories.MostCommon(1); len(top) == 1 {
		d := top[0]
		v.Dominant = &d
	}
	return v
}
