// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Innovation levels derived from the mean novelty score.
const (
	InnovationHigh   = "High"
	InnovationMedium = "Medium"
	InnovationLow    = "Low"
)

// UnknownCategory is reported as the dominant category when no category
// was counted.
const UnknownCategory = "Unknown"

// Report is the assembled result of one run. It is built once and both
// renderings are projections of it.
type Report struct {
	Metadata     ReportMetadata `json:"metadata"`
	Summary      ReportSummary  `json:"summary"`
	Trends       TrendSummary   `json:"trends"`
	Insights     Insights       `json:"insights"`
	SamplePapers []SamplePaper  `json:"sample_papers"`
}

// ReportMetadata describes how the report was produced.
type ReportMetadata struct {
	GenerationDate     string   `json:"generation_date"`
	PapersynthVersion  string   `json:"papersynth_version"`
	QueryUsed          string   `json:"query_used"`
	CategoriesSearched []string `json:"categories_searched"`
}

// ReportSummary holds fetched and analyzed counts.
type ReportSummary struct {
	TotalPapersFound int    `json:"total_papers_found"`
	PapersAnalyzed   int    `json:"papers_analyzed"`
	SuccessRate      string `json:"success_rate"`
}

// Insights is the human-oriented digest of a TrendSummary.
type Insights struct {
	DominantCategory string   `json:"dominant_category"`
	EmergingKeywords []string `json:"emerging_keywords"`
	InnovationLevel  string   `json:"innovation_level"`
}

// SamplePaper is one featured paper in the report.
type SamplePaper struct {
	Title      string           `json:"title"`
	ArxivID    string           `json:"arxiv_id"`
	Authors    []string         `json:"authors"`
	Analysis   *Analysis        `json:"analysis,omitempty"`
	Diagnostic *ParseDiagnostic `json:"diagnostic,omitempty"`
}
