// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"time"
)

// Analysis is the structured body returned by the text-analysis service
// for one paper. Labels are free text; no vocabulary is enforced.
type Analysis struct {
	AISubcategory         string   `json:"ai_subcategory" jsonschema_description:"Research area label such as NLP, CV, ML or RL"`
	Methodology           string   `json:"methodology" jsonschema_description:"Main methodology used"`
	KeyContribution       string   `json:"key_contribution" jsonschema_description:"Primary contribution in one sentence"`
	TechnicalKeywords     []string `json:"technical_keywords" jsonschema_description:"Technical keywords describing the paper"`
	NoveltyScore          *float64 `json:"novelty_score" jsonschema_description:"Integer 1-10. 1-3 incremental, 4-6 moderate contribution combining known approaches, 7-8 clear advancement over the state of the art, 9-10 only for paradigm-shifting work. Most papers score 4-6"`
	PracticalApplications []string `json:"practical_applications" jsonschema_description:"Practical applications of the work"`
	Limitations           []string `json:"limitations,omitempty" jsonschema_description:"Known limitations of the work"`
}

// UnmarshalJSON decodes an Analysis field by field. The document must be a
// JSON object, but a field of the wrong type (a string where a list is
// expected, a number for a label, a non-numeric novelty_score) decodes as
// absent instead of failing the whole document. Non-string list elements
// are dropped.
func (a *Analysis) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*a = Analysis{
		AISubcategory:         lenientString(fields["ai_subcategory"]),
		Methodology:           lenientString(fields["methodology"]),
		KeyContribution:       lenientString(fields["key_contribution"]),
		TechnicalKeywords:     lenientStrings(fields["technical_keywords"]),
		PracticalApplications: lenientStrings(fields["practical_applications"]),
		Limitations:           lenientStrings(fields["limitations"]),
	}
	if raw := fields["novelty_score"]; len(raw) > 0 {
		var score *float64
		if err := json.Unmarshal(raw, &score); err == nil {
			a.NoveltyScore = score
		}
	}
	return nil
}

func lenientString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func lenientStrings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s *string
		if json.Unmarshal(item, &s) == nil && s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// ParseDiagnostic captures an analysis response that could not be decoded.
type ParseDiagnostic struct {
	RawResponse string `json:"raw_response"`
	ParseError  string `json:"parse_error"`
}

// AnalysisResult is the per-paper output of the analyzer. Exactly one of
// Analysis and Diagnostic is set.
type AnalysisResult struct {
	ArxivID string   `json:"arxiv_id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`

	Analysis   *Analysis        `json:"analysis,omitempty"`
	Diagnostic *ParseDiagnostic `json:"diagnostic,omitempty"`

	// ProcessedWithURL reports whether the full text was part of the prompt.
	ProcessedWithURL bool      `json:"processed_with_url"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
	Model            string    `json:"model,omitempty"`
}

// Parsed reports whether the result carries structured analysis data.
func (r AnalysisResult) Parsed() bool {
	return r.Analysis != nil && r.Diagnostic == nil
}

// AnalysisBatch is the persisted form of one analysis stage run
// (data/analyzed_papers_<ts>.json).
type AnalysisBatch struct {
	Status        string           `json:"status"`
	TotalPapers   int              `json:"total_papers"`
	AnalyzedCount int              `json:"analyzed_count"`
	Timestamp     string           `json:"timestamp"`
	Skipped       []SkippedPaper   `json:"skipped,omitempty"`
	Analyses      []AnalysisResult `json:"analyses"`
}

// SkippedPaper records a paper the analysis service could not process.
type SkippedPaper struct {
	ArxivID string `json:"arxiv_id"`
	Reason  string `json:"reason"`
}
