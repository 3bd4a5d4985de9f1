// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the papersynth pipeline:
// paper records, analysis results, trend summaries, reports, run artifacts
// and configuration.
package types

// SearchRequest holds the parameters sent to the search service.
type SearchRequest struct {
	// Query is the free-text search expression (arXiv query syntax allowed).
	Query string `json:"query" yaml:"query"`

	// MaxResults limits the number of records returned.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Categories restricts the search to arXiv categories (e.g. "cs.AI").
	Categories []string `json:"categories" yaml:"categories"`
}

// FetchResult is the outcome of a successful fetch, as persisted to
// data/fetched_papers_<ts>.json.
type FetchResult struct {
	Status             string        `json:"status"`
	PapersCount        int           `json:"papers_count"`
	Papers             []PaperRecord `json:"papers"`
	QueryUsed          string        `json:"query_used"`
	CategoriesSearched []string      `json:"categories_searched"`
}
