// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PaperRecord is a normalized search result. Every recognized field is
// nullable: a field missing from the raw record stays nil and serializes
// as JSON null. Records are built once at fetch time and never mutated.
type PaperRecord struct {
	// Seq is the 1-based position of the record in the fetch result.
	Seq int `json:"id" yaml:"id"`

	// ArxivID is the final path segment of the entry id (e.g. "2401.00001v2").
	ArxivID *string `json:"arxiv_id" yaml:"arxiv_id"`

	// FetchedDate records when the normalizer produced the record.
	FetchedDate time.Time `json:"fetched_date" yaml:"fetched_date"`

	Published       *string  `json:"published" yaml:"published"`
	Title           *string  `json:"title" yaml:"title"`
	Authors         []string `json:"authors" yaml:"authors"`
	Summary         *string  `json:"summary" yaml:"summary"`
	PrimaryCategory *string  `json:"primary_category" yaml:"primary_category"`
	Categories      []string `json:"categories" yaml:"categories"`
	Link            *string  `json:"link" yaml:"link"`
	PDFURL          *string  `json:"pdf_url" yaml:"pdf_url"`

	// ArxivURL and Ar5ivURL are derived from ArxivID by string interpolation.
	ArxivURL *string `json:"arxiv_url" yaml:"arxiv_url"`
	Ar5ivURL *string `json:"ar5iv_url" yaml:"ar5iv_url"`
}

// ID returns the arXiv identifier or "unknown".
func (p PaperRecord) ID() string {
	return Deref(p.ArxivID, "unknown")
}

// Deref returns *s, or fallback when s is nil.
func Deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// RawRecord is a search result as returned by a search backend: a
// heterogeneous record whose fields are a superset of PaperRecord's.
type RawRecord map[string]any
