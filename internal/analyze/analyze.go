// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze sends papers to a text-analysis service and decodes the
// structured replies. A service failure skips the paper; an undecodable
// reply is kept as a diagnostic. Neither aborts a batch.
package analyze

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/papersynth/internal/logging"
	"github.com/pdiddy/papersynth/pkg/types"
)

// ErrNoText is returned when a paper has neither title nor abstract, or
// when a full-text rendering is empty.
var ErrNoText = errors.New("no text to analyze")

// Status distinguishes the two outcomes of analyzing one paper.
type Status string

const (
	StatusAnalyzed Status = "analyzed"
	StatusSkipped  Status = "skipped"
)

// Outcome is the result of analyzing one paper. Result is set when Status
// is StatusAnalyzed (it may still carry a diagnostic); Reason is set when
// Status is StatusSkipped.
type Outcome struct {
	Status Status
	Result types.AnalysisResult
	Reason string
}

// Analyzer is the per-paper analysis adapter.
type Analyzer struct {
	Generator Generator

	// Source supplies full text; nil disables full-text mode.
	Source TextSource

	// RepairJSON retries an undecodable reply once after JSON repair.
	RepairJSON bool

	Logger *log.Logger
	Now    func() time.Time
}

// NewAnalyzer returns an Analyzer. source may be nil.
func NewAnalyzer(gen Generator, source TextSource, repair bool, logger *log.Logger) *Analyzer {
	return &Analyzer{
		Generator:  gen,
		Source:     source,
		RepairJSON: repair,
		Logger:     logger,
		Now:        time.Now,
	}
}

// Analyze analyzes one paper. With fullText set and a Source configured the
// paper's ar5iv text is embedded in the prompt; a retrieval failure falls
// back to the abstract.
func (a *Analyzer) Analyze(ctx context.Context, paper types.PaperRecord, fullText bool) Outcome {
	id := paper.ID()
	if paper.Title == nil && paper.Summary == nil {
		return Outcome{Status: StatusSkipped, Reason: ErrNoText.Error()}
	}

	var text string
	if fullText && a.Source != nil && paper.ArxivID != nil {
		t, err := a.Source.FullText(ctx, *paper.ArxivID)
		if err != nil {
			a.logger().Warn("full text unavailable, using abstract", "paper", id, "err", err)
		} else {
			text = t
		}
	}

	prompt, err := renderPrompt(paper, text)
	if err != nil {
		return Outcome{Status: StatusSkipped, Reason: "rendering prompt: " + err.Error()}
	}

	raw, err := a.Generator.Generate(ctx, prompt)
	if err != nil {
		a.logger().Error("analysis failed", "paper", id, "err", err)
		return Outcome{Status: StatusSkipped, Reason: err.Error()}
	}

	result := types.AnalysisResult{
		ArxivID:    id,
		Title:      types.Deref(paper.Title, ""),
		Authors:    paper.Authors,
		AnalyzedAt: a.now(),
		Model:      a.Generator.Model(),
	}
	result.ProcessedWithURL = text != ""

	analysis, err := ParseResponse(raw, a.RepairJSON)
	if err != nil {
		a.logger().Warn("could not parse analysis", "paper", id, "err", err)
		result.Diagnostic = &types.ParseDiagnostic{RawResponse: raw, ParseError: err.Error()}
		return Outcome{Status: StatusAnalyzed, Result: result}
	}

	result.Analysis = analysis
	return Outcome{Status: StatusAnalyzed, Result: result}
}

func (a *Analyzer) logger() *log.Logger {
	if a.Logger == nil {
		a.Logger = logging.Discard()
	}
	return a.Logger
}

func (a *Analyzer) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
