// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"time"

	"github.com/pdiddy/papersynth/pkg/types"
)

// sleep waits for d or until ctx is done. Declared as a var so tests can
// record waits without sleeping.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BatchResult holds the outcomes of a batch in input order.
type BatchResult struct {
	Total   int
	Results []types.AnalysisResult
	Skipped []types.SkippedPaper
}

// Parsed returns the number of results carrying structured analysis.
func (b BatchResult) Parsed() int {
	n := 0
	for _, r := range b.Results {
		if r.Parsed() {
			n++
		}
	}
	return n
}

// Batch converts the result to its persisted form.
func (b BatchResult) Batch(ts time.Time) types.AnalysisBatch {
	return types.AnalysisBatch{
		Status:        types.StatusSuccess,
		TotalPapers:   b.Total,
		AnalyzedCount: len(b.Results),
		Timestamp:     ts.Format(time.RFC3339),
		Skipped:       b.Skipped,
		Analyses:      b.Results,
	}
}

// AnalyzeBatch analyzes papers sequentially, waiting pacing between
// consecutive calls. There is no wait after the last paper. If ctx is
// cancelled the outcomes gathered so far are returned with ctx.Err().
func (a *Analyzer) AnalyzeBatch(ctx context.Context, papers []types.PaperRecord, fullText bool, pacing time.Duration) (BatchResult, error) {
	res := BatchResult{Total: len(papers)}

	for i, paper := range papers {
		if i > 0 {
			if err := sleep(ctx, pacing); err != nil {
				return res, err
			}
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		a.logger().Info("analyzing", "n", i+1, "of", len(papers), "paper", paper.ID())
		out := a.Analyze(ctx, paper, fullText)
		switch out.Status {
		case StatusAnalyzed:
			res.Results = append(res.Results, out.Result)
		case StatusSkipped:
			res.Skipped = append(res.Skipped, types.SkippedPaper{ArxivID: paper.ID(), Reason: out.Reason})
		}
	}

	a.logger().Info("analysis complete", "analyzed", len(res.Results), "parsed", res.Parsed(), "skipped", len(res.Skipped), "total", res.Total)
	return res, nil
}
