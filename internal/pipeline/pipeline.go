// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the papersynth stages in order: fetch, analyze,
// aggregate, assemble and persist. A run ends with either a complete report
// pair plus run summary, or an error report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pdiddy/papersynth/internal/analyze"
	"github.com/pdiddy/papersynth/internal/artifacts"
	"github.com/pdiddy/papersynth/internal/fetch"
	"github.com/pdiddy/papersynth/internal/history"
	"github.com/pdiddy/papersynth/internal/logging"
	"github.com/pdiddy/papersynth/internal/report"
	"github.com/pdiddy/papersynth/internal/trends"
	"github.com/pdiddy/papersynth/pkg/types"
)

// Stage names recorded in error reports.
const (
	StageInit      = "init"
	StageFetch     = "fetch"
	StageAnalyze   = "analyze"
	StageAggregate = "aggregate"
	StageReport    = "report"
	StagePersist   = "persist"
)

// BatchAnalyzer analyzes a batch of papers.
type BatchAnalyzer interface {
	AnalyzeBatch(ctx context.Context, papers []types.PaperRecord, fullText bool, pacing time.Duration) (analyze.BatchResult, error)
}

// Recorder stores run history.
type Recorder interface {
	RecordRun(ctx context.Context, r history.Run) error
}

// Request holds the per-run parameters.
type Request struct {
	Search   types.SearchRequest
	FullText bool
	Pacing   time.Duration
}

// RunError is returned when a run fails. ErrorReport is the path of the
// error artifact, empty if it could not be written.
type RunError struct {
	RunID       string
	Stage       string
	ErrorReport string
	Err         error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s failed at %s: %v", e.RunID, e.Stage, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Runner wires the stages together.
type Runner struct {
	Searcher fetch.Searcher
	Analyzer BatchAnalyzer
	Store    *artifacts.Store

	// History is optional.
	History Recorder

	Logger      *log.Logger
	KeywordTopN int
	Version     string

	Now   func() time.Time
	NewID func() string
}

// run carries the state of one run across stages.
type run struct {
	id      string
	ts      string
	started time.Time
	stage   string
	fetched types.FetchResult
	files   types.GeneratedFiles
}

// Run executes the whole pipeline.
func (r *Runner) Run(ctx context.Context, req Request) (types.RunSummary, error) {
	st := r.begin()
	return r.guard(ctx, st, func() (types.RunSummary, error) {
		st.stage = StageFetch
		r.logger().Info("fetching papers", "query", req.Search.Query, "categories", strings.Join(req.Search.Categories, ","), "max", req.Search.MaxResults)
		fetched, err := fetch.Fetch(ctx, r.Searcher, req.Search, st.started)
		if err != nil {
			return types.RunSummary{}, err
		}
		r.logger().Info("fetched papers", "count", fetched.PapersCount)

		st.stage = StagePersist
		path, err := r.Store.WriteFetch(st.ts, fetched)
		if err != nil {
			return types.RunSummary{}, err
		}
		st.fetched = fetched
		st.files.RawPapers = path

		return r.analyzeAndReport(ctx, st, req)
	})
}

// Reanalyze runs the pipeline from the analysis stage on a saved fetch
// result.
func (r *Runner) Reanalyze(ctx context.Context, fetched types.FetchResult, req Request) (types.RunSummary, error) {
	st := r.begin()
	st.fetched = fetched
	return r.guard(ctx, st, func() (types.RunSummary, error) {
		return r.analyzeAndReport(ctx, st, req)
	})
}

// Rebuild regenerates both report renderings from a saved analysis batch.
// meta describes the fetch the batch came from.
func (r *Runner) Rebuild(batch types.AnalysisBatch, meta report.FetchMeta) (jsonPath, mdPath string, err error) {
	now := r.now()
	summary := trends.Aggregate(batch.Analyses, r.keywordTopN())
	rep := report.Build(meta, batch.Analyses, summary, now, r.Version)
	return r.writeReport(artifacts.Timestamp(now), rep)
}

func (r *Runner) analyzeAndReport(ctx context.Context, st *run, req Request) (types.RunSummary, error) {
	st.stage = StageAnalyze
	batch, err := r.Analyzer.AnalyzeBatch(ctx, st.fetched.Papers, req.FullText, req.Pacing)
	if err != nil {
		return types.RunSummary{}, err
	}

	st.stage = StagePersist
	path, err := r.Store.WriteAnalysis(st.ts, batch.Batch(r.now()))
	if err != nil {
		return types.RunSummary{}, err
	}
	st.files.AnalysisData = path

	st.stage = StageAggregate
	summary := trends.Aggregate(batch.Results, r.keywordTopN())

	st.stage = StageReport
	rep := report.Build(report.MetaFromFetch(st.fetched), batch.Results, summary, r.now(), r.Version)
	jsonPath, mdPath, err := r.writeReport(st.ts, rep)
	if err != nil {
		return types.RunSummary{}, err
	}
	st.files.JSONReport = jsonPath
	st.files.MarkdownReport = mdPath

	st.stage = StagePersist
	runSummary := types.RunSummary{
		ExecutionSummary: types.ExecutionSummary{
			RunID:           st.id,
			Timestamp:       st.ts,
			Status:          types.StatusSuccess,
			PapersProcessed: len(st.fetched.Papers),
			PapersAnalyzed:  len(batch.Results),
		},
		GeneratedFiles: st.files,
	}
	if _, err := r.Store.WriteSummary(st.ts, runSummary); err != nil {
		return types.RunSummary{}, err
	}

	r.record(ctx, history.Run{
		ID:               st.id,
		StartedAt:        st.started,
		FinishedAt:       r.now(),
		Status:           types.StatusSuccess,
		Query:            st.fetched.QueryUsed,
		Categories:       strings.Join(st.fetched.CategoriesSearched, ","),
		PapersFetched:    len(st.fetched.Papers),
		PapersAnalyzed:   len(batch.Results),
		AvgNoveltyScore:  summary.AvgNoveltyScore,
		DominantCategory: rep.Insights.DominantCategory,
		InnovationLevel:  rep.Insights.InnovationLevel,
		JSONReport:       jsonPath,
		MarkdownReport:   mdPath,
		Keywords:         summary.TopKeywords,
	})

	r.logger().Info("run complete", "run", st.id, "report", mdPath,
		"analyzed", len(batch.Results), "skipped", len(batch.Skipped),
		"dominant", rep.Insights.DominantCategory, "innovation", rep.Insights.InnovationLevel)
	return runSummary, nil
}

func (r *Runner) writeReport(ts string, rep types.Report) (string, string, error) {
	jsonData, err := report.RenderJSON(rep)
	if err != nil {
		return "", "", err
	}
	markdown, err := report.RenderMarkdown(rep)
	if err != nil {
		return "", "", err
	}
	return r.Store.WriteReport(ts, jsonData, markdown)
}

// Abort reports a run that failed before any stage started, such as a
// missing API key or an unknown preset. It writes the error report and
// records the failed run like any other failure.
func (r *Runner) Abort(ctx context.Context, cause error) error {
	return r.fail(ctx, r.begin(), cause, errorChain(cause))
}

func (r *Runner) begin() *run {
	started := r.now()
	return &run{
		id:      r.newID(),
		ts:      artifacts.Timestamp(started),
		started: started,
		stage:   StageInit,
	}
}

// guard runs fn and converts any error or panic into an error report.
func (r *Runner) guard(ctx context.Context, st *run, fn func() (types.RunSummary, error)) (sum types.RunSummary, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = r.fail(ctx, st, fmt.Errorf("panic: %v", p), string(debug.Stack()))
			sum = types.RunSummary{}
		}
	}()

	sum, err = fn()
	if err != nil {
		return types.RunSummary{}, r.fail(ctx, st, err, errorChain(err))
	}
	return sum, nil
}

// fail writes the error report, records the failed run and returns a
// *RunError.
func (r *Runner) fail(ctx context.Context, st *run, cause error, trace string) error {
	runErr := &RunError{RunID: st.id, Stage: st.stage, Err: cause}
	r.logger().Error("run failed", "run", st.id, "stage", st.stage, "err", cause)

	details := map[string]any{
		"papers_fetched": len(st.fetched.Papers),
	}
	if st.fetched.QueryUsed != "" {
		details["query"] = st.fetched.QueryUsed
	}
	path, werr := r.Store.WriteError(st.ts, types.ErrorReport{
		RunID:     st.id,
		Stage:     st.stage,
		Error:     cause.Error(),
		Traceback: trace,
		Timestamp: r.now().Format(time.RFC3339),
		Details:   details,
	})
	if werr != nil {
		r.logger().Error("could not write error report", "err", werr)
	} else {
		runErr.ErrorReport = path
		r.logger().Info("error report written", "path", path)
	}

	r.record(context.WithoutCancel(ctx), history.Run{
		ID:            st.id,
		StartedAt:     st.started,
		FinishedAt:    r.now(),
		Status:        types.StatusFailed,
		Query:         st.fetched.QueryUsed,
		Categories:    strings.Join(st.fetched.CategoriesSearched, ","),
		PapersFetched: len(st.fetched.Papers),
		ErrorMessage:  cause.Error(),
	})
	return runErr
}

// record stores a run in the history. Failures are logged, not returned.
func (r *Runner) record(ctx context.Context, h history.Run) {
	if r.History == nil {
		return
	}
	if err := r.History.RecordRun(ctx, h); err != nil {
		r.logger().Warn("could not record run history", "run", h.ID, "err", err)
	}
}

// errorChain lists err and each error it wraps, one per line.
func errorChain(err error) string {
	var lines []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		lines = append(lines, fmt.Sprintf("%T: %v", e, e))
	}
	return strings.Join(lines, "\n")
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		r.Logger = logging.Discard()
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Runner) newID() string {
	if r.NewID == nil {
		return uuid.NewString()
	}
	return r.NewID()
}

func (r *Runner) keywordTopN() int {
	if r.KeywordTopN <= 0 {
		return trends.DefaultKeywordTopN
	}
	return r.KeywordTopN
}
