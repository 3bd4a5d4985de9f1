// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papersynth/internal/analyze"
	"github.com/pdiddy/papersynth/internal/artifacts"
	"github.com/pdiddy/papersynth/internal/history"
	"github.com/pdiddy/papersynth/internal/logging"
	"github.com/pdiddy/papersynth/internal/report"
	"github.com/pdiddy/papersynth/pkg/types"
)

type fakeSearcher struct {
	records []types.RawRecord
	err     error
}

func (f *fakeSearcher) Name() string { return "fake" }

func (f *fakeSearcher) Search(context.Context, types.SearchRequest) ([]types.RawRecord, error) {
	return f.records, f.err
}

// scriptedGenerator answers calls in order; an empty reply is a service error.
type scriptedGenerator struct {
	replies []string
	calls   int
}

func (g *scriptedGenerator) Model() string { return "scripted" }

func (g *scriptedGenerator) Generate(context.Context, string) (string, error) {
	i := g.calls
	g.calls++
	if i >= len(g.replies) || g.replies[i] == "" {
		return "", errors.New("service unavailable")
	}
	return g.replies[i], nil
}

type panickingAnalyzer struct{}

func (panickingAnalyzer) AnalyzeBatch(context.Context, []types.PaperRecord, bool, time.Duration) (analyze.BatchResult, error) {
	panic("index out of range")
}

var runTime = time.Date(2026, 4, 1, 10, 20, 30, 0, time.UTC)

func threeRecords() []types.RawRecord {
	return []types.RawRecord{
		{"entry_id": "http://arxiv.org/abs/2404.00001v1", "title": "First", "summary": "a", "authors": []string{"A1", "A2", "A3", "A4"}},
		{"entry_id": "http://arxiv.org/abs/2404.00002v1", "title": "Second", "summary": "b"},
		{"entry_id": "http://arxiv.org/abs/2404.00003v1", "title": "Third", "summary": "c"},
	}
}

type fixture struct {
	runner  *Runner
	store   *artifacts.Store
	history *history.Store
	gen     *scriptedGenerator
}

func newFixture(t *testing.T, searcher *fakeSearcher, replies ...string) fixture {
	t.Helper()
	root := t.TempDir()
	store := &artifacts.Store{DataDir: filepath.Join(root, "data"), OutputsDir: filepath.Join(root, "outputs")}

	hist, err := history.Open(filepath.Join(root, "data", "papersynth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { hist.Close() })

	gen := &scriptedGenerator{replies: replies}
	analyzer := analyze.NewAnalyzer(gen, nil, false, logging.Discard())
	analyzer.Now = func() time.Time { return runTime }

	return fixture{
		runner: &Runner{
			Searcher:    searcher,
			Analyzer:    analyzer,
			Store:       store,
			History:     hist,
			Logger:      logging.Discard(),
			KeywordTopN: 15,
			Version:     "1.0.0",
			Now:         func() time.Time { return runTime },
			NewID:       func() string { return "run-1" },
		},
		store:   store,
		history: hist,
		gen:     gen,
	}
}

const (
	replyNLP6 = `{"ai_subcategory":"NLP","methodology":"Transformer","technical_keywords":["llm","rag"],"novelty_score":6}`
	replyNLP8 = "```json\n" + `{"ai_subcategory":"NLP","methodology":"RLHF","technical_keywords":["llm"],"novelty_score":8}` + "\n```"
)

func TestRunEndToEnd(t *testing.T) {
	f := newFixture(t, &fakeSearcher{records: threeRecords()}, replyNLP6, "", replyNLP8)

	sum, err := f.runner.Run(context.Background(), Request{
		Search: types.SearchRequest{Query: "llm", Categories: []string{"cs.CL"}, MaxResults: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "run-1", sum.ExecutionSummary.RunID)
	assert.Equal(t, "20260401_102030", sum.ExecutionSummary.Timestamp)
	assert.Equal(t, types.StatusSuccess, sum.ExecutionSummary.Status)
	assert.Equal(t, 3, sum.ExecutionSummary.PapersProcessed)
	assert.Equal(t, 2, sum.ExecutionSummary.PapersAnalyzed)

	for _, p := range []string{sum.GeneratedFiles.RawPapers, sum.GeneratedFiles.AnalysisData, sum.GeneratedFiles.JSONReport, sum.GeneratedFiles.MarkdownReport} {
		assert.FileExists(t, p)
	}
	assert.FileExists(t, filepath.Join(f.store.OutputsDir, "execution_summary_20260401_102030.json"))

	rep, err := artifacts.LoadReport(sum.GeneratedFiles.JSONReport)
	require.NoError(t, err)
	assert.Equal(t, "66.7%", rep.Summary.SuccessRate)
	assert.Equal(t, 3, rep.Summary.TotalPapersFound)
	assert.InDelta(t, 7.0, rep.Trends.AvgNoveltyScore, 1e-9)
	assert.Equal(t, "NLP", rep.Insights.DominantCategory)
	assert.Equal(t, types.InnovationMedium, rep.Insights.InnovationLevel)
	assert.Equal(t, []string{"llm", "rag"}, rep.Insights.EmergingKeywords)
	assert.Equal(t, []string{"cs.CL"}, rep.Metadata.CategoriesSearched)
	require.Len(t, rep.SamplePapers, 2)
	assert.Equal(t, []string{"A1", "A2", "A3"}, rep.SamplePapers[0].Authors)

	md, err := os.ReadFile(sum.GeneratedFiles.MarkdownReport)
	require.NoError(t, err)
	assert.Contains(t, string(md), "(avg score: 7.0/10)")

	batch, err := artifacts.LoadAnalysis(sum.GeneratedFiles.AnalysisData)
	require.NoError(t, err)
	assert.Equal(t, 3, batch.TotalPapers)
	assert.Equal(t, []types.SkippedPaper{{ArxivID: "2404.00002v1", Reason: "service unavailable"}}, batch.Skipped)

	run, err := f.history.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusSuccess, run.Status)
	assert.Equal(t, "cs.CL", run.Categories)
	assert.Equal(t, types.Counts{{Label: "llm", N: 2}, {Label: "rag", N: 1}}, run.Keywords)
}

func TestRunFetchFailureWritesErrorReport(t *testing.T) {
	f := newFixture(t, &fakeSearcher{err: errors.New("connection refused")})

	_, err := f.runner.Run(context.Background(), Request{Search: types.SearchRequest{Query: "llm"}})
	require.Error(t, err)

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, StageFetch, runErr.Stage)
	assert.Contains(t, err.Error(), "connection refused")
	require.NotEmpty(t, runErr.ErrorReport)

	data, rerr := os.ReadFile(runErr.ErrorReport)
	require.NoError(t, rerr)
	assert.Contains(t, string(data), `"stage": "fetch"`)
	assert.Contains(t, string(data), "connection refused")

	reports, lerr := f.store.ListReports()
	require.NoError(t, lerr)
	assert.Empty(t, reports)
	assert.Zero(t, f.gen.calls)

	run, herr := f.history.GetRun(context.Background(), "run-1")
	require.NoError(t, herr)
	assert.Equal(t, types.StatusFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "connection refused")
}

func TestAbortWritesInitErrorReport(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	f.runner.Analyzer = nil

	err := f.runner.Abort(context.Background(), errors.New("gemini backend: no API key configured"))
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, StageInit, runErr.Stage)
	require.NotEmpty(t, runErr.ErrorReport)

	data, rerr := os.ReadFile(runErr.ErrorReport)
	require.NoError(t, rerr)
	assert.Contains(t, string(data), `"stage": "init"`)
	assert.Contains(t, string(data), "no API key configured")

	run, herr := f.history.GetRun(context.Background(), "run-1")
	require.NoError(t, herr)
	assert.Equal(t, types.StatusFailed, run.Status)
	assert.Equal(t, "gemini backend: no API key configured", run.ErrorMessage)
}

func TestRunPanicIsCaught(t *testing.T) {
	f := newFixture(t, &fakeSearcher{records: threeRecords()})
	f.runner.Analyzer = panickingAnalyzer{}

	_, err := f.runner.Run(context.Background(), Request{Search: types.SearchRequest{Query: "llm"}})

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, StageAnalyze, runErr.Stage)
	assert.Contains(t, err.Error(), "panic: index out of range")

	data, rerr := os.ReadFile(runErr.ErrorReport)
	require.NoError(t, rerr)
	assert.Contains(t, string(data), "goroutine")
	assert.Contains(t, string(data), `"papers_fetched": 3`)

	reports, lerr := f.store.ListReports()
	require.NoError(t, lerr)
	assert.Empty(t, reports)
}

func TestRunAllPapersSkipped(t *testing.T) {
	f := newFixture(t, &fakeSearcher{records: threeRecords()})

	sum, err := f.runner.Run(context.Background(), Request{Search: types.SearchRequest{Query: "llm"}})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.ExecutionSummary.PapersAnalyzed)

	rep, err := artifacts.LoadReport(sum.GeneratedFiles.JSONReport)
	require.NoError(t, err)
	assert.Equal(t, "0.0%", rep.Summary.SuccessRate)
	assert.Equal(t, types.UnknownCategory, rep.Insights.DominantCategory)
	assert.Equal(t, types.InnovationLow, rep.Insights.InnovationLevel)
}

func TestRunHistoryFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, &fakeSearcher{records: threeRecords()[:1]}, replyNLP6)
	require.NoError(t, f.history.Close())

	_, err := f.runner.Run(context.Background(), Request{Search: types.SearchRequest{Query: "llm"}})
	assert.NoError(t, err)
}

func TestReanalyze(t *testing.T) {
	f := newFixture(t, &fakeSearcher{}, replyNLP8)
	fetched := types.FetchResult{
		Status:      types.StatusSuccess,
		PapersCount: 1,
		Papers:      []types.PaperRecord{{Seq: 1, ArxivID: types.Ptr("x"), Title: types.Ptr("X")}},
		QueryUsed:   "saved",
	}

	sum, err := f.runner.Reanalyze(context.Background(), fetched, Request{})
	require.NoError(t, err)
	assert.Empty(t, sum.GeneratedFiles.RawPapers)
	assert.Equal(t, 1, sum.ExecutionSummary.PapersAnalyzed)

	rep, err := artifacts.LoadReport(sum.GeneratedFiles.JSONReport)
	require.NoError(t, err)
	assert.Equal(t, "saved", rep.Metadata.QueryUsed)
	assert.Equal(t, types.InnovationHigh, rep.Insights.InnovationLevel)
}

func TestRebuild(t *testing.T) {
	f := newFixture(t, &fakeSearcher{})
	six := 6.0
	batch := types.AnalysisBatch{
		TotalPapers: 2,
		Analyses: []types.AnalysisResult{{
			ArxivID: "x", Title: "X",
			Analysis: &types.Analysis{AISubcategory: "CV", Methodology: "GAN", NoveltyScore: &six},
		}},
	}

	jsonPath, mdPath, err := f.runner.Rebuild(batch, report.FetchMeta{Query: "q", Fetched: 2})
	require.NoError(t, err)

	rep, err := artifacts.LoadReport(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "50.0%", rep.Summary.SuccessRate)
	assert.Equal(t, "CV", rep.Insights.DominantCategory)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "# PaperSynth AI Research Report"))
}

func TestErrorChain(t *testing.T) {
	inner := errors.New("inner")
	chain := errorChain(errors.Join(inner))
	assert.Contains(t, chain, "inner")

	wrapped := errorChain(&RunError{RunID: "r", Stage: "s", Err: inner})
	assert.Equal(t, 2, strings.Count(wrapped, "\n")+1)
}
