// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papersynth/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "papersynth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(id string, started time.Time, keywords types.Counts) Run {
	return Run{
		ID:               id,
		StartedAt:        started,
		FinishedAt:       started.Add(time.Minute),
		Status:           types.StatusSuccess,
		Query:            "llm",
		Categories:       "cs.AI,cs.CL",
		PapersFetched:    3,
		PapersAnalyzed:   2,
		AvgNoveltyScore:  7,
		DominantCategory: "NLP",
		InnovationLevel:  types.InnovationMedium,
		JSONReport:       "outputs/papersynth_report_x.json",
		Keywords:         keywords,
	}
}

var t0 = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func TestRecordAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := testRun("run-1", t0, types.Counts{{Label: "llm", N: 3}, {Label: "rag", N: 1}})
	require.NoError(t, s.RecordRun(ctx, in))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, in.StartedAt.Equal(got.StartedAt))
	assert.True(t, in.FinishedAt.Equal(got.FinishedAt))
	assert.Equal(t, "NLP", got.DominantCategory)
	assert.Equal(t, 7.0, got.AvgNoveltyScore)
	assert.Equal(t, 3, got.PapersFetched)
	assert.Equal(t, types.Counts{{Label: "llm", N: 3}, {Label: "rag", N: 1}}, got.Keywords)
}

func TestRecordRunReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordRun(ctx, testRun("run-1", t0, types.Counts{{Label: "old", N: 1}})))
	updated := testRun("run-1", t0, types.Counts{{Label: "new", N: 2}})
	updated.Status = types.StatusFailed
	updated.ErrorMessage = "boom"
	require.NoError(t, s.RecordRun(ctx, updated))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, got.Status)
	assert.Equal(t, "boom", got.ErrorMessage)
	assert.Equal(t, types.Counts{{Label: "new", N: 2}}, got.Keywords)
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.RecordRun(ctx, testRun(id, t0.Add(time.Duration(i)*time.Hour), nil)))
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "a", runs[2].ID)
	assert.Nil(t, runs[0].Keywords)

	runs, err = s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestListRunsEmpty(t *testing.T) {
	s := openTestStore(t)
	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestKeywordHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordRun(ctx, testRun("r2", t0.Add(24*time.Hour), types.Counts{{Label: "LLM", N: 5}})))
	require.NoError(t, s.RecordRun(ctx, testRun("r1", t0, types.Counts{{Label: "llm", N: 2}, {Label: "rag", N: 1}})))
	require.NoError(t, s.RecordRun(ctx, testRun("r3", t0.Add(48*time.Hour), types.Counts{{Label: "rag", N: 4}})))

	points, err := s.KeywordHistory(ctx, "llm")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "r1", points[0].RunID)
	assert.Equal(t, 2, points[0].Count)
	assert.Equal(t, "r2", points[1].RunID)
	assert.Equal(t, 5, points[1].Count)

	points, err = s.KeywordHistory(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestOpenReusesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordRun(context.Background(), testRun("x", t0, nil)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.GetRun(context.Background(), "x")
	assert.NoError(t, err)
}

func TestKeywordHistoryFoldsNonASCII(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordRun(ctx, testRun("r1", t0, types.Counts{{Label: "Äquivarianz", N: 2}})))
	require.NoError(t, s.RecordRun(ctx, testRun("r2", t0.Add(time.Hour), types.Counts{{Label: "ÉQUIVARIANCE", N: 1}})))

	points, err := s.KeywordHistory(ctx, "äquivarianz")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "r1", points[0].RunID)

	points, err = s.KeywordHistory(ctx, " équivariance ")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "r2", points[0].RunID)
}

func TestOpenBackfillsFoldedKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE runs (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL,
			status TEXT NOT NULL,
			query TEXT NOT NULL DEFAULT '',
			categories TEXT NOT NULL DEFAULT '',
			papers_fetched INTEGER NOT NULL DEFAULT 0,
			papers_analyzed INTEGER NOT NULL DEFAULT 0,
			avg_novelty_score REAL NOT NULL DEFAULT 0,
			dominant_category TEXT NOT NULL DEFAULT '',
			innovation_level TEXT NOT NULL DEFAULT '',
			json_report TEXT NOT NULL DEFAULT '',
			markdown_report TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE run_keywords (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			keyword TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, keyword)
		)`,
		`INSERT INTO runs (id, started_at, finished_at, status) VALUES ('old', '2026-01-10 09:00:00', '2026-01-10 09:01:00', 'success')`,
		`INSERT INTO run_keywords (run_id, rank, keyword, count) VALUES ('old', 0, 'Äquivarianz', 4)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	points, err := s.KeywordHistory(context.Background(), "ÄQUIVARIANZ")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "old", points[0].RunID)
	assert.Equal(t, 4, points[0].Count)
}
