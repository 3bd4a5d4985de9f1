// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records pipeline runs in a SQLite database so past
// reports and keyword trends can be compared across runs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/papersynth/pkg/types"
)

// ErrNotFound is returned when a run id is not in the database.
var ErrNotFound = errors.New("run not found")

// Run is one row of the run history.
type Run struct {
	ID               string    `db:"id" json:"id"`
	StartedAt        time.Time `db:"started_at" json:"started_at"`
	FinishedAt       time.Time `db:"finished_at" json:"finished_at"`
	Status           string    `db:"status" json:"status"`
	Query            string    `db:"query" json:"query"`
	Categories       string    `db:"categories" json:"categories"`
	PapersFetched    int       `db:"papers_fetched" json:"papers_fetched"`
	PapersAnalyzed   int       `db:"papers_analyzed" json:"papers_analyzed"`
	AvgNoveltyScore  float64   `db:"avg_novelty_score" json:"avg_novelty_score"`
	DominantCategory string    `db:"dominant_category" json:"dominant_category"`
	InnovationLevel  string    `db:"innovation_level" json:"innovation_level"`
	JSONReport       string    `db:"json_report" json:"json_report,omitempty"`
	MarkdownReport   string    `db:"markdown_report" json:"markdown_report,omitempty"`
	ErrorMessage     string    `db:"error_message" json:"error_message,omitempty"`

	// Keywords is loaded by GetRun only.
	Keywords types.Counts `db:"-" json:"keywords,omitempty"`
}

// KeywordPoint is the count of one keyword in one run.
type KeywordPoint struct {
	RunID     string    `db:"run_id" json:"run_id"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
	Count     int       `db:"count" json:"count"`
}

// Store manages the run history database.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the database at path and its schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
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
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE TABLE IF NOT EXISTS run_keywords (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			keyword TEXT NOT NULL,
			keyword_lower TEXT NOT NULL DEFAULT '',
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, keyword)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	if err := s.migrateKeywordLower(); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_run_keywords_keyword_lower ON run_keywords(keyword_lower)`); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// foldKeyword is the case folding stored in keyword_lower. SQLite's lower()
// only folds ASCII, so folding happens here on both write and lookup.
func foldKeyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// migrateKeywordLower adds and backfills keyword_lower on databases created
// before the column existed.
func (s *Store) migrateKeywordLower() error {
	var n int
	if err := s.db.Get(&n,
		`SELECT COUNT(*) FROM pragma_table_info('run_keywords') WHERE name = 'keyword_lower'`,
	); err != nil {
		return fmt.Errorf("inspecting run_keywords: %w", err)
	}
	if n == 0 {
		if _, err := s.db.Exec(`ALTER TABLE run_keywords ADD COLUMN keyword_lower TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("adding keyword_lower: %w", err)
		}
	}

	var rows []struct {
		RunID   string `db:"run_id"`
		Keyword string `db:"keyword"`
	}
	if err := s.db.Select(&rows, `SELECT run_id, keyword FROM run_keywords WHERE keyword_lower = ''`); err != nil {
		return fmt.Errorf("reading keywords to fold: %w", err)
	}
	for _, row := range rows {
		if _, err := s.db.Exec(
			`UPDATE run_keywords SET keyword_lower = ? WHERE run_id = ? AND keyword = ?`,
			foldKeyword(row.Keyword), row.RunID, row.Keyword,
		); err != nil {
			return fmt.Errorf("folding keyword %q: %w", row.Keyword, err)
		}
	}
	return nil
}

// RecordRun inserts or replaces a run and its keyword counts.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_keywords WHERE run_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clearing keywords for %s: %w", r.ID, err)
	}

	_, err = tx.NamedExecContext(ctx, `INSERT OR REPLACE INTO runs (
			id, started_at, finished_at, status, query, categories,
			papers_fetched, papers_analyzed, avg_novelty_score,
			dominant_category, innovation_level, json_report, markdown_report, error_message
		) VALUES (
			:id, :started_at, :finished_at, :status, :query, :categories,
			:papers_fetched, :papers_analyzed, :avg_novelty_score,
			:dominant_category, :innovation_level, :json_report, :markdown_report, :error_message
		)`, r)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", r.ID, err)
	}

	for i, kw := range r.Keywords {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO run_keywords (run_id, rank, keyword, keyword_lower, count) VALUES (?, ?, ?, ?, ?)`,
			r.ID, i, kw.Label, foldKeyword(kw.Label), kw.N,
		); err != nil {
			return fmt.Errorf("inserting keyword %q: %w", kw.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", r.ID, err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, status, query, categories,
	papers_fetched, papers_analyzed, avg_novelty_score,
	dominant_category, innovation_level, json_report, markdown_report, error_message`

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var runs []Run
	if err := s.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run with its keyword counts.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.GetContext(ctx, &r, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("reading run %s: %w", id, err)
	}

	var rows []struct {
		Keyword string `db:"keyword"`
		Count   int    `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT keyword, count FROM run_keywords WHERE run_id = ? ORDER BY rank`, id,
	); err != nil {
		return Run{}, fmt.Errorf("reading keywords for %s: %w", id, err)
	}
	for _, row := range rows {
		r.Keywords = append(r.Keywords, types.Count{Label: row.Keyword, N: row.Count})
	}
	return r, nil
}

// KeywordHistory returns the count of keyword in every run that mentioned
// it, oldest first. Matching is case-insensitive.
func (s *Store) KeywordHistory(ctx context.Context, keyword string) ([]KeywordPoint, error) {
	var points []KeywordPoint
	err := s.db.SelectContext(ctx, &points, `
		SELECT k.run_id, r.started_at, k.count
		FROM run_keywords k JOIN runs r ON r.id = k.run_id
		WHERE k.keyword_lower = ?
		ORDER BY r.started_at`, foldKeyword(keyword))
	if err != nil {
		return nil, fmt.Errorf("keyword history for %q: %w", keyword, err)
	}
	return points, nil
}
