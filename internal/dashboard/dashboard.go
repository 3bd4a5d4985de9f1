// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dashboard serves saved reports and the run history over HTTP.
// Every request reads the artifacts directory and the history database
// afresh; the server holds no report state of its own.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/papersynth/internal/artifacts"
	"github.com/pdiddy/papersynth/internal/history"
	"github.com/pdiddy/papersynth/internal/logging"
	"github.com/pdiddy/papersynth/internal/report"
	"github.com/pdiddy/papersynth/internal/trends"
)

const defaultRunLimit = 50

// RunLister lists recorded runs, newest first.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]history.Run, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	Store *artifacts.Store

	// History is optional; /api/runs returns an empty list without it.
	History RunLister

	Logger *log.Logger
}

// New returns a Server over store and hist.
func New(store *artifacts.Store, hist RunLister, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{Store: store, History: hist, Logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleLatest)
	r.Get("/health", s.handleHealth)
	r.Get("/reports", s.handleReports)
	r.Get("/reports/{name}", s.handleReport)
	r.Get("/api/reports/latest", s.handleLatestJSON)
	r.Get("/api/runs", s.handleRuns)
	r.Get("/api/trends", s.handleTrends)
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("dashboard listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("dashboard shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	rf, err := s.Store.LatestReport()
	if errors.Is(err, artifacts.ErrNoReports) {
		s.render(w, http.StatusOK, emptyTmpl, nil)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.renderReport(w, rf)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rf, err := s.Store.FindReport(chi.URLParam(r, "name"))
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.renderReport(w, rf)
}

func (s *Server) handleReports(w http.ResponseWriter, _ *http.Request) {
	reports, err := s.Store.ListReports()
	if err != nil {
		s.serverError(w, err)
		return
	}

	rows := make([]reportRow, 0, len(reports))
	for _, rf := range reports {
		row := reportRow{Name: rf.Name, When: rf.Timestamp}
		if t, err := rf.Time(); err == nil {
			row.When = t.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, row)
	}
	s.render(w, http.StatusOK, listTmpl, rows)
}

func (s *Server) handleLatestJSON(w http.ResponseWriter, _ *http.Request) {
	rf, err := s.Store.LatestReport()
	if errors.Is(err, artifacts.ErrNoReports) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	rep, err := artifacts.LoadReport(rf.JSONPath)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeJSON(w, http.StatusOK, []history.Run{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	runs, err := s.History.ListRuns(ctx, clampInt(r.URL.Query().Get("limit"), defaultRunLimit, 1000))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// trendsResponse breaks down the analyses behind one report.
type trendsResponse struct {
	Report        string                 `json:"report"`
	Keywords      trends.KeywordView     `json:"keywords"`
	Methodologies trends.MethodologyView `json:"methodologies"`
	Categories    trends.CategoryView    `json:"categories"`
	Keyword       *keywordCount          `json:"keyword,omitempty"`
}

type keywordCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// handleTrends serves the keyword, methodology and category views of the
// analysis batch saved with a report: ?report=NAME, or the newest report.
// ?keyword=K adds that keyword's count.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	var (
		rf  artifacts.ReportFile
		err error
	)
	if name := r.URL.Query().Get("report"); name != "" {
		rf, err = s.Store.FindReport(name)
	} else {
		rf, err = s.Store.LatestReport()
	}
	if errors.Is(err, artifacts.ErrNoReports) || errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	batch, err := artifacts.LoadAnalysis(s.Store.AnalysisPath(rf.Timestamp))
	if errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no analysis saved for " + rf.Name})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := trendsResponse{
		Report:        rf.Name,
		Keywords:      trends.Keywords(batch.Analyses),
		Methodologies: trends.Methodologies(batch.Analyses),
		Categories:    trends.Categories(batch.Analyses),
	}
	if kw := strings.TrimSpace(r.URL.Query().Get("keyword")); kw != "" {
		n, _ := resp.Keywords.KeywordDistribution.Get(kw)
		resp.Keyword = &keywordCount{Label: kw, Count: n}
	}
	writeJSON(w, http.StatusOK, resp)
}

// renderReport shows the saved Markdown rendering, or re-renders from the
// JSON report when the Markdown file is missing.
func (s *Server) renderReport(w http.ResponseWriter, rf artifacts.ReportFile) {
	rep, err := artifacts.LoadReport(rf.JSONPath)
	if err != nil {
		s.serverError(w, err)
		return
	}

	var body string
	if rf.MarkdownPath != "" {
		md, rerr := os.ReadFile(rf.MarkdownPath)
		if rerr != nil {
			s.serverError(w, rerr)
			return
		}
		body, err = report.MarkdownToHTML(string(md))
	} else {
		body, err = report.RenderHTML(rep)
	}
	if err != nil {
		s.serverError(w, err)
		return
	}

	s.render(w, http.StatusOK, reportTmpl, newReportPage(rf.Name, rep, body))
}

func (s *Server) render(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "page", data); err != nil {
		s.Logger.Error("rendering page", "err", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.Logger.Error("dashboard request failed", "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func clampInt(raw string, def, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

var _ RunLister = (*history.Store)(nil)
