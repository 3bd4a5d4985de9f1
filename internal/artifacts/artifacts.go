// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifacts persists the per-run files of the pipeline: fetched
// papers, analysis results, reports, run summaries and error reports.
// Every file name carries the run timestamp (YYYYMMDD_HHMMSS) and every
// write is atomic.
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/papersynth/pkg/types"
)

// TimestampLayout formats run timestamps in file names.
const TimestampLayout = "20060102_150405"

const (
	fetchedPrefix  = "fetched_papers_"
	analyzedPrefix = "analyzed_papers_"
	reportPrefix   = "papersynth_report_"
	summaryPrefix  = "execution_summary_"
	errorPrefix    = "error_report_"
)

// ErrNoReports is returned when the outputs directory holds no report.
var ErrNoReports = errors.New("no reports found")

// Timestamp formats t for use in artifact names.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Store writes and reads artifacts under a data and an outputs directory.
type Store struct {
	DataDir    string
	OutputsDir string
}

// NewStore returns a store for cfg.
func NewStore(cfg types.OutputConfig) *Store {
	return &Store{DataDir: cfg.DataDir, OutputsDir: cfg.OutputsDir}
}

// WriteFetch saves the fetch result to data/fetched_papers_<ts>.json.
func (s *Store) WriteFetch(ts string, f types.FetchResult) (string, error) {
	return writeJSON(filepath.Join(s.DataDir, fetchedPrefix+ts+".json"), f)
}

// WriteAnalysis saves the analysis batch to data/analyzed_papers_<ts>.json.
func (s *Store) WriteAnalysis(ts string, b types.AnalysisBatch) (string, error) {
	return writeJSON(s.AnalysisPath(ts), b)
}

// AnalysisPath returns the path of the analysis batch saved for run ts.
func (s *Store) AnalysisPath(ts string) string {
	return filepath.Join(s.DataDir, analyzedPrefix+ts+".json")
}

// WriteReport saves both report renderings and returns their paths. If the
// Markdown write fails the JSON file is removed again.
func (s *Store) WriteReport(ts string, jsonData []byte, markdown string) (jsonPath, mdPath string, err error) {
	jsonPath = filepath.Join(s.OutputsDir, reportPrefix+ts+".json")
	mdPath = filepath.Join(s.OutputsDir, reportPrefix+ts+".md")
	if err := WriteFileAtomic(jsonPath, jsonData); err != nil {
		return "", "", err
	}
	if err := WriteFileAtomic(mdPath, []byte(markdown)); err != nil {
		os.Remove(jsonPath)
		return "", "", err
	}
	return jsonPath, mdPath, nil
}

// WriteSummary saves the run summary to outputs/execution_summary_<ts>.json.
func (s *Store) WriteSummary(ts string, sum types.RunSummary) (string, error) {
	return writeJSON(filepath.Join(s.OutputsDir, summaryPrefix+ts+".json"), sum)
}

// WriteError saves an error report to outputs/error_report_<ts>.json.
func (s *Store) WriteError(ts string, e types.ErrorReport) (string, error) {
	return writeJSON(filepath.Join(s.OutputsDir, errorPrefix+ts+".json"), e)
}

// ReportFile locates one saved report.
type ReportFile struct {
	// Name is the file name without extension, e.g. papersynth_report_20260101_120000.
	Name         string
	Timestamp    string
	JSONPath     string
	MarkdownPath string
}

// Time parses the report timestamp in the local zone.
func (r ReportFile) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local)
}

// ListReports returns the saved JSON reports, newest first. A missing
// outputs directory yields no reports and no error.
func (s *Store) ListReports() ([]ReportFile, error) {
	entries, err := os.ReadDir(s.OutputsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading outputs directory %s: %w", s.OutputsDir, err)
	}

	var reports []ReportFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, reportPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		base := strings.TrimSuffix(name, ".json")
		rf := ReportFile{
			Name:      base,
			Timestamp: strings.TrimPrefix(base, reportPrefix),
			JSONPath:  filepath.Join(s.OutputsDir, name),
		}
		md := filepath.Join(s.OutputsDir, base+".md")
		if _, err := os.Stat(md); err == nil {
			rf.MarkdownPath = md
		}
		reports = append(reports, rf)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Timestamp > reports[j].Timestamp })
	return reports, nil
}

// FindReport returns the report with the given name (with or without the
// .json extension).
func (s *Store) FindReport(name string) (ReportFile, error) {
	name = strings.TrimSuffix(name, ".json")
	reports, err := s.ListReports()
	if err != nil {
		return ReportFile{}, err
	}
	for _, r := range reports {
		if r.Name == name {
			return r, nil
		}
	}
	return ReportFile{}, fmt.Errorf("report %q: %w", name, os.ErrNotExist)
}

// LatestReport returns the newest saved report.
func (s *Store) LatestReport() (ReportFile, error) {
	reports, err := s.ListReports()
	if err != nil {
		return ReportFile{}, err
	}
	if len(reports) == 0 {
		return ReportFile{}, ErrNoReports
	}
	return reports[0], nil
}

// LoadReport reads a JSON report.
func LoadReport(path string) (types.Report, error) {
	var r types.Report
	if err := readJSON(path, &r); err != nil {
		return types.Report{}, err
	}
	return r, nil
}

// LoadFetch reads a fetched_papers file.
func LoadFetch(path string) (types.FetchResult, error) {
	var f types.FetchResult
	if err := readJSON(path, &f); err != nil {
		return types.FetchResult{}, err
	}
	return f, nil
}

// LoadAnalysis reads an analyzed_papers file.
func LoadAnalysis(path string) (types.AnalysisBatch, error) {
	var b types.AnalysisBatch
	if err := readJSON(path, &b); err != nil {
		return types.AnalysisBatch{}, err
	}
	return b, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, creating the directory if needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".papersynth-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
