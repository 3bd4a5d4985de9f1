// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Run statuses recorded in summaries and the run history.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// RunSummary is written to outputs/execution_summary_<ts>.json at the end
// of a successful run.
type RunSummary struct {
	ExecutionSummary ExecutionSummary `json:"execution_summary"`
	GeneratedFiles   GeneratedFiles   `json:"generated_files"`
}

// ExecutionSummary holds the outcome counters of a run.
type ExecutionSummary struct {
	RunID           string `json:"run_id"`
	Timestamp       string `json:"timestamp"`
	Status          string `json:"status"`
	PapersProcessed int    `json:"papers_processed"`
	PapersAnalyzed  int    `json:"papers_analyzed"`
}

// GeneratedFiles lists the artifact paths of a run.
type GeneratedFiles struct {
	RawPapers      string `json:"raw_papers"`
	AnalysisData   string `json:"analysis_data"`
	JSONReport     string `json:"json_report"`
	MarkdownReport string `json:"markdown_report"`
}

// ErrorReport is written to outputs/error_report_<ts>.json when a run fails.
type ErrorReport struct {
	RunID     string `json:"run_id"`
	Stage     string `json:"stage"`
	Error     string `json:"error"`
	Traceback string `json:"traceback"`
	Timestamp string `json:"timestamp"`
	Details   any    `json:"details,omitempty"`
}
