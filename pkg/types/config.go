// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429/503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// FetchConfig holds settings for the search stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Query is the free-text search expression.
	Query string `json:"query" yaml:"query" mapstructure:"query"`

	// Categories restricts results to these arXiv categories.
	Categories []string `json:"categories" yaml:"categories" mapstructure:"categories"`

	// MaxResults is the number of papers requested (default 15).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// PresetsFile is the YAML file holding named query presets.
	PresetsFile string `json:"presets_file" yaml:"presets_file" mapstructure:"presets_file"`
}

// AIBackend names a text-analysis service implementation.
type AIBackend string

const (
	BackendAnthropic AIBackend = "anthropic"
	BackendOpenAI    AIBackend = "openai"
	BackendGemini    AIBackend = "gemini"
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Backend selects the service: anthropic, openai or gemini.
	Backend AIBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the AI model identifier.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the API endpoint (OpenAI-compatible backends).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxTokens caps the response length (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// AnalysisConfig holds settings for the analysis stage.
type AnalysisConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// FullText embeds the ar5iv rendering of each paper instead of the abstract only.
	FullText bool `json:"full_text" yaml:"full_text" mapstructure:"full_text"`

	// MaxFullTextChars truncates the embedded full text (default 60000).
	MaxFullTextChars int `json:"max_fulltext_chars" yaml:"max_fulltext_chars" mapstructure:"max_fulltext_chars"`

	// Pacing is the minimum delay between consecutive analysis calls (default 4.1s).
	Pacing time.Duration `json:"pacing" yaml:"pacing" mapstructure:"pacing"`

	// RepairJSON retries a failed decode once after repairing the JSON text.
	RepairJSON bool `json:"repair_json" yaml:"repair_json" mapstructure:"repair_json"`
}

// OutputConfig holds settings for report assembly and artifact storage.
type OutputConfig struct {
	// DataDir receives the raw fetch and analysis artifacts.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// OutputsDir receives reports, run summaries and error reports.
	OutputsDir string `json:"outputs_dir" yaml:"outputs_dir" mapstructure:"outputs_dir"`

	// HistoryDB is the SQLite run history path; empty disables history.
	HistoryDB string `json:"history_db" yaml:"history_db" mapstructure:"history_db"`

	// KeywordTopN truncates the report keyword trend (default 15).
	KeywordTopN int `json:"keyword_top_n" yaml:"keyword_top_n" mapstructure:"keyword_top_n"`

	// Version is the version tag written into report metadata.
	Version string `json:"version" yaml:"version" mapstructure:"version"`
}

// DashboardConfig holds settings for the report dashboard.
type DashboardConfig struct {
	// Addr is the listen address (default ":8501").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups all stage configurations.
type Config struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Analysis  AnalysisConfig  `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Output    OutputConfig    `json:"output" yaml:"output" mapstructure:"output"`
	Dashboard DashboardConfig `json:"dashboard" yaml:"dashboard" mapstructure:"dashboard"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    60 * time.Second,
				UserAgent:  "papersynth/1.0",
				MaxRetries: 5,
			},
			Query:       "large language models OR transformers OR attention mechanism",
			Categories:  []string{"cs.AI", "cs.LG", "cs.CL"},
			MaxResults:  15,
			PresetsFile: "presets.yaml",
		},
		Analysis: AnalysisConfig{
			AIConfig: AIConfig{
				Backend:   BackendGemini,
				MaxTokens: 1024,
			},
			MaxFullTextChars: 60000,
			Pacing:           4100 * time.Millisecond,
		},
		Output: OutputConfig{
			DataDir:     "data",
			OutputsDir:  "outputs",
			HistoryDB:   "data/papersynth.db",
			KeywordTopN: 15,
			Version:     "1.0.0",
		},
		Dashboard: DashboardConfig{
			Addr: ":8501",
		},
		LogLevel: "info",
	}
}
