// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the papersynth CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papersynth/internal/logging"
	"github.com/pdiddy/papersynth/internal/secrets"
	"github.com/pdiddy/papersynth/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

var rootCmd = &cobra.Command{
	Use:   "papersynth",
	Short: "Fetch, analyze and summarize recent AI research papers",
	Long: `papersynth searches arXiv for recent papers, asks a language model to
classify each one, aggregates the answers into trends and writes JSON and
Markdown reports. A small dashboard serves the saved reports.

The run subcommand executes the whole pipeline; analyze and report restart
it from saved artifacts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./papersynth.yaml or ~/.config/papersynth/papersynth.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	_ = viper.BindPFlag("log_level_debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment from .env")
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("papersynth")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "papersynth"))
		}
	}

	setDefaults(viper.GetViper(), types.DefaultConfig())

	viper.SetEnvPrefix("PAPERSYNTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so that environment
// variables are seen by Unmarshal.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.max_retries", d.Fetch.MaxRetries)
	v.SetDefault("fetch.query", d.Fetch.Query)
	v.SetDefault("fetch.categories", d.Fetch.Categories)
	v.SetDefault("fetch.max_results", d.Fetch.MaxResults)
	v.SetDefault("fetch.presets_file", d.Fetch.PresetsFile)

	v.SetDefault("analysis.backend", string(d.Analysis.Backend))
	v.SetDefault("analysis.model", d.Analysis.Model)
	v.SetDefault("analysis.api_key", d.Analysis.APIKey)
	v.SetDefault("analysis.base_url", d.Analysis.BaseURL)
	v.SetDefault("analysis.max_tokens", d.Analysis.MaxTokens)
	v.SetDefault("analysis.full_text", d.Analysis.FullText)
	v.SetDefault("analysis.max_fulltext_chars", d.Analysis.MaxFullTextChars)
	v.SetDefault("analysis.pacing", d.Analysis.Pacing)
	v.SetDefault("analysis.repair_json", d.Analysis.RepairJSON)

	v.SetDefault("output.data_dir", d.Output.DataDir)
	v.SetDefault("output.outputs_dir", d.Output.OutputsDir)
	v.SetDefault("output.history_db", d.Output.HistoryDB)
	v.SetDefault("output.keyword_top_n", d.Output.KeywordTopN)
	v.SetDefault("output.version", d.Output.Version)

	v.SetDefault("dashboard.addr", d.Dashboard.Addr)
	v.SetDefault("log_level", d.LogLevel)
}

// loadConfig decodes the merged configuration and resolves the API key
// for the selected backend.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if v.GetBool("log_level_debug") {
		cfg.LogLevel = "debug"
	}
	if cfg.Analysis.APIKey == "" {
		cfg.Analysis.APIKey = secrets.APIKey(loadedSecrets, cfg.Analysis.Backend)
	}
	return cfg, nil
}

func newLogger(cfg types.Config) *log.Logger {
	return logging.New(os.Stderr, cfg.LogLevel)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
