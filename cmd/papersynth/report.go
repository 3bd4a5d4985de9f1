// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papersynth/internal/artifacts"
	"github.com/pdiddy/papersynth/internal/pipeline"
	"github.com/pdiddy/papersynth/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report FILE",
	Short: "Rebuild reports from a saved analyzed_papers file",
	Long: `Report regenerates the JSON and Markdown reports from a
data/analyzed_papers_<ts>.json file without calling any service.

The fetch metadata (query, categories, number fetched) comes from the
matching fetched_papers file given with --fetched. Without it the batch's
total_papers is used as the fetched count.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("fetched", "", "fetched_papers file the analysis came from")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	batch, err := artifacts.LoadAnalysis(args[0])
	if err != nil {
		return err
	}

	meta := report.FetchMeta{Fetched: batch.TotalPapers}
	if path, _ := cmd.Flags().GetString("fetched"); path != "" {
		fetched, err := artifacts.LoadFetch(path)
		if err != nil {
			return err
		}
		meta = report.MetaFromFetch(fetched)
	}

	runner := &pipeline.Runner{
		Store:       artifacts.NewStore(cfg.Output),
		Logger:      logger,
		KeywordTopN: cfg.Output.KeywordTopN,
		Version:     cfg.Output.Version,
	}
	jsonPath, mdPath, err := runner.Rebuild(batch, meta)
	if err != nil {
		return err
	}

	fmt.Printf("JSON report:     %s\nMarkdown report: %s\n", jsonPath, mdPath)
	return nil
}
