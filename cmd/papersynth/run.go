// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papersynth/internal/fetch"
	"github.com/pdiddy/papersynth/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, analyze and report on recent papers",
	Long: `Run executes the whole pipeline: search arXiv, analyze each paper with the
configured language model, aggregate trends and write the JSON and Markdown
reports to the outputs directory. A failure at any stage writes an
error report and exits non-zero.

A --preset names an entry in the presets file; explicit flags override it.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("query", "", "free-text search query")
	runCmd.Flags().StringSlice("categories", nil, "arXiv categories (comma-separated)")
	runCmd.Flags().Int("max-results", 0, "number of papers to fetch (default 15)")
	runCmd.Flags().String("preset", "", "named query preset")
	runCmd.Flags().Bool("full-text", false, "analyze ar5iv full text instead of abstracts")
	runCmd.Flags().String("backend", "", "analysis backend: anthropic, openai or gemini")
	runCmd.Flags().String("model", "", "model identifier")
	runCmd.Flags().Duration("pacing", 0, "minimum delay between analysis calls (default 4.1s)")

	_ = viper.BindPFlag("fetch.query", runCmd.Flags().Lookup("query"))
	_ = viper.BindPFlag("fetch.categories", runCmd.Flags().Lookup("categories"))
	_ = viper.BindPFlag("fetch.max_results", runCmd.Flags().Lookup("max-results"))
	_ = viper.BindPFlag("analysis.full_text", runCmd.Flags().Lookup("full-text"))
	_ = viper.BindPFlag("analysis.backend", runCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("analysis.model", runCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("analysis.pacing", runCmd.Flags().Lookup("pacing"))

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	return runPipeline(cmd, viper.GetViper())
}

// runPipeline runs the whole pipeline with the configuration held in v.
// Setup failures are written as error reports like stage failures.
func runPipeline(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	runner, closeFn := newRunner(cfg, logger)
	defer closeFn()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := request(cfg)
	if name, _ := cmd.Flags().GetString("preset"); name != "" {
		req.Search, err = applyPreset(cmd, cfg.Fetch.PresetsFile, name, req.Search)
		if err != nil {
			return reportRunError(runner.Abort(ctx, err))
		}
	}
	if err := attachAnalyzer(runner, cfg, logger); err != nil {
		return reportRunError(runner.Abort(ctx, err))
	}

	sum, err := runner.Run(ctx, req)
	if err != nil {
		return reportRunError(err)
	}

	printSummary(sum)
	return nil
}

// applyPreset overlays the named preset onto req. Flags the user set
// explicitly keep their values.
func applyPreset(cmd *cobra.Command, path, name string, req types.SearchRequest) (types.SearchRequest, error) {
	pf, err := fetch.LoadPresets(path)
	if err != nil {
		return req, err
	}
	p, err := pf.Lookup(name)
	if err != nil {
		return req, fmt.Errorf("%w (available: %v)", err, pf.Names())
	}

	out := p.Apply(req)
	if cmd.Flags().Changed("query") {
		out.Query = req.Query
	}
	if cmd.Flags().Changed("categories") {
		out.Categories = req.Categories
	}
	if cmd.Flags().Changed("max-results") {
		out.MaxResults = req.MaxResults
	}
	return out, nil
}

func printSummary(sum types.RunSummary) {
	es := sum.ExecutionSummary
	fmt.Printf("Run %s (%s): %d papers fetched, %d analyzed\n", es.RunID, es.Timestamp, es.PapersProcessed, es.PapersAnalyzed)
	files := sum.GeneratedFiles
	for _, f := range []struct{ label, path string }{
		{"raw papers", files.RawPapers},
		{"analysis", files.AnalysisData},
		{"JSON report", files.JSONReport},
		{"Markdown report", files.MarkdownReport},
	} {
		if f.path != "" {
			fmt.Printf("  %-16s %s\n", f.label+":", f.path)
		}
	}
}
