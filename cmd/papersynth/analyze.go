// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papersynth/internal/artifacts"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Re-analyze a saved fetched_papers file",
	Long: `Analyze loads a data/fetched_papers_<ts>.json file written by an earlier
run and continues the pipeline from the analysis stage: analysis, trends
and reports are written under a new timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("full-text", false, "analyze ar5iv full text instead of abstracts")
	analyzeCmd.Flags().Duration("pacing", 0, "minimum delay between analysis calls (default 4.1s)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("full-text") {
		cfg.Analysis.FullText, _ = cmd.Flags().GetBool("full-text")
	}
	if cmd.Flags().Changed("pacing") {
		cfg.Analysis.Pacing, _ = cmd.Flags().GetDuration("pacing")
	}
	logger := newLogger(cfg)

	fetched, err := artifacts.LoadFetch(args[0])
	if err != nil {
		return err
	}
	logger.Info("loaded fetch result", "path", args[0], "papers", len(fetched.Papers))

	runner, closeFn := newRunner(cfg, logger)
	defer closeFn()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := attachAnalyzer(runner, cfg, logger); err != nil {
		return reportRunError(runner.Abort(ctx, err))
	}

	sum, err := runner.Reanalyze(ctx, fetched, request(cfg))
	if err != nil {
		return reportRunError(err)
	}
	printSummary(sum)
	return nil
}
