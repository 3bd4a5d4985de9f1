// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/papersynth/internal/analyze"
	"github.com/pdiddy/papersynth/internal/artifacts"
	"github.com/pdiddy/papersynth/internal/fetch"
	"github.com/pdiddy/papersynth/internal/history"
	"github.com/pdiddy/papersynth/internal/pipeline"
	"github.com/pdiddy/papersynth/pkg/types"
)

// openHistory opens the run history database, or returns nil when
// history is disabled or cannot be opened.
func openHistory(cfg types.OutputConfig, logger *log.Logger) *history.Store {
	if cfg.HistoryDB == "" {
		return nil
	}
	h, err := history.Open(cfg.HistoryDB)
	if err != nil {
		logger.Warn("run history disabled", "path", cfg.HistoryDB, "err", err)
		return nil
	}
	return h
}

// newRunner builds a pipeline runner from cfg without an analyzer, so
// that setup failures can still be reported through it. The returned func
// releases the history database.
func newRunner(cfg types.Config, logger *log.Logger) (*pipeline.Runner, func()) {
	runner := &pipeline.Runner{
		Searcher:    fetch.NewArxivClient(cfg.Fetch.HTTPConfig),
		Store:       artifacts.NewStore(cfg.Output),
		Logger:      logger,
		KeywordTopN: cfg.Output.KeywordTopN,
		Version:     cfg.Output.Version,
	}

	closeFn := func() {}
	if h := openHistory(cfg.Output, logger); h != nil {
		runner.History = h
		closeFn = func() { h.Close() }
	}
	return runner, closeFn
}

// attachAnalyzer configures the analysis backend on runner.
func attachAnalyzer(runner *pipeline.Runner, cfg types.Config, logger *log.Logger) error {
	gen, err := analyze.NewGenerator(cfg.Analysis.AIConfig)
	if err != nil {
		return err
	}

	var source analyze.TextSource
	if cfg.Analysis.FullText {
		source = analyze.NewAr5ivSource(cfg.Fetch.HTTPConfig, cfg.Analysis.MaxFullTextChars)
	}
	runner.Analyzer = analyze.NewAnalyzer(gen, source, cfg.Analysis.RepairJSON, logger)

	logger.Debug("pipeline configured", "backend", cfg.Analysis.Backend, "model", gen.Model(), "full_text", cfg.Analysis.FullText)
	return nil
}

// reportRunError prints the error report path carried by a *RunError.
func reportRunError(err error) error {
	var runErr *pipeline.RunError
	if errors.As(err, &runErr) && runErr.ErrorReport != "" {
		fmt.Fprintf(os.Stderr, "Error report: %s\n", runErr.ErrorReport)
	}
	return err
}

func request(cfg types.Config) pipeline.Request {
	return pipeline.Request{
		Search: types.SearchRequest{
			Query:      cfg.Fetch.Query,
			Categories: cfg.Fetch.Categories,
			MaxResults: cfg.Fetch.MaxResults,
		},
		FullText: cfg.Analysis.FullText,
		Pacing:   cfg.Analysis.Pacing,
	}
}
