// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papersynth/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs or follow a keyword across runs",
	Long: `History lists recorded runs, newest first. With --keyword it prints how
often the keyword appeared among the top keywords of each run, oldest first.
With --run it shows one run in full, including its ranked keywords.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("keyword", "", "show the trend of one keyword")
	historyCmd.Flags().String("run", "", "show one run by ID")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.Output.HistoryDB == "" {
		return fmt.Errorf("run history is disabled (output.history_db is empty)")
	}

	store, err := history.Open(cfg.Output.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if id, _ := cmd.Flags().GetString("run"); id != "" {
		return showRun(ctx, store, id, os.Stdout, jsonOutput)
	}

	if keyword, _ := cmd.Flags().GetString("keyword"); keyword != "" {
		points, err := store.KeywordHistory(ctx, keyword)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(os.Stdout, points)
		}
		if len(points) == 0 {
			fmt.Printf("No runs mention %q.\n", keyword)
			return nil
		}
		for _, p := range points {
			fmt.Printf("%s  %-36s  %d\n", p.StartedAt.Local().Format("2006-01-02 15:04"), p.RunID, p.Count)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(os.Stdout, runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-16s  %-7s  %7s  %8s  %-5s  %-20s  %s\n",
		"Started", "Status", "Fetched", "Analyzed", "Avg", "Dominant", "Innovation")
	fmt.Println(strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Printf("%-16s  %-7s  %7d  %8d  %-5.1f  %-20s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"), r.Status,
			r.PapersFetched, r.PapersAnalyzed, r.AvgNoveltyScore,
			truncate(r.DominantCategory, 20), r.InnovationLevel)
	}
	fmt.Printf("\n%d runs\n", len(runs))
	return nil
}

// showRun prints one recorded run and its keyword counts.
func showRun(ctx context.Context, store *history.Store, id string, w io.Writer, asJSON bool) error {
	r, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(w, r)
	}

	fmt.Fprintf(w, "Run:         %s\n", r.ID)
	fmt.Fprintf(w, "Status:      %s\n", r.Status)
	fmt.Fprintf(w, "Started:     %s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Finished:    %s\n", r.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	if r.Query != "" {
		fmt.Fprintf(w, "Query:       %s\n", r.Query)
	}
	if r.Categories != "" {
		fmt.Fprintf(w, "Categories:  %s\n", r.Categories)
	}
	fmt.Fprintf(w, "Papers:      %d fetched, %d analyzed\n", r.PapersFetched, r.PapersAnalyzed)
	if r.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:       %s\n", r.ErrorMessage)
		return nil
	}
	fmt.Fprintf(w, "Novelty:     %.1f (%s)\n", r.AvgNoveltyScore, r.InnovationLevel)
	fmt.Fprintf(w, "Dominant:    %s\n", r.DominantCategory)
	if r.JSONReport != "" {
		fmt.Fprintf(w, "Report:      %s\n", r.JSONReport)
	}
	if len(r.Keywords) > 0 {
		fmt.Fprintln(w, "\nKeywords:")
		for i, kw := range r.Keywords {
			fmt.Fprintf(w, "  %2d. %-30s %d\n", i+1, truncate(kw.Label, 30), kw.N)
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
