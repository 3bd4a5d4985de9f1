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
	"github.com/pdiddy/papersynth/internal/dashboard"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report dashboard",
	Long: `Serve starts an HTTP server that shows the latest report, the list of saved
reports and the run history. Reports are read from the outputs directory on
every request, so new runs appear without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8501)")
	_ = viper.BindPFlag("dashboard.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	srv := dashboard.New(artifacts.NewStore(cfg.Output), nil, logger)
	if h := openHistory(cfg.Output, logger); h != nil {
		defer h.Close()
		srv.History = h
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Dashboard.Addr)
}
