//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Run builds the CLI and executes the whole pipeline with the configured
// query. Extra flags can be passed through PAPERSYNTH_ARGS.
func Run() error {
	mg.Deps(Init, Build)
	args := []string{"run"}
	if extra := os.Getenv("PAPERSYNTH_ARGS"); extra != "" {
		args = append(args, strings.Fields(extra)...)
	}
	return sh.RunV(binPath(), args...)
}

// Serve builds the CLI and starts the report dashboard.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "serve")
}

// History prints the recorded runs.
func History() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "history")
}

func binPath() string {
	return "./" + binDir + "/" + binName
}
