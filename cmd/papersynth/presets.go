// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papersynth/internal/fetch"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List query presets",
	RunE:  runPresets,
}

var presetsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter presets file",
	RunE:  runPresetsInit,
}

func init() {
	presetsInitCmd.Flags().Bool("force", false, "overwrite an existing presets file")
	presetsCmd.AddCommand(presetsInitCmd)
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	pf, err := fetch.LoadPresets(cfg.Fetch.PresetsFile)
	if err != nil {
		return err
	}
	for _, name := range pf.Names() {
		p := pf.Presets[name]
		fmt.Printf("%-16s %s\n", name, p.Description)
		fmt.Printf("%-16s query: %s\n", "", p.Query)
		if len(p.Categories) > 0 {
			fmt.Printf("%-16s categories: %s\n", "", strings.Join(p.Categories, ", "))
		}
	}
	return nil
}

func runPresetsInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	path := cfg.Fetch.PresetsFile
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := fetch.WritePresets(path, starterPresets()); err != nil {
		return err
	}
	fmt.Println("Wrote", path)
	return nil
}

func starterPresets() fetch.PresetFile {
	return fetch.PresetFile{Presets: map[string]fetch.Preset{
		"llm": {
			Description: "Large language models and transformers",
			Query:       "large language models OR transformers OR attention mechanism",
			Categories:  []string{"cs.AI", "cs.LG", "cs.CL"},
		},
		"vision": {
			Description: "Computer vision and multimodal models",
			Query:       "vision transformer OR diffusion OR multimodal",
			Categories:  []string{"cs.CV", "cs.LG"},
		},
		"agents": {
			Description: "LLM agents and tool use",
			Query:       "LLM agents OR tool use OR planning",
			Categories:  []string{"cs.AI", "cs.CL"},
			MaxResults:  10,
		},
		"robotics": {
			Description: "Robot learning",
			Query:       "robot learning OR reinforcement learning",
			Categories:  []string{"cs.RO", "cs.LG"},
		},
	}}
}
