// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/papersynth/pkg/types"
)

// ErrUnknownPreset is returned when a preset name is not in the file.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named, reusable search.
type Preset struct {
	Description string   `yaml:"description,omitempty"`
	Query       string   `yaml:"query"`
	Categories  []string `yaml:"categories,omitempty"`
	MaxResults  int      `yaml:"max_results,omitempty"`
}

// PresetFile is the on-disk representation of the presets file:
//
//	presets:
//	  agents:
//	    query: "LLM agents OR tool use"
//	    categories: [cs.AI, cs.CL]
//	    max_results: 10
type PresetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// LoadPresets reads a presets file.
func LoadPresets(path string) (PresetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PresetFile{}, fmt.Errorf("reading presets %s: %w", path, err)
	}
	var pf PresetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return PresetFile{}, fmt.Errorf("parsing presets %s: %w", path, err)
	}
	return pf, nil
}

// WritePresets saves pf to path as YAML.
func WritePresets(path string, pf PresetFile) error {
	data, err := yaml.Marshal(&pf)
	if err != nil {
		return fmt.Errorf("marshaling presets: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing presets %s: %w", path, err)
	}
	return nil
}

// Names lists the preset names in sorted order.
func (pf PresetFile) Names() []string {
	names := make([]string, 0, len(pf.Presets))
	for name := range pf.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named preset.
func (pf PresetFile) Lookup(name string) (Preset, error) {
	p, ok := pf.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Apply overlays the preset's non-empty fields onto req.
func (p Preset) Apply(req types.SearchRequest) types.SearchRequest {
	if p.Query != "" {
		req.Query = p.Query
	}
	if len(p.Categories) > 0 {
		req.Categories = p.Categories
	}
	if p.MaxResults > 0 {
		req.MaxResults = p.MaxResults
	}
	return req
}
