// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papersynth/pkg/types"
)

func TestLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`presets:
  agents:
    description: LLM agents
    query: "LLM agents OR tool use"
    categories: [cs.AI, cs.CL]
    max_results: 10
  vision:
    query: diffusion
`), 0o644))

	pf, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"agents", "vision"}, pf.Names())

	p, err := pf.Lookup("agents")
	require.NoError(t, err)
	assert.Equal(t, "LLM agents OR tool use", p.Query)
	assert.Equal(t, []string{"cs.AI", "cs.CL"}, p.Categories)
	assert.Equal(t, 10, p.MaxResults)

	_, err = pf.Lookup("missing")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestLoadPresetsMissingFile(t *testing.T) {
	_, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWritePresetsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	in := PresetFile{Presets: map[string]Preset{
		"rl": {Query: "reinforcement learning", Categories: []string{"cs.LG"}, MaxResults: 5},
	}}
	require.NoError(t, WritePresets(path, in))

	out, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPresetApply(t *testing.T) {
	base := types.SearchRequest{Query: "default", Categories: []string{"cs.AI"}, MaxResults: 15}

	got := Preset{Query: "vision"}.Apply(base)
	assert.Equal(t, types.SearchRequest{Query: "vision", Categories: []string{"cs.AI"}, MaxResults: 15}, got)

	got = Preset{Query: "x", Categories: []string{"cs.CV"}, MaxResults: 3}.Apply(base)
	assert.Equal(t, types.SearchRequest{Query: "x", Categories: []string{"cs.CV"}, MaxResults: 3}, got)
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "Computation and Language (NLP)", CategoryName("cs.CL"))
	assert.Equal(t, "q-bio.NC", CategoryName("q-bio.NC"))
	assert.Len(t, CategoryInfo(), 8)
}
