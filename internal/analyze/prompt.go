// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"text/template"

	"github.com/invopop/jsonschema"

	"github.com/pdiddy/papersynth/pkg/types"
)

// analysisPromptTmpl is sent to the analysis service for each paper. The
// full text, when present, replaces the abstract-only framing.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`{{if .FullText}}Analyze this AI research paper using its full text:
URL: {{.URL}}
{{else}}Analyze this AI research paper based on its abstract:
{{end}}
Title: {{.Title}}
Authors: {{.Authors}}
Category: {{.Category}}
Abstract: {{.Abstract}}
{{if .FullText}}
Full text (Markdown):
{{.FullText}}
{{end}}
Provide the analysis as a single JSON object matching this JSON Schema:
{{.Schema}}

novelty_score is an integer from 1 to 10: 1-3 incremental, 4-6 moderate contribution combining known approaches, 7-8 clear advancement over the state of the art, 9-10 only for paradigm-shifting work such as Transformers or GPT. Be conservative; most papers score 4-6.

Respond ONLY with the JSON, no additional text.
`))

type promptData struct {
	Title    string
	Authors  string
	Category string
	Abstract string
	URL      string
	FullText string
	Schema   string
}

var (
	schemaOnce sync.Once
	schemaText string
)

// analysisSchema returns the JSON Schema of types.Analysis, indented.
func analysisSchema() string {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		s := reflector.Reflect(&types.Analysis{})
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			panic("analysis schema: " + err.Error())
		}
		schemaText = string(data)
	})
	return schemaText
}

// renderPrompt executes the analysis prompt for paper. fullText is empty in
// abstract-only mode.
func renderPrompt(paper types.PaperRecord, fullText string) (string, error) {
	data := promptData{
		Title:    types.Deref(paper.Title, "Unknown"),
		Authors:  strings.Join(paper.Authors, ", "),
		Category: types.Deref(paper.PrimaryCategory, "Unknown"),
		Abstract: types.Deref(paper.Summary, ""),
		URL:      types.Deref(paper.Ar5ivURL, ""),
		FullText: fullText,
		Schema:   analysisSchema(),
	}
	var buf bytes.Buffer
	if err := analysisPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
