// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/papersynth/pkg/types"
)

var markdownFuncs = template.FuncMap{
	"top":  func(c types.Counts, n int) types.Counts { return c.Top(n) },
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	"score": func(f float64) string {
		return fmt.Sprintf("%.1f", f)
	},
	"generated": func(s string) string {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
		return s
	},
	"category": func(p types.SamplePaper) string {
		if p.Analysis != nil && p.Analysis.AISubcategory != "" {
			return p.Analysis.AISubcategory
		}
		return "Unknown"
	},
	"methodology": func(p types.SamplePaper) string {
		if p.Analysis != nil && p.Analysis.Methodology != "" {
			return p.Analysis.Methodology
		}
		return "Not specified"
	},
}

var markdownTmpl = template.Must(template.New("report").Funcs(markdownFuncs).Parse(`# PaperSynth AI Research Report
*Generated on {{generated .Metadata.GenerationDate}}*

## 📊 Executive Summary
- **Papers Found**: {{.Summary.TotalPapersFound}}
- **Papers Analyzed**: {{.Summary.PapersAnalyzed}}
- **Success Rate**: {{.Summary.SuccessRate}}
- **Query**: ` + "`{{.Metadata.QueryUsed}}`" + `

## 🔥 Key Trends

### AI Categories
{{range top .Trends.AICategories 5}}- **{{.Label}}**: {{.N}} papers
{{end}}
### 🚀 Emerging Keywords
{{range top .Trends.TopKeywords 10}}- {{.Label}} ({{.N}} mentions)
{{end}}
### 🛠️ Popular Methodologies
{{range top .Trends.Methodologies 5}}- {{.Label}}: {{.N}} papers
{{end}}
## 💡 Key Insights
- **Dominant Category**: {{.Insights.DominantCategory}}
- **Innovation Level**: {{.Insights.InnovationLevel}} (avg score: {{score .Trends.AvgNoveltyScore}}/10)
- **Hot Topics**: {{join .Insights.EmergingKeywords ", "}}

## 📚 Featured Papers

{{range $i, $p := .SamplePapers}}### {{inc $i}}. {{$p.Title}}
- **ArXiv ID**: {{$p.ArxivID}}
- **Authors**: {{join $p.Authors ", "}}
- **Category**: {{category $p}}
- **Methodology**: {{methodology $p}}

{{end}}---
*Generated by PaperSynth AI - Multi-Agent Research Synthesis System*
`))

// RenderJSON serializes the report with two-space indentation. HTML
// characters are not escaped.
func RenderJSON(r types.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderMarkdown renders the human-readable report.
func RenderMarkdown(r types.Report) (string, error) {
	var buf bytes.Buffer
	if err := markdownTmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML renders the Markdown report as an HTML fragment.
func RenderHTML(r types.Report) (string, error) {
	markdown, err := RenderMarkdown(r)
	if err != nil {
		return "", err
	}
	return MarkdownToHTML(markdown)
}

// MarkdownToHTML converts a Markdown document to an HTML fragment.
func MarkdownToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}
