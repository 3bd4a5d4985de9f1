// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dashboard

import (
	"fmt"
	"html/template"

	"github.com/pdiddy/papersynth/internal/fetch"
	"github.com/pdiddy/papersynth/pkg/types"
)

type metric struct {
	Label string
	Value string
}

type reportPage struct {
	Name       string
	Generated  string
	Query      string
	Categories []string
	Metrics    []metric
	Body       template.HTML
}

type reportRow struct {
	Name string
	When string
}

// newReportPage builds the metrics header shown above a report. body is
// trusted HTML produced by the Markdown renderer.
func newReportPage(name string, rep types.Report, body string) reportPage {
	cats := make([]string, len(rep.Metadata.CategoriesSearched))
	for i, code := range rep.Metadata.CategoriesSearched {
		if label := fetch.CategoryName(code); label != code {
			cats[i] = fmt.Sprintf("%s (%s)", code, label)
		} else {
			cats[i] = code
		}
	}

	return reportPage{
		Name:       name,
		Generated:  rep.Metadata.GenerationDate,
		Query:      rep.Metadata.QueryUsed,
		Categories: cats,
		Metrics: []metric{
			{"Papers found", fmt.Sprint(rep.Summary.TotalPapersFound)},
			{"Papers analyzed", fmt.Sprint(rep.Summary.PapersAnalyzed)},
			{"Success rate", rep.Summary.SuccessRate},
			{"Avg novelty", fmt.Sprintf("%.1f/10", rep.Trends.AvgNoveltyScore)},
			{"Dominant category", rep.Insights.DominantCategory},
			{"Innovation level", rep.Insights.InnovationLevel},
		},
		Body: template.HTML(body),
	}
}

const layout = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PaperSynth</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; color: #222; }
nav a { margin-right: 1rem; }
.metrics { display: flex; flex-wrap: wrap; gap: .75rem; margin: 1rem 0; }
.metric { border: 1px solid #ddd; border-radius: 6px; padding: .5rem .75rem; min-width: 120px; }
.metric b { display: block; font-size: 1.2rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ddd; padding: .25rem .5rem; }
</style>
</head>
<body>
<nav><a href="/">Latest</a><a href="/reports">Reports</a><a href="/api/runs">Runs (JSON)</a></nav>
{{template "content" .}}
</body>
</html>{{end}}`

var (
	reportTmpl = template.Must(template.Must(template.New("report").Parse(layout)).Parse(`{{define "content"}}
<h1>{{.Name}}</h1>
<p>Generated {{.Generated}}{{if .Query}} for <code>{{.Query}}</code>{{end}}</p>
{{if .Categories}}<p>Categories: {{range $i, $c := .Categories}}{{if $i}}, {{end}}{{$c}}{{end}}</p>{{end}}
<div class="metrics">{{range .Metrics}}<div class="metric">{{.Label}}<b>{{.Value}}</b></div>{{end}}</div>
<article>{{.Body}}</article>
{{end}}`))

	listTmpl = template.Must(template.Must(template.New("list").Parse(layout)).Parse(`{{define "content"}}
<h1>Reports</h1>
{{if .}}<table>
<tr><th>Report</th><th>Generated</th></tr>
{{range .}}<tr><td><a href="/reports/{{.Name}}">{{.Name}}</a></td><td>{{.When}}</td></tr>
{{end}}</table>{{else}}<p>No reports yet.</p>{{end}}
{{end}}`))

	emptyTmpl = template.Must(template.Must(template.New("empty").Parse(layout)).Parse(`{{define "content"}}
<h1>PaperSynth</h1>
<p>No reports yet. Run <code>papersynth run</code> to generate one.</p>
{{end}}`))
)
