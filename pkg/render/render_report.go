// Render HTML report for an enrichment run

package render

import (
	"html/template"
	"io"

	"github.com/yumyai/fe1/logger"
	"github.com/yumyai/fe1/pkg/model"
	"go.uber.org/zap"
)

const ReportFileName = "report.html"

var report_template *template.Template

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Functional enrichment: {{ .Summary.FeatureSetRef }}</title>
	</head>
	<body>
		<h1>Functional enrichment: {{ .Summary.FeatureSetRef }}</h1>
		{{template "run_summary" .Summary}}
		{{template "term_table" .}}
		<p>Download: <a href="{{ .CSVName }}">{{ .CSVName }}</a></p>
	</body>
	</html>`

	summaryTmpl := `
	{{define "run_summary"}}
		<ul>
			<li>Run: {{ .RunID }}</li>
			<li>Reference genome: {{ .GenomeRef }}</li>
			<li>Features of interest: {{ .ForegroundSize }} / background: {{ .BackgroundSize }}</li>
			<li>Terms considered: {{ .TermsConsidered }}, reported: {{ .TermsReported }}</li>
			<li>Propagation: {{ yesno .Propagation }}, ref-feature filtering: {{ yesno .FilterRefFeatures }}</li>
		</ul>
	{{end}}`

	tableTmpl := `
	{{define "term_table"}}
		{{if .Rows}}
		<table border="1">
		<tr>
			<th>Term ID</th>
			<th>Term</th>
			<th>Ontology</th>
			<th>In feature set</th>
			<th>In reference genome</th>
			<th>Raw p-value</th>
			<th>Adjusted p-value</th>
		</tr>
		{{range .Rows}}
		<tr>
			<td>{{ .TermID }}</td>
			<td>{{ .TermName }}</td>
			<td>{{ .Ontology }}</td>
			<td>{{ .NumInFeatureSet }}</td>
			<td>{{ .NumInRefGenome }}</td>
			<td>{{ pvalue .RawPValue }}</td>
			<td style="background-color: {{ pcolor .AdjustedPValue }}">{{ pvalue .AdjustedPValue }}</td>
		</tr>
		{{end}}
		</table>
		{{else}}
		<p>No term of the feature set was found in the reference genome.</p>
		{{end}}
	{{end}}`

	funcs := template.FuncMap{
		"pvalue": formatP,
		"pcolor": colorBySignificance,
		"yesno": func(b bool) string {
			if b {
				return "yes"
			}
			return "no"
		},
	}

	report_template = template.Must(template.New("report").Funcs(funcs).Parse(mainTmpl))
	template.Must(report_template.Parse(summaryTmpl))
	template.Must(report_template.Parse(tableTmpl))
}

type reportData struct {
	Summary model.RunSummary
	Rows    []model.EnrichmentRow
	CSVName string
}

func RenderReportHTML(w io.Writer, summary model.RunSummary, rows []model.EnrichmentRow) error {
	err := report_template.Execute(w, reportData{Summary: summary, Rows: rows, CSVName: TableFileName})
	if err != nil {
		logger.Error("Error rendering report", zap.String("run_id", summary.RunID), zap.Error(err))
	}
	return err
}
