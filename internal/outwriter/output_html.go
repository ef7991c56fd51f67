package outwriter

import (
	"html/template"
	"io"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/schema"
)

// reportTemplate is the standalone HTML page for a report. Cell classes map
// to the status coloring used by the console table.
const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: right; }
th { background-color: #f0f0f0; }
td.cluster { text-align: left; }
td.success { background-color: #d4edda; }
td.caution { background-color: #fff3cd; }
td.danger { background-color: #f8d7da; }
footer { margin-top: 1em; color: #666; font-size: 0.85em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><td class="cluster">{{.Cluster}}</td>{{range .Cells}}<td class="{{.Class}}">{{.Text}}</td>{{end}}</tr>
{{end}}</table>
<footer>{{if .Footer}}{{.Footer}} | {{end}}Generated at {{.GeneratedAt}}</footer>
</body>
</html>
`

type htmlCell struct {
	Text  string
	Class string
}

type htmlRow struct {
	Cluster string
	Cells   []htmlCell
}

type htmlReport struct {
	Title       string
	Footer      string
	GeneratedAt string
	Headers     []string
	Rows        []htmlRow
}

// writeReportHTML renders the matrix as a standalone HTML page.
func writeReportHTML(w io.Writer, matrix *schema.ReportMatrix, cfg *contract.Config) error {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return err
	}

	title := cfg.Title
	if title == "" {
		title = "SLI Report"
	}

	model := htmlReport{
		Title:       title,
		Footer:      cfg.Footer,
		GeneratedAt: matrix.EvaluatedAt.Format(contract.DateTimeFormat),
		Headers:     matrix.Headers(),
	}

	for i, cluster := range matrix.Clusters {
		row := htmlRow{Cluster: displayName(cluster)}
		for j := range matrix.Rules {
			c := matrix.Cell(i, j)
			row.Cells = append(row.Cells,
				htmlCell{Text: schema.FormatPercent(c.Goal, cfg.Precision) + "%"},
				htmlCell{Text: contract.GetPlainCell(c, cfg.Precision), Class: htmlClass(c)},
			)
		}
		model.Rows = append(model.Rows, row)
	}

	return tmpl.Execute(w, model)
}

// htmlClass maps a cell's status to its CSS class, mirroring the console
// color scheme including the borderline caution band.
func htmlClass(cell schema.ReportCell) string {
	switch cell.Status {
	case schema.FailStatus:
		return "danger"
	case schema.PassStatus:
		if cell.Value-cell.Goal < contract.CautionMargin {
			return "caution"
		}
		return "success"
	default:
		return ""
	}
}
