package graphing

import (
	"bytes"
	"fmt"
	"html/template"

	"JVMProfiler/pkg/metrics"
)

var templates = template.Must(template.New("").Parse(`
{{define "summary"}}
<div class="summary-container">
    <div class="summary-header">
        <h1>{{.Host}}</h1>
        <div class="pass-id">Passes: {{.Passes}} | First: {{.First}} | Last: {{.Last}}</div>
    </div>
    {{if .Columns}}
    <div class="info-section">
        <h3>Targets</h3>
        <table class="info-table">
            <tr><th>target</th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
            {{range .Rows}}
            <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
            {{end}}
        </table>
    </div>
    {{end}}
</div>
{{end}}
`))

const summaryStyles = `
<style>
.summary-container { margin: 0 0 20px 0; font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif; }
.summary-header { border-bottom: 2px solid #333; padding-bottom: 10px; margin-bottom: 15px; }
.summary-header h1 { margin: 0; font-size: 18px; }
.pass-id { font-size: 11px; color: #666; font-family: monospace; }
.info-section { padding: 15px; background: #f5f5f5; border: 1px solid #ddd; }
.info-section h3 { margin: 0 0 10px 0; font-size: 13px; }
.info-table { border-collapse: collapse; font-size: 12px; }
.info-table th, .info-table td { padding: 3px 8px; border-bottom: 1px solid #eee; text-align: left; }
.info-table td { font-family: monospace; }
</style>
`

// summaryData describes the passes and the descriptive, non-numeric
// measures of the last pass.
type summaryData struct {
	Host    string
	Passes  int
	First   string
	Last    string
	Columns []string
	Rows    [][]string
}

func newSummaryData(snaps []*metrics.Snapshot) summaryData {
	first, last := snaps[0], snaps[len(snaps)-1]
	d := summaryData{
		Host:   first.Host,
		Passes: len(snaps),
		First:  metrics.FormatDateTime(first.TakenAt),
		Last:   metrics.FormatDateTime(last.TakenAt),
	}
	for _, m := range last.Metrics() {
		if !m.Kind.Numeric() {
			d.Columns = append(d.Columns, m.Name)
		}
	}
	if len(d.Columns) == 0 {
		return d
	}
	for _, rec := range last.Records {
		row := []string{rec.Source()}
		for _, c := range d.Columns {
			cell := metrics.Placeholder
			if m, ok := rec.Get(c); ok {
				cell = m.DisplayValue()
			}
			row = append(row, cell)
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

func renderSummary(snaps []*metrics.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "summary", newSummaryData(snaps)); err != nil {
		return "", fmt.Errorf("failed to execute summary template: %w", err)
	}
	return buf.String(), nil
}
