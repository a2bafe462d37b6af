// Package graphing renders measurement passes as an HTML chart page.
package graphing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/components"

	"JVMProfiler/pkg/metrics"
)

// ErrNoData is returned when no pass carries a numeric measure.
var ErrNoData = errors.New("no numeric measures to graph")

// Series holds the values of one metric for one target across passes.
// Missing values are NaN.
type Series struct {
	Metric metrics.Metric
	Target string
	Values []float64
}

// Render writes an HTML page to w. A single pass gets one bar chart per
// numeric metric, keyed by target; several passes get one line chart per
// metric with a series per target.
func Render(w io.Writer, snaps ...*metrics.Snapshot) error {
	snaps = nonEmpty(snaps)
	if len(snaps) == 0 {
		return ErrNoData
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("JVM metrics - %s", snaps[0].Host)

	added := 0
	for _, m := range numericMetrics(snaps) {
		if len(snaps) == 1 {
			if bar := createBarChart(m, snaps[0]); bar != nil {
				page.AddCharts(bar)
				added++
			}
			continue
		}
		if line := createLineChart(m, snaps, buildSeries(m, snaps)); line != nil {
			page.AddCharts(line)
			added++
		}
	}
	if added == 0 {
		return ErrNoData
	}

	var buf strings.Builder
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	summary, err := renderSummary(snaps)
	if err != nil {
		return err
	}
	html := buf.String()
	html = strings.Replace(html, "</head>", summaryStyles+"</head>", 1)
	html = strings.Replace(html, "<body>", "<body>\n"+summary, 1)

	_, err = io.WriteString(w, html)
	return err
}

// WriteFile renders snaps into the file at path, creating parent directories.
func WriteFile(path string, snaps ...*metrics.Snapshot) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var buf strings.Builder
	if err := Render(&buf, snaps...); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func nonEmpty(snaps []*metrics.Snapshot) []*metrics.Snapshot {
	out := make([]*metrics.Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if s != nil && len(s.Records) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// numericMetrics returns the numeric metrics seen across passes, in the
// canonical order of the first pass that declares them.
func numericMetrics(snaps []*metrics.Snapshot) []metrics.Metric {
	seen := make(map[string]bool)
	var out []metrics.Metric
	for _, s := range snaps {
		for _, m := range s.Metrics() {
			if !m.Kind.Numeric() || seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			out = append(out, m)
		}
	}
	return out
}

// targets lists record sources in first-seen order.
func targets(snaps []*metrics.Snapshot) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range snaps {
		for _, rec := range s.Records {
			if src := rec.Source(); !seen[src] {
				seen[src] = true
				out = append(out, src)
			}
		}
	}
	return out
}

func valueOf(rec *metrics.Record, name string) (float64, bool) {
	m, ok := rec.Get(name)
	if !ok || m.IsPlaceholder() {
		return 0, false
	}
	return metrics.ToFloat(m.Value)
}

// buildSeries extracts one series per target for metric m.
func buildSeries(m metrics.Metric, snaps []*metrics.Snapshot) []*Series {
	byTarget := make(map[string]*Series)
	var out []*Series
	for _, t := range targets(snaps) {
		s := &Series{Metric: m, Target: t, Values: make([]float64, len(snaps))}
		for i := range s.Values {
			s.Values[i] = nan
		}
		byTarget[t] = s
		out = append(out, s)
	}
	for i, snap := range snaps {
		for _, rec := range snap.Records {
			if v, ok := valueOf(rec, m.Name); ok {
				byTarget[rec.Source()].Values[i] = v
			}
		}
	}

	kept := out[:0]
	for _, s := range out {
		if s.hasData() {
			kept = append(kept, s)
		}
	}
	return kept
}

func (s *Series) hasData() bool {
	for _, v := range s.Values {
		if v == v {
			return true
		}
	}
	return false
}
