package graphing

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"JVMProfiler/pkg/metrics"
)

var nan = math.NaN()

const timeLabel = "15:04:05"

func chartTitle(m metrics.Metric) opts.Title {
	return opts.Title{Title: m.Name, Subtitle: m.Description}
}

// createBarChart plots metric m for every target of a single pass.
func createBarChart(m metrics.Metric, s *metrics.Snapshot) *charts.Bar {
	var labels []string
	var data []opts.BarData
	for _, rec := range s.Records {
		v, ok := valueOf(rec, m.Name)
		if !ok {
			continue
		}
		labels = append(labels, rec.Source())
		data = append(data, opts.BarData{Value: v})
	}
	if len(data) == 0 {
		return nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(chartTitle(m)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "pid"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)
	bar.SetXAxis(labels).AddSeries(m.Name, data)
	return bar
}

// createLineChart plots one line per target across passes.
func createLineChart(m metrics.Metric, snaps []*metrics.Snapshot, series []*Series) *charts.Line {
	if len(series) == 0 {
		return nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(chartTitle(m)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	xLabels := make([]string, len(snaps))
	for i, s := range snaps {
		xLabels[i] = s.TakenAt.Format(timeLabel)
	}
	line.SetXAxis(xLabels)

	for _, s := range series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			if math.IsNaN(v) {
				data[i] = opts.LineData{Value: "-"}
				continue
			}
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Target, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		)
	}
	return line
}
