package handlers

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"teaminsight/internal/models"
	"teaminsight/internal/scoring"
)

const chartColor = "#6366f1"

// radarChart plots the four axes on a 0-100 radar, using the right-pole
// label so the shape reads the same way as the sliders.
func radarChart(scores models.AxisScores) map[string]interface{} {
	indicators := make([]*opts.Indicator, 0, len(models.Axes))
	values := make([]int, 0, len(models.Axes))
	for _, axis := range models.Axes {
		meta := scoring.AxisInfo(axis)
		indicators = append(indicators, &opts.Indicator{Name: meta.Name, Max: 100, Min: 0, Color: meta.Color})
		values = append(values, scores.Get(axis))
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "あなたのタイプ"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator:   indicators,
			Shape:       "polygon",
			SplitNumber: 4,
		}),
	)
	radar.AddSeries("スコア", []opts.RadarData{{Name: "スコア", Value: values}},
		charts.WithLineStyleOpts(opts.LineStyle{Color: chartColor, Width: 2}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: "rgba(99, 102, 241, 0.3)"}),
	)
	radar.Validate()
	return radar.JSON()
}

// trendChart draws one line per axis over the oldest-first series.
func trendChart(points []scoring.TrendPoint) map[string]interface{} {
	labels := make([]string, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Label)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "スコアの推移"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: 0, Max: 100}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	line.SetXAxis(labels)

	for _, axis := range models.Axes {
		meta := scoring.AxisInfo(axis)
		items := make([]opts.LineData, 0, len(points))
		for _, p := range points {
			items = append(items, opts.LineData{Value: p.Scores.Get(axis)})
		}
		line.AddSeries(meta.Name, items, charts.WithLineStyleOpts(opts.LineStyle{Color: meta.Color, Width: 2}))
	}
	line.Validate()
	return line.JSON()
}
