package output

import (
	"bytes"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"draft-value/model"
)

// ChartOptions controls the value curve page.
type ChartOptions struct {
	Title  string
	Width  string
	Height string
	Theme  string
}

// DefaultChartOptions returns the defaults used by the pipeline.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:  "Value Curves",
		Width:  "1100px",
		Height: "500px",
		Theme:  "light",
	}
}

// RenderValueCurves draws one line chart per table: the Low, Avg and High
// value of every row in table order. Rows without a score are plotted as gaps.
func RenderValueCurves(tables []model.Table, o ChartOptions) ([]byte, error) {
	page := components.NewPage()
	page.SetPageTitle(o.Title)

	for _, t := range tables {
		page.AddCharts(valueCurve(t, o))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, errors.Wrap(err, "render value curves")
	}
	return buf.Bytes(), nil
}

func valueCurve(t model.Table, o ChartOptions) *charts.Line {
	line := charts.NewLine()

	subtitle := "no baseline"
	if t.Baseline.Player != "" {
		subtitle = "baseline " + t.Baseline.Player + " (#" + strconv.Itoa(t.Baseline.Index+1) + ")"
	}
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  o.Width,
			Height: o.Height,
			Theme:  o.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    t.Category,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "points/game over replacement",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "player",
		}),
	)

	names := make([]string, len(t.Rows))
	low := make([]opts.LineData, len(t.Rows))
	avg := make([]opts.LineData, len(t.Rows))
	high := make([]opts.LineData, len(t.Rows))
	for i, r := range t.Rows {
		names[i] = r.Name
		low[i] = lineValue(r.Value.Low)
		avg[i] = lineValue(r.Value.Average)
		high[i] = lineValue(r.Value.High)
	}

	line.SetXAxis(names).
		AddSeries(ColLow, low).
		AddSeries(ColAvg, avg).
		AddSeries(ColHigh, high).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(true),
			}),
		)
	return line
}

// lineValue rounds like the CSV does; "-" is the echarts gap marker.
func lineValue(s model.Score) opts.LineData {
	if !s.Valid {
		return opts.LineData{Value: "-"}
	}
	v, _ := strconv.ParseFloat(s.Format(), 64)
	return opts.LineData{Value: v}
}
