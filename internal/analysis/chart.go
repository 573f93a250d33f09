package analysis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	colorInteger = "#3b82f6"
	colorFloat   = "#fbbf24"
	colorText    = "#a78bfa"
)

// WriteChart renders a stacked bar chart of the integer/float/text shares
// per column as a standalone HTML page.
func (r *Report) WriteChart(w io.Writer) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: r.Name, Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Column types: %s", r.Name),
			Subtitle: fmt.Sprintf("%d rows, %d columns", r.Rows, len(r.Cols)),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Max: 100}),
	)

	xAxis := make([]string, len(r.Cols))
	ints := make([]opts.BarData, len(r.Cols))
	floats := make([]opts.BarData, len(r.Cols))
	texts := make([]opts.BarData, len(r.Cols))
	for k, c := range r.Cols {
		xAxis[k] = chartLabel(c.Position, c.Title)
		i, f, t := c.Percentages()
		ints[k] = opts.BarData{Value: round(i, 2)}
		floats[k] = opts.BarData{Value: round(f, 2)}
		texts[k] = opts.BarData{Value: round(t, 2)}
	}
	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "types"})
	bar.SetXAxis(xAxis).
		AddSeries("integer", ints, stack, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorInteger})).
		AddSeries("float", floats, stack, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorFloat})).
		AddSeries("text", texts, stack, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorText}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func chartLabel(pos int, title string) string {
	n := strconv.Itoa(pos + 1)
	if title == "" {
		return n
	}
	return n + " " + title
}
