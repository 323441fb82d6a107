// Package chart renders the dashboard's SVG charts.
package chart

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/hoops/internal/domain/table"
	"github.com/okian/hoops/pkg/metrics"
)

// Chart kinds reported in metrics.
const (
	KindCareer = "career"
	KindForm   = "form"
)

// Default career chart size in pixels.
const (
	CareerWidth  = 720
	CareerHeight = 320
)

// palette assigns one color per stat column, cycling when exhausted.
var palette = []string{"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd"}

// CareerArea draws one filled series per non-x column of series against
// the x column. Fewer than two rows draw a placeholder instead.
func CareerArea(w io.Writer, series *table.Table, x string) error {
	if series.Len() < 2 {
		metrics.RecordChartRender(KindCareer, "placeholder")
		return Placeholder(w, CareerWidth, CareerHeight, "Not enough seasons to chart")
	}
	xcol, err := series.Column(x)
	if err != nil {
		metrics.RecordChartRender(KindCareer, "error")
		return err
	}
	xs := floats(xcol)

	var plotted []gochart.Series
	for _, name := range series.Columns {
		if name == x {
			continue
		}
		col, _ := series.Column(name)
		color := drawing.ColorFromHex(palette[len(plotted)%len(palette)])
		plotted = append(plotted, gochart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: floats(col),
			Style: gochart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				FillColor:   color.WithAlpha(64),
			},
		})
	}
	if len(plotted) == 0 {
		metrics.RecordChartRender(KindCareer, "placeholder")
		return Placeholder(w, CareerWidth, CareerHeight, "Pick a stat to chart")
	}

	ch := gochart.Chart{
		Width:      CareerWidth,
		Height:     CareerHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:           x,
			ValueFormatter: func(v any) string { return fmt.Sprintf("%.0f", toFloat(v)) },
		},
		YAxis: gochart.YAxis{
			ValueFormatter: formatTick,
		},
		Series: plotted,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	// render into a buffer so a failed render leaves w untouched
	var buf bytes.Buffer
	if err := ch.Render(gochart.SVG, &buf); err != nil {
		metrics.RecordChartRender(KindCareer, "error")
		return Placeholder(w, CareerWidth, CareerHeight, "Chart unavailable")
	}
	if _, err := buf.WriteTo(w); err != nil {
		metrics.RecordChartRender(KindCareer, "error")
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	metrics.RecordChartRender(KindCareer, "ok")
	return nil
}

// formatTick prints a y tick as a comma separated integer.
func formatTick(v any) string {
	return humanize.Comma(int64(toFloat(v)))
}

func floats(col []any) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		out[i], _ = table.Float(v)
	}
	return out
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}
