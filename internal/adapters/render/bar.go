package render

import (
	"fmt"
	"html"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/okian/enow/internal/domain/national"
)

// Bar chart size.
const (
	BarWidth  = 640
	BarHeight = 400
)

// BarSVG draws one bar per impact type.
func BarSVG(w io.Writer, title string, bars []national.Bar) error {
	var max float64
	values := make([]chart.Value, 0, len(bars))
	for _, b := range bars {
		if b.Value > max {
			max = b.Value
		}
		c := hex(b.Color)
		values = append(values, chart.Value{
			Label: html.EscapeString(b.Label),
			Value: b.Value,
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		})
	}
	if max <= 0 {
		return ErrNothingToDraw
	}

	bc := chart.BarChart{
		Title:      html.EscapeString(title),
		TitleStyle: chart.Style{FontSize: titleFontSize},
		Width:      BarWidth,
		Height:     BarHeight,
		BarWidth:   BarWidth / (2*len(values) + 1),
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: max * 1.1},
			ValueFormatter: compact,
		},
		Bars: values,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// compact formats axis ticks as 1.5M or 150B.
func compact(v any) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	switch {
	case f >= 1e9:
		return fmt.Sprintf("%.0fB", f/1e9)
	case f >= 1e6:
		return fmt.Sprintf("%.1fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("%.0fK", f/1e3)
	default:
		return fmt.Sprintf("%.0f", f)
	}
}
