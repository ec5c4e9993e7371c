// Package render draws the dashboard charts as SVG.
package render

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToDraw is returned when every input value is zero or missing.
var ErrNothingToDraw = errors.New("nothing to draw")

// Chart names used as metric labels.
const (
	ChartBar     = "bar"
	ChartTreemap = "treemap"
	ChartWaffle  = "waffle"
)

const (
	titleFontSize = 14.0
	labelFontSize = 10.0
)

var (
	textColor   = drawing.ColorFromHex("333333")
	borderColor = drawing.ColorWhite
)

func defaultFont() (*truetype.Font, error) {
	f, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load chart font: %w", err)
	}
	return f, nil
}

func newSVG(width, height int) (chart.Renderer, error) {
	r, err := chart.SVG(width, height)
	if err != nil {
		return nil, err
	}
	r.SetDPI(chart.DefaultDPI)
	return r, nil
}

// drawLines writes text centered on cx with the first baseline at y.
func drawLines(r chart.Renderer, lines []string, cx, y int, style chart.Style) {
	for _, line := range lines {
		box := chart.Draw.MeasureText(r, line, style)
		chart.Draw.Text(r, escape(line), cx-box.Width()/2, y, style)
		y += box.Height() + 4
	}
}

// escape makes text safe for the SVG canvas, which writes it verbatim.
func escape(text string) string { return html.EscapeString(text) }

func textStyle(f *truetype.Font, size float64) chart.Style {
	return chart.Style{Font: f, FontSize: size, FontColor: textColor}
}

func save(r chart.Renderer, w io.Writer) error {
	return r.Save(w)
}

func hex(color string) drawing.Color {
	if strings.TrimPrefix(color, "#") == "" {
		return drawing.ColorFromHex("999999")
	}
	return drawing.ColorFromHex(color)
}
