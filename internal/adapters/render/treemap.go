package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/okian/enow/internal/domain/national"
)

// Treemap chart size.
const (
	TreemapWidth  = 640
	TreemapHeight = 400

	treemapTitleHeight = 36
	minLabelWidth      = 60
	minLabelHeight     = 30
)

// Rect is an axis-aligned rectangle in canvas units.
type Rect struct {
	X, Y, W, H float64
}

// Area returns W*H.
func (r Rect) Area() float64 { return r.W * r.H }

// Squarify lays values out inside the given box so that each rectangle's area
// is proportional to its value and aspect ratios stay close to one. The
// result is index-aligned with values; non-positive values get a zero Rect.
func Squarify(values []float64, x, y, w, h float64) []Rect {
	out := make([]Rect, len(values))
	if w <= 0 || h <= 0 {
		return out
	}

	var total float64
	idx := make([]int, 0, len(values))
	for i, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			total += v
			idx = append(idx, i)
		}
	}
	if total <= 0 {
		return out
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] > values[idx[b]] })

	scale := w * h / total
	areas := make([]float64, len(idx))
	for i, j := range idx {
		areas[i] = values[j] * scale
	}

	box := Rect{X: x, Y: y, W: w, H: h}
	for start := 0; start < len(areas); {
		side := math.Min(box.W, box.H)
		end := start + 1
		for end < len(areas) && worst(areas[start:end+1], side) <= worst(areas[start:end], side) {
			end++
		}
		box = layoutRow(areas[start:end], idx[start:end], box, out)
		start = end
	}
	return out
}

// worst is the largest aspect ratio in row when laid along side.
func worst(row []float64, side float64) float64 {
	sum, lo, hi := 0.0, math.Inf(1), 0.0
	for _, a := range row {
		sum += a
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	s2, sum2 := side*side, sum*sum
	return math.Max(s2*hi/sum2, sum2/(s2*lo))
}

// layoutRow places row along the shorter side of box and returns what is left.
func layoutRow(row []float64, idx []int, box Rect, out []Rect) Rect {
	var sum float64
	for _, a := range row {
		sum += a
	}
	if box.W >= box.H {
		cw := sum / box.H
		y := box.Y
		for i, a := range row {
			rh := a / cw
			out[idx[i]] = Rect{X: box.X, Y: y, W: cw, H: rh}
			y += rh
		}
		return Rect{X: box.X + cw, Y: box.Y, W: box.W - cw, H: box.H}
	}
	rh := sum / box.W
	x := box.X
	for i, a := range row {
		cw := a / rh
		out[idx[i]] = Rect{X: x, Y: box.Y, W: cw, H: rh}
		x += cw
	}
	return Rect{X: box.X, Y: box.Y + rh, W: box.W, H: box.H - rh}
}

// TreemapSVG draws in as a squarified treemap with a title row.
func TreemapSVG(w io.Writer, in national.TreemapInput, width, height int) error {
	if width <= 0 {
		width = TreemapWidth
	}
	if height <= treemapTitleHeight {
		height = TreemapHeight
	}
	rects := Squarify(in.Sizes, 0, treemapTitleHeight, float64(width), float64(height-treemapTitleHeight))
	drawn := false
	for _, rc := range rects {
		if rc.Area() > 0 {
			drawn = true
			break
		}
	}
	if !drawn {
		return ErrNothingToDraw
	}

	font, err := defaultFont()
	if err != nil {
		return err
	}
	r, err := newSVG(width, height)
	if err != nil {
		return fmt.Errorf("render treemap: %w", err)
	}

	drawLines(r, []string{in.Title}, width/2, treemapTitleHeight-12, textStyle(font, titleFontSize))

	labelStyle := textStyle(font, labelFontSize)
	labelStyle.FontColor = borderColor
	for i, rc := range rects {
		if rc.Area() <= 0 {
			continue
		}
		color := ""
		if i < len(in.Colors) {
			color = in.Colors[i]
		}
		fill := hex(color)
		chart.Draw.Box(r, chart.Box{
			Top:    int(math.Round(rc.Y)),
			Left:   int(math.Round(rc.X)),
			Right:  int(math.Round(rc.X + rc.W)),
			Bottom: int(math.Round(rc.Y + rc.H)),
		}, chart.Style{FillColor: fill, StrokeColor: borderColor, StrokeWidth: 2})

		if i >= len(in.Labels) || rc.W < minLabelWidth || rc.H < minLabelHeight {
			continue
		}
		lines := strings.Split(in.Labels[i], "\n")
		cx := int(rc.X + rc.W/2)
		cy := int(rc.Y+rc.H/2) - (len(lines)-1)*int(labelFontSize)/2
		drawLines(r, lines, cx, cy, labelStyle)
	}

	if err := save(r, w); err != nil {
		return fmt.Errorf("render treemap: %w", err)
	}
	return nil
}
