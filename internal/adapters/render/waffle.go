package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/national"
)

// Waffle geometry.
const (
	WaffleCell = 18
	waffleGap  = 2
	waffleEdge = 12

	waffleTitleHeight  = 32
	waffleLegendHeight = 20
)

const (
	regionColor = "#1F77B4"
	restColor   = "#C7C7C7"
)

// Rest-of-country shades for the per-impact-type mode.
var restColors = map[impact.ImpactType]string{
	impact.Direct:   "#AEC7E8",
	impact.Indirect: "#FFBB78",
	impact.Induced:  "#98DF8A",
}

// BucketColor returns the fill used for b's squares.
func BucketColor(b breakdown.Bucket) string {
	if b.ImpactType == "" {
		if b.Region {
			return regionColor
		}
		return restColor
	}
	if b.Region {
		return national.ImpactColor(b.ImpactType)
	}
	if c, ok := restColors[b.ImpactType]; ok {
		return c
	}
	return restColor
}

// WaffleSize returns the canvas size for res.
func WaffleSize(res breakdown.Result) (int, int) {
	cols := breakdown.Columns
	rows := breakdown.GridRows(res.TotalSquares)
	w := 2*waffleEdge + cols*(WaffleCell+waffleGap)
	h := waffleTitleHeight + rows*(WaffleCell+waffleGap) + waffleEdge + len(res.Buckets)*waffleLegendHeight + waffleEdge
	return w, h
}

// WaffleSVG draws res as a grid filled row by row in bucket order, followed by
// a legend. Only results with status ok are drawable.
func WaffleSVG(w io.Writer, res breakdown.Result) error {
	if res.Status != breakdown.StatusOK || res.TotalSquares <= 0 {
		return ErrNothingToDraw
	}
	cols := breakdown.Columns
	width, height := WaffleSize(res)

	font, err := defaultFont()
	if err != nil {
		return err
	}
	r, err := newSVG(width, height)
	if err != nil {
		return fmt.Errorf("render waffle: %w", err)
	}

	drawLines(r, []string{res.ScaleDescription}, width/2, waffleTitleHeight-12, textStyle(font, titleFontSize))

	step := WaffleCell + waffleGap
	n := 0
	for _, b := range res.Buckets {
		fill := hex(BucketColor(b))
		style := chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1}
		for i := 0; i < b.Squares; i++ {
			x := waffleEdge + (n%cols)*step
			y := waffleTitleHeight + (n/cols)*step
			chart.Draw.Box(r, chart.Box{Top: y, Left: x, Right: x + WaffleCell, Bottom: y + WaffleCell}, style)
			n++
		}
	}

	y := height - waffleEdge - len(res.Buckets)*waffleLegendHeight
	label := textStyle(font, labelFontSize)
	for _, b := range res.Buckets {
		fill := hex(BucketColor(b))
		chart.Draw.Box(r, chart.Box{Top: y, Left: waffleEdge, Right: waffleEdge + 12, Bottom: y + 12},
			chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1})
		chart.Draw.Text(r, escape(legendText(b)), waffleEdge+20, y+10, label)
		y += waffleLegendHeight
	}

	if err := save(r, w); err != nil {
		return fmt.Errorf("render waffle: %w", err)
	}
	return nil
}

func legendText(b breakdown.Bucket) string {
	if b.Squares == 1 {
		return b.Label + ": 1 square"
	}
	return fmt.Sprintf("%s: %s squares", b.Label, humanize.Comma(int64(b.Squares)))
}
