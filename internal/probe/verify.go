package probe

import (
	"fmt"

	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
)

// bucketsPerType is the region and rest pair each impact type gets in six mode.
const bucketsPerType = 2

// Verify returns the ways res breaks the waffle invariants. An empty result
// means res is consistent.
func Verify(res breakdown.Result) []string {
	var out []string
	bad := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	if res.Columns != breakdown.Columns {
		bad("columns = %d, want %d", res.Columns, breakdown.Columns)
	}
	if res.Rows != breakdown.GridRows(res.TotalSquares) {
		bad("rows = %d for %d squares", res.Rows, res.TotalSquares)
	}
	if res.Percentage < 0 || res.Percentage > 100 {
		bad("percentage %.2f out of range", res.Percentage)
	}

	switch res.Status {
	case breakdown.StatusNoData:
		if len(res.Buckets) != 0 {
			bad("no_data with %d buckets", len(res.Buckets))
		}
		return out
	case breakdown.StatusTooSmall:
		if res.TotalSquares != 0 {
			bad("too_small with %d squares", res.TotalSquares)
		}
	case breakdown.StatusOK:
		if res.TotalSquares <= 0 {
			bad("ok with %d squares", res.TotalSquares)
		}
	default:
		bad("unknown status %q", res.Status)
		return out
	}

	want := 2
	if res.Mode == breakdown.ModeByImpactType {
		want = bucketsPerType * len(impact.ImpactTypes())
	}
	if len(res.Buckets) != want {
		bad("%d buckets in %s mode, want %d", len(res.Buckets), res.Mode, want)
	}

	sum := 0
	for _, b := range res.Buckets {
		if b.Squares < 0 {
			bad("bucket %q has %d squares", b.Label, b.Squares)
		}
		if b.Squares != breakdown.Squares(b.Value, res.ValuePerSquare) {
			bad("bucket %q has %d squares for %.0f", b.Label, b.Squares, b.Value)
		}
		sum += b.Squares
	}
	if sum != res.TotalSquares {
		bad("bucket squares sum to %d, total says %d", sum, res.TotalSquares)
	}
	return out
}
