// Package national aggregates the national impact table into the headline
// figures shown on the summary pages.
package national

import (
	"fmt"
	"math"

	"github.com/okian/enow/internal/domain/impact"
)

// Summary is the aggregate of a national impact table.
type Summary struct {
	// Direct holds the metric values of the single Direct row.
	Direct map[string]float64 `json:"direct"`

	// Total holds every metric summed across all impact types.
	Total map[string]float64 `json:"total"`

	AvgWagePerWorker float64 `json:"avg_wage_per_worker"`
	AvgGDPPerWorker  float64 `json:"avg_gdp_per_worker"`
}

// Compute aggregates t. It fails with ErrDataShape unless exactly one Direct
// row exists, and with ErrDivisionByZero when total employment is zero.
func Compute(t *impact.NationalTable) (Summary, error) {
	rows := t.Rows(impact.Direct)
	if len(rows) != 1 {
		return Summary{}, fmt.Errorf("%w: found %d Direct rows, want 1", ErrDataShape, len(rows))
	}
	for _, col := range []string{impact.WageAndSalaryEmployment, impact.WagesAndSalary, impact.ValueAdded} {
		if !t.Table().IsMetric(col) {
			return Summary{}, fmt.Errorf("%w: missing %s column", ErrDataShape, col)
		}
	}

	direct := make(map[string]float64, len(t.Metrics()))
	for _, m := range t.Metrics() {
		v, err := t.Value(rows[0], m)
		if err != nil {
			return Summary{}, err
		}
		direct[m] = v
	}
	total := t.Table().Sums()

	jobs := total[impact.WageAndSalaryEmployment]
	if jobs == 0 {
		return Summary{}, fmt.Errorf("%w: total %s is zero", ErrDivisionByZero, impact.WageAndSalaryEmployment)
	}
	return Summary{
		Direct:           direct,
		Total:            total,
		AvgWagePerWorker: total[impact.WagesAndSalary] / jobs,
		AvgGDPPerWorker:  total[impact.ValueAdded] / jobs,
	}, nil
}

// IconCount returns how many whole icons of size scale fit into value.
func IconCount(value, scale float64) int {
	if scale <= 0 || value <= 0 {
		return 0
	}
	return int(math.Floor(value / scale))
}
