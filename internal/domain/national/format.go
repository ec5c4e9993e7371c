package national

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/okian/enow/internal/domain/impact"
)

const (
	million = 1_000_000
	billion = 1_000_000_000
)

// Formatted holds the display strings derived from a Summary.
type Formatted struct {
	DirectJobsMillions  string `json:"direct_jobs_millions"`
	DirectWagesBillions string `json:"direct_wages_billions"`
	DirectGDPBillions   string `json:"direct_gdp_billions"`
	TotalJobsMillions   string `json:"total_jobs_millions"`
	TotalWagesBillions  string `json:"total_wages_billions"`
	TotalGDPBillions    string `json:"total_gdp_billions"`
	TotalOutputBillions string `json:"total_output_billions"`
	AvgWagesPerWorker   string `json:"avg_wages_per_worker"`
	AvgGDPPerWorker     string `json:"avg_gdp_per_worker"`
}

// Format renders s into the fixed display strings.
func Format(s Summary) Formatted {
	return Formatted{
		DirectJobsMillions:  Millions(s.Direct[impact.WageAndSalaryEmployment]),
		DirectWagesBillions: DollarBillions(s.Direct[impact.WagesAndSalary]),
		DirectGDPBillions:   DollarBillions(s.Direct[impact.ValueAdded]),
		TotalJobsMillions:   Millions(s.Total[impact.WageAndSalaryEmployment]),
		TotalWagesBillions:  DollarBillions(s.Total[impact.WagesAndSalary]),
		TotalGDPBillions:    DollarBillions(s.Total[impact.ValueAdded]),
		TotalOutputBillions: DollarBillions(s.Total[impact.Output]),
		AvgWagesPerWorker:   Dollars(s.AvgWagePerWorker),
		AvgGDPPerWorker:     Dollars(s.AvgGDPPerWorker),
	}
}

// Millions formats v in millions with one decimal: 3_900_000 -> "3.9".
func Millions(v float64) string {
	return strconv.FormatFloat(v/million, 'f', 1, 64)
}

// DollarBillions formats v in billions of dollars: 250e9 -> "$250".
func DollarBillions(v float64) string {
	return "$" + strconv.FormatFloat(v/billion, 'f', 0, 64)
}

// Dollars formats v as comma-grouped whole dollars: 64102.56 -> "$64,103".
func Dollars(v float64) string {
	return "$" + humanize.Comma(int64(math.RoundToEven(v)))
}
