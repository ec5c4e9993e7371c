// Package impact defines the ocean-economy impact tables and their column
// vocabulary.
package impact

import (
	"fmt"
	"strings"

	"github.com/okian/enow/internal/domain/table"
)

// ImpactType categorizes how an economic effect propagates.
type ImpactType string

// Impact types in canonical order.
const (
	Direct   ImpactType = "Direct"
	Indirect ImpactType = "Indirect"
	Induced  ImpactType = "Induced"
)

// Column names shared by both tables.
const (
	ColImpactType       = "ImpactType"
	ColDestinationState = "DestinationState"
)

// Metric column names.
const (
	WageAndSalaryEmployment = "WageAndSalaryEmployment"
	ProprietorEmployment    = "ProprietorEmployment"
	WagesAndSalary          = "Wages_and_Salary"
	ValueAdded              = "Value_Added"
	Output                  = "Output"
)

// ImpactTypes returns every impact type in canonical order.
func ImpactTypes() []ImpactType {
	return []ImpactType{Direct, Indirect, Induced}
}

// ParseImpactType accepts the case-insensitive name of an impact type.
func ParseImpactType(s string) (ImpactType, error) {
	for _, t := range ImpactTypes() {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownImpactType, s)
}

// ParseImpactTypes parses values that may each hold a comma separated list.
// Blanks are skipped and the result is deduplicated in canonical order.
func ParseImpactTypes(values []string) ([]ImpactType, error) {
	seen := make(map[ImpactType]bool)
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			it, err := ParseImpactType(part)
			if err != nil {
				return nil, err
			}
			seen[it] = true
		}
	}
	var out []ImpactType
	for _, it := range ImpactTypes() {
		if seen[it] {
			out = append(out, it)
		}
	}
	return out, nil
}

// MetricLabel returns the display name of a metric column.
func MetricLabel(metric string) string {
	switch metric {
	case WageAndSalaryEmployment:
		return "Wage and Salary Employment"
	case ProprietorEmployment:
		return "Proprietor Employment"
	case WagesAndSalary:
		return "Wages and Salary"
	case ValueAdded:
		return "Value Added (GDP)"
	case Output:
		return "Output"
	default:
		return strings.ReplaceAll(metric, "_", " ")
	}
}

// IsEmployment reports whether a metric counts jobs rather than dollars.
func IsEmployment(metric string) bool {
	return metric == WageAndSalaryEmployment || metric == ProprietorEmployment
}

// normalizeKeys validates the ImpactType column and returns a table whose
// impact types use their canonical spelling, along with the parsed values.
func normalizeKeys(t *table.Table) (*table.Table, []ImpactType, error) {
	raw, err := t.Strings(ColImpactType)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing %s column", ErrSchema, ColImpactType)
	}
	out := make([]ImpactType, len(raw))
	canon := make([]string, len(raw))
	for i, v := range raw {
		it, err := ParseImpactType(v)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out[i] = it
		canon[i] = string(it)
	}
	nt, err := t.ReplaceKeys(ColImpactType, canon)
	if err != nil {
		return nil, nil, err
	}
	return nt, out, nil
}

func checkNonNegative(t *table.Table) error {
	for _, col := range t.MetricColumns() {
		vals, _ := t.Floats(col)
		for i, v := range vals {
			if v < 0 {
				return fmt.Errorf("%w: %s row %d is %v", ErrNegativeValue, col, i+1, v)
			}
		}
	}
	return nil
}
