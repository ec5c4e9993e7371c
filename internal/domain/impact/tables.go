package impact

import (
	"fmt"

	"github.com/okian/enow/internal/domain/table"
)

// NationalTable holds one row per impact type with national metric totals.
type NationalTable struct {
	t     *table.Table
	types []ImpactType
}

// NewNationalTable validates t as a national impact table. Impact types are
// normalized to their canonical spelling.
func NewNationalTable(t *table.Table) (*NationalTable, error) {
	t, types, err := normalizeKeys(t)
	if err != nil {
		return nil, err
	}
	if len(t.MetricColumns()) == 0 {
		return nil, fmt.Errorf("%w: no metric columns", ErrSchema)
	}
	if err := checkNonNegative(t); err != nil {
		return nil, err
	}
	return &NationalTable{t: t, types: types}, nil
}

// Table exposes the underlying columns.
func (n *NationalTable) Table() *table.Table { return n.t }

// Types returns the impact type of every row in table order.
func (n *NationalTable) Types() []ImpactType {
	return append([]ImpactType(nil), n.types...)
}

// Metrics returns the metric column names.
func (n *NationalTable) Metrics() []string { return n.t.MetricColumns() }

// Rows returns the row indexes whose impact type equals it.
func (n *NationalTable) Rows(it ImpactType) []int {
	var out []int
	for i, t := range n.types {
		if t == it {
			out = append(out, i)
		}
	}
	return out
}

// Value returns the metric value at row.
func (n *NationalTable) Value(row int, metric string) (float64, error) {
	vals, err := n.t.Floats(metric)
	if err != nil {
		return 0, err
	}
	if row < 0 || row >= len(vals) {
		return 0, fmt.Errorf("%w: row %d out of range", ErrSchema, row)
	}
	return vals[row], nil
}

// StateTable holds metric values keyed by destination state and impact type.
type StateTable struct {
	t      *table.Table
	types  []ImpactType
	states []string
}

// NewStateTable validates t as a state impact table.
func NewStateTable(t *table.Table) (*StateTable, error) {
	t, types, err := normalizeKeys(t)
	if err != nil {
		return nil, err
	}
	states, err := t.Strings(ColDestinationState)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %s column", ErrSchema, ColDestinationState)
	}
	if len(t.MetricColumns()) == 0 {
		return nil, fmt.Errorf("%w: no metric columns", ErrSchema)
	}
	seen := make(map[string]struct{}, len(states))
	for i, s := range states {
		key := s + "\x00" + string(types[i])
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateRow, s, types[i])
		}
		seen[key] = struct{}{}
	}
	if err := checkNonNegative(t); err != nil {
		return nil, err
	}
	distinct, _ := t.Distinct(ColDestinationState)
	return &StateTable{t: t, types: types, states: distinct}, nil
}

// Table exposes the underlying columns.
func (s *StateTable) Table() *table.Table { return s.t }

// States returns the sorted distinct destination states.
func (s *StateTable) States() []string { return append([]string(nil), s.states...) }

// HasState reports whether state appears in the table.
func (s *StateTable) HasState(state string) bool {
	for _, v := range s.states {
		if v == state {
			return true
		}
	}
	return false
}

// Metrics returns the metric column names.
func (s *StateTable) Metrics() []string { return s.t.MetricColumns() }

// ImpactTypeAt returns the normalized impact type of a row.
func (s *StateTable) ImpactTypeAt(row int) ImpactType { return s.types[row] }
