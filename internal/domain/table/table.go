// Package table provides a small read-only columnar table used to hold the
// impact tables in memory and aggregate them column-wise.
package table

import (
	"fmt"
	"sort"
)

// Table is an immutable set of named columns of equal length. Key columns hold
// strings; metric columns hold float64 values.
type Table struct {
	rows    int
	keys    map[string][]string
	metrics map[string][]float64
	// column order as loaded, used for stable output
	keyOrder    []string
	metricOrder []string
}

// Builder accumulates columns before freezing them into a Table.
type Builder struct {
	t   *Table
	err error
}

// NewBuilder starts a table with the given number of rows.
func NewBuilder(rows int) *Builder {
	return &Builder{t: &Table{
		rows:    rows,
		keys:    make(map[string][]string),
		metrics: make(map[string][]float64),
	}}
}

// Keys adds a string column.
func (b *Builder) Keys(name string, values []string) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.check(name, len(values)); err != nil {
		b.err = err
		return b
	}
	b.t.keys[name] = append([]string(nil), values...)
	b.t.keyOrder = append(b.t.keyOrder, name)
	return b
}

// Metric adds a numeric column.
func (b *Builder) Metric(name string, values []float64) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.check(name, len(values)); err != nil {
		b.err = err
		return b
	}
	b.t.metrics[name] = append([]float64(nil), values...)
	b.t.metricOrder = append(b.t.metricOrder, name)
	return b
}

func (b *Builder) check(name string, n int) error {
	if name == "" {
		return fmt.Errorf("%w: empty column name", ErrShape)
	}
	if b.t.HasColumn(name) {
		return fmt.Errorf("%w: duplicate column %q", ErrShape, name)
	}
	if n != b.t.rows {
		return fmt.Errorf("%w: column %q has %d rows, want %d", ErrShape, name, n, b.t.rows)
	}
	return nil
}

// Build returns the finished table.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	t := b.t
	b.t = nil
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// HasColumn reports whether a key or metric column exists.
func (t *Table) HasColumn(name string) bool {
	if _, ok := t.keys[name]; ok {
		return true
	}
	_, ok := t.metrics[name]
	return ok
}

// IsMetric reports whether name is a numeric column.
func (t *Table) IsMetric(name string) bool {
	_, ok := t.metrics[name]
	return ok
}

// MetricColumns returns numeric column names in load order.
func (t *Table) MetricColumns() []string {
	return append([]string(nil), t.metricOrder...)
}

// KeyColumns returns string column names in load order.
func (t *Table) KeyColumns() []string {
	return append([]string(nil), t.keyOrder...)
}

// Strings returns a copy of a key column.
func (t *Table) Strings(col string) ([]string, error) {
	v, ok := t.keys[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	return append([]string(nil), v...), nil
}

// Floats returns a copy of a metric column.
func (t *Table) Floats(col string) ([]float64, error) {
	v, ok := t.metrics[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	return append([]float64(nil), v...), nil
}

// Filter returns a new table containing the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	idx := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.take(idx)
}

// Where keeps the rows whose key column col holds one of values.
func (t *Table) Where(col string, values ...string) (*Table, error) {
	keys, ok := t.keys[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return t.Filter(func(row int) bool {
		_, hit := set[keys[row]]
		return hit
	}), nil
}

func (t *Table) take(idx []int) *Table {
	out := &Table{
		rows:        len(idx),
		keys:        make(map[string][]string, len(t.keys)),
		metrics:     make(map[string][]float64, len(t.metrics)),
		keyOrder:    append([]string(nil), t.keyOrder...),
		metricOrder: append([]string(nil), t.metricOrder...),
	}
	for name, col := range t.keys {
		vals := make([]string, len(idx))
		for i, r := range idx {
			vals[i] = col[r]
		}
		out.keys[name] = vals
	}
	for name, col := range t.metrics {
		vals := make([]float64, len(idx))
		for i, r := range idx {
			vals[i] = col[r]
		}
		out.metrics[name] = vals
	}
	return out
}

// Sum adds up a metric column.
func (t *Table) Sum(col string) (float64, error) {
	vals, ok := t.metrics[col]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	var total float64
	for _, v := range vals {
		total += v
	}
	return total, nil
}

// Sums adds up every metric column.
func (t *Table) Sums() map[string]float64 {
	out := make(map[string]float64, len(t.metrics))
	for name := range t.metrics {
		out[name], _ = t.Sum(name)
	}
	return out
}

// GroupSum sums col grouped by the key column by.
func (t *Table) GroupSum(by, col string) (map[string]float64, error) {
	keys, ok := t.keys[by]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, by)
	}
	vals, ok := t.metrics[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	out := make(map[string]float64)
	for i, k := range keys {
		out[k] += vals[i]
	}
	return out, nil
}

// Distinct returns the sorted distinct values of a key column.
func (t *Table) Distinct(col string) ([]string, error) {
	keys, ok := t.keys[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// ReplaceKeys returns a copy of t with the key column name replaced by values.
func (t *Table) ReplaceKeys(name string, values []string) (*Table, error) {
	if _, ok := t.keys[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if len(values) != t.rows {
		return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrShape, name, len(values), t.rows)
	}
	idx := make([]int, t.rows)
	for i := range idx {
		idx[i] = i
	}
	out := t.take(idx)
	out.keys[name] = append([]string(nil), values...)
	return out, nil
}
