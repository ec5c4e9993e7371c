// Package breakdown splits a metric from the state impact table into waffle
// chart squares for a selected state against the rest of the country.
package breakdown

import (
	"fmt"
	"math"

	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/table"
)

// Fixed layout and labelling constants.
const (
	AllStates   = "All"
	NationLabel = "United States"
	RestLabel   = "Rest of U.S."

	// Columns is the fixed waffle width.
	Columns = 25

	jobsPerSquare    = 25_000
	dollarsPerSquare = 1_000_000_000
)

// Mode selects how buckets are formed.
type Mode string

// Breakdown modes.
const (
	// ModeStateVsRest yields two buckets: the selected state and the rest.
	ModeStateVsRest Mode = "two"

	// ModeByImpactType yields six buckets: state and rest per impact type.
	ModeByImpactType Mode = "six"
)

// ParseMode accepts "two"/"six" and the empty string, which means two.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeStateVsRest:
		return ModeStateVsRest, nil
	case ModeByImpactType:
		return ModeByImpactType, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Status distinguishes drawable results from the two degenerate cases.
type Status string

// Result statuses.
const (
	StatusOK       Status = "ok"
	StatusNoData   Status = "no_data"
	StatusTooSmall Status = "too_small"
)

// Selection is the user's filter for a single breakdown pass.
type Selection struct {
	State       string              `json:"state"`
	Metric      string              `json:"metric"`
	ImpactTypes []impact.ImpactType `json:"impact_types"`
}

// Validate enforces that at least one impact type is selected.
func (s Selection) Validate() error {
	if len(s.ImpactTypes) == 0 {
		return ErrEmptySelection
	}
	return nil
}

// Includes reports whether it is part of the selection.
func (s Selection) Includes(it impact.ImpactType) bool {
	for _, v := range s.ImpactTypes {
		if v == it {
			return true
		}
	}
	return false
}

func (s Selection) typeKeys() []string {
	out := make([]string, len(s.ImpactTypes))
	for i, it := range s.ImpactTypes {
		out[i] = string(it)
	}
	return out
}

// Bucket is one waffle category.
type Bucket struct {
	Label      string            `json:"label"`
	ImpactType impact.ImpactType `json:"impact_type,omitempty"`
	Region     bool              `json:"region"`
	Value      float64           `json:"value"`
	Squares    int               `json:"squares"`
}

// Result is a scaled breakdown ready for a waffle renderer.
type Result struct {
	Status           Status   `json:"status"`
	Mode             Mode     `json:"mode"`
	State            string   `json:"state"`
	Metric           string   `json:"metric"`
	ValuePerSquare   float64  `json:"value_per_square"`
	ScaleDescription string   `json:"scale_description"`
	NationalTotal    float64  `json:"national_total"`
	StateTotal       float64  `json:"state_total"`
	Percentage       float64  `json:"percentage"`
	Buckets          []Bucket `json:"buckets"`
	TotalSquares     int      `json:"total_squares"`
	Columns          int      `json:"columns"`
	Rows             int      `json:"rows"`
}

// ValuePerSquare is the quantity one square stands for: 25,000 jobs for the
// employment metrics and $1 billion for everything else.
func ValuePerSquare(metric string) float64 {
	switch metric {
	case impact.WageAndSalaryEmployment, impact.ProprietorEmployment:
		return jobsPerSquare
	default:
		return dollarsPerSquare
	}
}

// ScaleDescription is the legend text for metric's square size.
func ScaleDescription(metric string) string {
	if ValuePerSquare(metric) == jobsPerSquare {
		return "Each square represents 25,000 jobs"
	}
	return "Each square represents $1 billion"
}

// Squares converts value into a square count, rounding half to even.
func Squares(value, perSquare float64) int {
	if perSquare <= 0 {
		return 0
	}
	return int(math.RoundToEven(value / perSquare))
}

// GridRows returns the waffle height for total squares at Columns wide; never
// less than one.
func GridRows(total int) int {
	rows := (total + Columns - 1) / Columns
	if rows < 1 {
		return 1
	}
	return rows
}

// Compute runs the breakdown in the given mode.
func Compute(t *impact.StateTable, sel Selection, mode Mode) (Result, error) {
	switch mode {
	case ModeStateVsRest:
		return StateVsRest(t, sel)
	case ModeByImpactType:
		return ByImpactType(t, sel)
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// StateVsRest splits the selected metric into the selected state and the rest
// of the country.
func StateVsRest(t *impact.StateTable, sel Selection) (Result, error) {
	filtered, err := prepare(t, sel)
	if err != nil {
		return Result{}, err
	}
	res := newResult(sel, ModeStateVsRest)

	national, err := filtered.Sum(sel.Metric)
	if err != nil {
		return Result{}, err
	}
	state, err := stateTotal(filtered, sel, national)
	if err != nil {
		return Result{}, err
	}
	res.NationalTotal, res.StateTotal = national, state
	if national == 0 {
		return res.noData(), nil
	}
	res.Percentage = state / national * 100
	res.Buckets = []Bucket{
		{Label: regionLabel(sel.State), Region: true, Value: state},
		{Label: RestLabel, Value: national - state},
	}
	return res.scale(), nil
}

// ByImpactType splits the selected metric into state and rest buckets for each
// impact type. Types outside the selection contribute zero.
func ByImpactType(t *impact.StateTable, sel Selection) (Result, error) {
	filtered, err := prepare(t, sel)
	if err != nil {
		return Result{}, err
	}
	res := newResult(sel, ModeByImpactType)

	nationalByType, err := filtered.GroupSum(impact.ColImpactType, sel.Metric)
	if err != nil {
		return Result{}, err
	}
	stateByType := nationalByType
	if sel.State != AllStates {
		inState, err := filtered.Where(impact.ColDestinationState, sel.State)
		if err != nil {
			return Result{}, err
		}
		if stateByType, err = inState.GroupSum(impact.ColImpactType, sel.Metric); err != nil {
			return Result{}, err
		}
	}

	types := impact.ImpactTypes()
	region := make([]Bucket, len(types))
	rest := make([]Bucket, len(types))
	for i, it := range types {
		nat := nationalByType[string(it)]
		st := stateByType[string(it)]
		res.NationalTotal += nat
		res.StateTotal += st
		region[i] = Bucket{Label: fmt.Sprintf("%s (%s)", regionLabel(sel.State), it), ImpactType: it, Region: true, Value: st}
		rest[i] = Bucket{Label: fmt.Sprintf("%s (%s)", RestLabel, it), ImpactType: it, Value: nat - st}
	}
	if res.NationalTotal == 0 {
		return res.noData(), nil
	}
	res.Percentage = res.StateTotal / res.NationalTotal * 100
	res.Buckets = append(region, rest...)
	return res.scale(), nil
}

func prepare(t *impact.StateTable, sel Selection) (*table.Table, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if !t.Table().IsMetric(sel.Metric) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, sel.Metric)
	}
	if sel.State != AllStates && !t.HasState(sel.State) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, sel.State)
	}
	return t.Table().Where(impact.ColImpactType, sel.typeKeys()...)
}

func stateTotal(filtered *table.Table, sel Selection, national float64) (float64, error) {
	if sel.State == AllStates {
		return national, nil
	}
	inState, err := filtered.Where(impact.ColDestinationState, sel.State)
	if err != nil {
		return 0, err
	}
	return inState.Sum(sel.Metric)
}

func regionLabel(state string) string {
	if state == AllStates {
		return NationLabel
	}
	return state
}

func newResult(sel Selection, mode Mode) Result {
	return Result{
		Mode:             mode,
		State:            sel.State,
		Metric:           sel.Metric,
		ValuePerSquare:   ValuePerSquare(sel.Metric),
		ScaleDescription: ScaleDescription(sel.Metric),
		Columns:          Columns,
		Rows:             1,
	}
}

func (r Result) noData() Result {
	r.Status = StatusNoData
	r.Buckets = nil
	return r
}

func (r Result) scale() Result {
	r.TotalSquares = 0
	for i := range r.Buckets {
		r.Buckets[i].Squares = Squares(r.Buckets[i].Value, r.ValuePerSquare)
		r.TotalSquares += r.Buckets[i].Squares
	}
	if r.TotalSquares == 0 {
		r.Status = StatusTooSmall
		return r
	}
	r.Status = StatusOK
	r.Rows = GridRows(r.TotalSquares)
	return r
}
