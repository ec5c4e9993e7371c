package api

import (
	"net/http"
	"strings"

	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
)

// Query parameter names shared by the API and the pages.
const (
	ParamState     = "state"
	ParamMetric    = "metric"
	ParamImpact    = "impact"
	ParamMode      = "mode"
	ParamSubmitted = "submitted"
)

// ParseSelection reads a breakdown selection from r's query. Missing state and
// metric fall back to the given defaults. Impact types are read from repeated
// or comma separated impact parameters; when neither impact nor submitted is
// present every type is selected, so a first visit shows the full picture
// while an explicit empty choice stays empty.
func ParseSelection(r *http.Request, defaultState, defaultMetric string) (breakdown.Selection, breakdown.Mode, error) {
	q := r.URL.Query()

	sel := breakdown.Selection{
		State:  strings.TrimSpace(q.Get(ParamState)),
		Metric: strings.TrimSpace(q.Get(ParamMetric)),
	}
	if sel.State == "" {
		sel.State = defaultState
	}
	if sel.Metric == "" {
		sel.Metric = defaultMetric
	}

	mode, err := breakdown.ParseMode(strings.TrimSpace(q.Get(ParamMode)))
	if err != nil {
		return breakdown.Selection{}, "", err
	}

	_, explicit := q[ParamImpact]
	_, submitted := q[ParamSubmitted]
	if !explicit && !submitted {
		sel.ImpactTypes = impact.ImpactTypes()
		return sel, mode, nil
	}

	sel.ImpactTypes, err = impact.ParseImpactTypes(q[ParamImpact])
	if err != nil {
		return breakdown.Selection{}, "", err
	}
	return sel, mode, nil
}

// HasSelection reports whether r carries any breakdown parameter.
func HasSelection(r *http.Request) bool {
	q := r.URL.Query()
	for _, k := range []string{ParamState, ParamMetric, ParamImpact, ParamMode, ParamSubmitted} {
		if _, ok := q[k]; ok {
			return true
		}
	}
	return false
}

// MetricParam returns the metric query parameter or fallback.
func MetricParam(r *http.Request, fallback string) string {
	if m := strings.TrimSpace(r.URL.Query().Get(ParamMetric)); m != "" {
		return m
	}
	return fallback
}
