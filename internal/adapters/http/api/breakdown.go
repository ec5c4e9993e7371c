package api

import (
	"net/http"

	"github.com/okian/enow/internal/domain/impact"
)

// BreakdownHandler serves state lists and waffle breakdowns.
type BreakdownHandler struct {
	deps Dependencies
}

// NewBreakdownHandler creates a new breakdown handler.
func NewBreakdownHandler(deps Dependencies) *BreakdownHandler {
	return &BreakdownHandler{deps: deps}
}

type metricResponse struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// HandleStates handles GET /api/states requests.
func (h *BreakdownHandler) HandleStates(w http.ResponseWriter, r *http.Request) {
	const op = "api.states"
	if !onlyGet(w, r) {
		return
	}
	states, err := h.deps.States(r.Context())
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

// HandleMetrics handles GET /api/metrics requests.
func (h *BreakdownHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.metrics"
	if !onlyGet(w, r) {
		return
	}
	names, err := h.deps.Metrics(r.Context())
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	out := make([]metricResponse, len(names))
	for i, n := range names {
		out[i] = metricResponse{Name: n, Label: impact.MetricLabel(n)}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleBreakdown handles GET /api/breakdown requests.
func (h *BreakdownHandler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	const op = "api.breakdown"
	if !onlyGet(w, r) {
		return
	}
	state, metric := h.deps.Defaults()
	sel, mode, err := ParseSelection(r, state, metric)
	if err == nil {
		err = sel.Validate()
	}
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	res, err := h.deps.Breakdown(r.Context(), sel, mode)
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
