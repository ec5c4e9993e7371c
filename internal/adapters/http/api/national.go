package api

import (
	"net/http"

	"github.com/okian/enow/internal/domain/national"
)

// NationalHandler serves the national summary and chart inputs.
type NationalHandler struct {
	deps Dependencies
}

// NewNationalHandler creates a new national handler.
func NewNationalHandler(deps Dependencies) *NationalHandler {
	return &NationalHandler{deps: deps}
}

type summaryResponse struct {
	Summary   national.Summary   `json:"summary"`
	Formatted national.Formatted `json:"formatted"`
}

// HandleSummary handles GET /api/summary requests.
func (h *NationalHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.summary"
	if !onlyGet(w, r) {
		return
	}
	s, err := h.deps.Summary(r.Context())
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: s, Formatted: national.Format(s)})
}

// HandlePictograms handles GET /api/pictograms requests.
func (h *NationalHandler) HandlePictograms(w http.ResponseWriter, r *http.Request) {
	const op = "api.pictograms"
	if !onlyGet(w, r) {
		return
	}
	p, err := h.deps.Pictograms(r.Context())
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleTreemap handles GET /api/treemap?metric= requests.
func (h *NationalHandler) HandleTreemap(w http.ResponseWriter, r *http.Request) {
	const op = "api.treemap"
	if !onlyGet(w, r) {
		return
	}
	_, def := h.deps.Defaults()
	in, err := h.deps.Treemap(r.Context(), MetricParam(r, def))
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// HandleBars handles GET /api/bars?metric= requests.
func (h *NationalHandler) HandleBars(w http.ResponseWriter, r *http.Request) {
	const op = "api.bars"
	if !onlyGet(w, r) {
		return
	}
	_, def := h.deps.Defaults()
	bars, err := h.deps.Bars(r.Context(), MetricParam(r, def))
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, bars)
}
