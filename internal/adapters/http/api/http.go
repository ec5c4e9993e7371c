// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/enow/internal/adapters/render"
	service "github.com/okian/enow/internal/app"
	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/national"
	"github.com/okian/enow/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Summary(ctx context.Context) (national.Summary, error)
	Formatted(ctx context.Context) (national.Formatted, error)
	Pictograms(ctx context.Context) ([]national.Pictogram, error)
	Treemap(ctx context.Context, metric string) (national.TreemapInput, error)
	Bars(ctx context.Context, metric string) ([]national.Bar, error)

	States(ctx context.Context) ([]string, error)
	Metrics(ctx context.Context) ([]string, error)
	Breakdown(ctx context.Context, sel breakdown.Selection, mode breakdown.Mode) (breakdown.Result, error)

	// Defaults returns the preselected state and metric.
	Defaults() (state, metric string)
}

// Server wires HTTP routes for the JSON API.
type Server struct {
	monitorHandler   *MonitorHandler
	nationalHandler  *NationalHandler
	breakdownHandler *BreakdownHandler
	exportHandler    *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		monitorHandler:   NewMonitorHandler(statsProvider),
		nationalHandler:  NewNationalHandler(deps),
		breakdownHandler: NewBreakdownHandler(deps),
		exportHandler:    NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	handle := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestID(MetricsMiddleware(h, endpoint)))
	}

	handle("/healthz", "healthz", s.monitorHandler.HandleHealth)
	handle("/stats", "stats", s.monitorHandler.HandleStats)
	handle("/api/summary", "summary", s.nationalHandler.HandleSummary)
	handle("/api/pictograms", "pictograms", s.nationalHandler.HandlePictograms)
	handle("/api/treemap", "treemap", s.nationalHandler.HandleTreemap)
	handle("/api/bars", "bars", s.nationalHandler.HandleBars)
	handle("/api/states", "states", s.breakdownHandler.HandleStates)
	handle("/api/metrics", "metrics", s.breakdownHandler.HandleMetrics)
	handle("/api/breakdown", "breakdown", s.breakdownHandler.HandleBreakdown)
	handle("/api/export.xlsx", "export", s.exportHandler.HandleExport)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// WriteFailure maps err to a status code and error code and writes it. Server
// side failures are logged with the request id.
func WriteFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := Classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, Wrap(op, err))
}

// Classify returns the HTTP status and error code for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, breakdown.ErrEmptySelection):
		return http.StatusBadRequest, "empty_selection"
	case errors.Is(err, breakdown.ErrUnknownMetric), errors.Is(err, national.ErrUnknownMetric):
		return http.StatusBadRequest, "unknown_metric"
	case errors.Is(err, breakdown.ErrUnknownState):
		return http.StatusBadRequest, "unknown_state"
	case errors.Is(err, breakdown.ErrUnknownMode):
		return http.StatusBadRequest, "unknown_mode"
	case errors.Is(err, impact.ErrUnknownImpactType):
		return http.StatusBadRequest, "unknown_impact_type"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, render.ErrNothingToDraw):
		return http.StatusUnprocessableEntity, "nothing_to_draw"
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, national.ErrDataShape), errors.Is(err, national.ErrDivisionByZero):
		return http.StatusUnprocessableEntity, "invalid_data"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func onlyGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return false
	}
	return true
}
