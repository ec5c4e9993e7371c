package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/enow/pkg/metrics"
)

// StatsProvider reports the loaded tables and source paths for /stats.
type StatsProvider interface {
	GetStats() map[string]any
}

// MonitorHandler serves the operational endpoints.
type MonitorHandler struct {
	stats   StatsProvider
	metrics http.Handler
}

// NewMonitorHandler exposes stats from p and the dashboard metrics registry.
func NewMonitorHandler(p StatsProvider) *MonitorHandler {
	return &MonitorHandler{
		stats:   p,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth answers GET /healthz with the Prometheus exposition.
func (h *MonitorHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !onlyGet(w, r) {
		return
	}
	h.metrics.ServeHTTP(w, r)
}

// HandleStats answers GET /stats.
func (h *MonitorHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if !onlyGet(w, r) {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.stats.GetStats())
}
