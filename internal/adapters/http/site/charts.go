package site

import (
	"bytes"
	"net/http"

	"github.com/okian/enow/internal/adapters/http/api"
	"github.com/okian/enow/internal/adapters/render"
	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/pkg/metrics"
)

const svgContentType = "image/svg+xml"

// HandleBarChart handles GET /charts/bar.svg?metric= requests.
func (s *Server) HandleBarChart(w http.ResponseWriter, r *http.Request) {
	_, def := s.deps.Defaults()
	metric := api.MetricParam(r, def)
	bars, err := s.deps.Bars(r.Context(), metric)
	if err != nil {
		s.chartFailure(w, r, render.ChartBar, err)
		return
	}
	var buf bytes.Buffer
	if err := render.BarSVG(&buf, impact.MetricLabel(metric)+" by Impact Type", bars); err != nil {
		s.chartFailure(w, r, render.ChartBar, err)
		return
	}
	writeSVG(w, render.ChartBar, buf.Bytes())
}

// HandleTreemapChart handles GET /charts/treemap.svg?metric= requests.
func (s *Server) HandleTreemapChart(w http.ResponseWriter, r *http.Request) {
	_, def := s.deps.Defaults()
	in, err := s.deps.Treemap(r.Context(), api.MetricParam(r, def))
	if err != nil {
		s.chartFailure(w, r, render.ChartTreemap, err)
		return
	}
	var buf bytes.Buffer
	if err := render.TreemapSVG(&buf, in, render.TreemapWidth, render.TreemapHeight); err != nil {
		s.chartFailure(w, r, render.ChartTreemap, err)
		return
	}
	writeSVG(w, render.ChartTreemap, buf.Bytes())
}

// HandleWaffleChart handles GET /charts/waffle.svg requests with the same
// parameters as the breakdown API.
func (s *Server) HandleWaffleChart(w http.ResponseWriter, r *http.Request) {
	state, metric := s.deps.Defaults()
	sel, mode, err := api.ParseSelection(r, state, metric)
	if err == nil {
		err = sel.Validate()
	}
	var res breakdown.Result
	if err == nil {
		res, err = s.deps.Breakdown(r.Context(), sel, mode)
	}
	if err != nil {
		s.chartFailure(w, r, render.ChartWaffle, err)
		return
	}
	var buf bytes.Buffer
	if err := render.WaffleSVG(&buf, res); err != nil {
		s.chartFailure(w, r, render.ChartWaffle, err)
		return
	}
	writeSVG(w, render.ChartWaffle, buf.Bytes())
}

func (s *Server) chartFailure(w http.ResponseWriter, r *http.Request, chart string, err error) {
	metrics.RecordChartError(chart)
	api.WriteFailure(w, r, "site.chart."+chart, err)
}

func writeSVG(w http.ResponseWriter, chart string, body []byte) {
	metrics.RecordChartRendered(chart)
	w.Header().Set("Content-Type", svgContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
