package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/okian/enow/internal/adapters/http/api"
	"github.com/okian/enow/internal/adapters/render"
	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/nav"
	"github.com/okian/enow/internal/domain/national"
	"github.com/okian/enow/pkg/logger"
)

// Messages shown on the state page instead of a chart.
const (
	MsgEmptySelection = "Please select at least one impact type."
	MsgNoData         = "No data is available for this selection."
	MsgTooSmall       = "The selected values are too small to show at this scale."
)

// narrative document of each details section, keyed by pictogram metric.
var sectionDocs = map[string]string{
	impact.WageAndSalaryEmployment: "employment",
	impact.WagesAndSalary:          "wages",
	impact.ValueAdded:              "gdp",
	impact.Output:                  "output",
}

type option struct {
	Name     string
	Label    string
	Selected bool
}

type section struct {
	ID        string
	Title     string
	Narrative template.HTML
	Pictogram national.Pictogram
}

type bucketRow struct {
	Label   string
	Value   string
	Squares int
	Color   string
}

type pageData struct {
	Nav       nav.Context
	Narrative template.HTML
	Map       string

	Sections []section

	Metric      string
	Metrics     []option
	States      []option
	ImpactTypes []option
	Modes       []option

	Message   string
	Result    *breakdown.Result
	Share     string
	Buckets   []bucketRow
	WaffleURL string
	ExportURL string
}

// HandleMain handles GET / requests.
func (s *Server) HandleMain(w http.ResponseWriter, r *http.Request) {
	const op = "site.main"
	data, err := s.base(nav.Main)
	if err == nil {
		data.Narrative, err = s.narrativeFor(r, "main")
	}
	if err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	data.Map = s.mapURL(r, breakdown.AllStates)
	s.render(w, r, nav.Main, data)
}

// HandleDetails handles GET /details requests.
func (s *Server) HandleDetails(w http.ResponseWriter, r *http.Request) {
	const op = "site.details"
	ctx := r.Context()
	data, err := s.base(nav.Details)
	if err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	f, err := s.deps.Formatted(ctx)
	if err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	pictograms, err := s.deps.Pictograms(ctx)
	if err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	for _, p := range pictograms {
		doc, ok := sectionDocs[p.Metric]
		if !ok {
			continue
		}
		body, err := s.narrative.Render(doc, f)
		if err != nil {
			api.WriteFailure(w, r, op, err)
			return
		}
		data.Sections = append(data.Sections, section{ID: doc, Title: p.Title, Narrative: body, Pictogram: p})
	}
	s.render(w, r, nav.Details, data)
}

// HandleTreemap handles GET /treemap?metric= requests.
func (s *Server) HandleTreemap(w http.ResponseWriter, r *http.Request) {
	const op = "site.treemap"
	ctx := r.Context()
	data, err := s.base(nav.Treemap)
	if err == nil {
		data.Narrative, err = s.narrativeFor(r, "treemap")
	}
	if err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	_, def := s.deps.Defaults()
	data.Metric = api.MetricParam(r, def)

	// validates the metric before the chart is requested
	if _, err := s.deps.Treemap(ctx, data.Metric); err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	if data.Metrics, err = s.metricOptions(r, data.Metric); err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	s.render(w, r, nav.Treemap, data)
}

// HandleState handles GET /state requests. An empty impact type selection
// shows a prompt without computing anything.
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	const op = "site.state"
	ctx := r.Context()
	data, err := s.base(nav.State)
	if err == nil {
		data.Narrative, err = s.narrativeFor(r, "state")
	}
	if err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}

	defState, defMetric := s.deps.Defaults()
	sel, mode, err := api.ParseSelection(r, defState, defMetric)
	if err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	if data.Metrics, err = s.metricOptions(r, sel.Metric); err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	if data.States, err = s.stateOptions(r, sel.State); err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	for _, it := range impact.ImpactTypes() {
		data.ImpactTypes = append(data.ImpactTypes, option{Name: string(it), Label: string(it), Selected: sel.Includes(it)})
	}
	data.Modes = []option{
		{Name: string(breakdown.ModeStateVsRest), Label: "State vs. rest of U.S.", Selected: mode == breakdown.ModeStateVsRest},
		{Name: string(breakdown.ModeByImpactType), Label: "By impact type", Selected: mode == breakdown.ModeByImpactType},
	}
	data.Map = s.mapURL(r, sel.State)

	if err := sel.Validate(); err != nil {
		data.Message = MsgEmptySelection
		s.render(w, r, nav.State, data)
		return
	}

	res, err := s.deps.Breakdown(ctx, sel, mode)
	if err != nil {
		api.WriteFailure(w, r, op, err)
		return
	}
	switch res.Status {
	case breakdown.StatusNoData:
		data.Message = MsgNoData
	case breakdown.StatusTooSmall:
		data.Message = MsgTooSmall
	default:
		data.Result = &res
		data.Share = shareText(res)
		q := selectionQuery(sel, mode)
		data.WaffleURL = "/charts/waffle.svg?" + q
		data.ExportURL = "/api/export.xlsx?" + q
		for _, b := range res.Buckets {
			data.Buckets = append(data.Buckets, bucketRow{
				Label:   b.Label,
				Value:   national.ValueLabel(res.Metric, b.Value),
				Squares: b.Squares,
				Color:   render.BucketColor(b),
			})
		}
	}
	s.render(w, r, nav.State, data)
}

func (s *Server) base(p nav.Page) (pageData, error) {
	ctx, err := nav.New(p)
	if err != nil {
		return pageData{}, err
	}
	return pageData{Nav: ctx}, nil
}

func (s *Server) narrativeFor(r *http.Request, doc string) (template.HTML, error) {
	f, err := s.deps.Formatted(r.Context())
	if err != nil {
		return "", err
	}
	return s.narrative.Render(doc, f)
}

func (s *Server) mapURL(r *http.Request, state string) string {
	img, ok := s.deps.MapImage(r.Context(), state)
	if !ok {
		return ""
	}
	return "/assets/" + url.PathEscape(img.Name)
}

func (s *Server) metricOptions(r *http.Request, selected string) ([]option, error) {
	names, err := s.deps.Metrics(r.Context())
	if err != nil {
		return nil, err
	}
	out := make([]option, len(names))
	for i, n := range names {
		out[i] = option{Name: n, Label: impact.MetricLabel(n), Selected: n == selected}
	}
	return out, nil
}

func (s *Server) stateOptions(r *http.Request, selected string) ([]option, error) {
	states, err := s.deps.States(r.Context())
	if err != nil {
		return nil, err
	}
	out := []option{{Name: breakdown.AllStates, Label: breakdown.NationLabel, Selected: selected == breakdown.AllStates}}
	for _, st := range states {
		out = append(out, option{Name: st, Label: st, Selected: st == selected})
	}
	return out, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, p nav.Page, data pageData) {
	var buf bytes.Buffer
	if err := s.pages[p].ExecuteTemplate(&buf, "layout", data); err != nil {
		api.WriteFailure(w, r, "site.render", errors.Join(ErrTemplate, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Get().Debug(r.Context(), "page write failed", logger.String("page", string(p)), logger.Error(err))
	}
}

func shareText(res breakdown.Result) string {
	region := res.State
	if region == breakdown.AllStates {
		region = breakdown.NationLabel
	}
	return fmt.Sprintf("%s accounts for %.1f%% of the selected %s.",
		region, res.Percentage, impact.MetricLabel(res.Metric))
}

func selectionQuery(sel breakdown.Selection, mode breakdown.Mode) string {
	q := url.Values{}
	q.Set(api.ParamState, sel.State)
	q.Set(api.ParamMetric, sel.Metric)
	q.Set(api.ParamMode, string(mode))
	q.Set(api.ParamSubmitted, "1")
	for _, it := range sel.ImpactTypes {
		q.Add(api.ParamImpact, string(it))
	}
	return q.Encode()
}
