// Package site serves the dashboard pages and their SVG charts.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/okian/enow/internal/adapters/http/api"
	service "github.com/okian/enow/internal/app"
	"github.com/okian/enow/internal/domain/nav"
)

// Error constants.
var (
	ErrTemplate = errors.New("site template failed")
)

// Dependencies is the dashboard surface the pages read from.
type Dependencies interface {
	api.Dependencies

	MapImage(ctx context.Context, state string) (service.MapImage, bool)
	AssetsDir() string
}

// Server renders pages and charts.
type Server struct {
	deps      Dependencies
	pages     map[nav.Page]*template.Template
	narrative *Narrative
}

// NewServer parses the embedded templates and narrative documents.
func NewServer(deps Dependencies) (*Server, error) {
	narrative, err := NewNarrative()
	if err != nil {
		return nil, err
	}
	s := &Server{deps: deps, pages: make(map[nav.Page]*template.Template), narrative: narrative}
	for _, l := range nav.Pages() {
		t, err := template.New(string(l.Page)).ParseFS(templateFS, "templates/layout.html", "templates/"+string(l.Page)+".html")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, l.Page, err)
		}
		s.pages[l.Page] = t
	}
	return s, nil
}

// Register attaches page, chart and asset routes to mux. It owns "/", so it
// must be registered alongside the API routes on the same mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	page := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, api.RequestID(api.MetricsMiddleware(api.ReadOnly(h), endpoint)))
	}

	page("/{$}", "page_main", s.HandleMain)
	page("/details", "page_details", s.HandleDetails)
	page("/treemap", "page_treemap", s.HandleTreemap)
	page("/state", "page_state", s.HandleState)

	page("/charts/bar.svg", "chart_bar", s.HandleBarChart)
	page("/charts/treemap.svg", "chart_treemap", s.HandleTreemapChart)
	page("/charts/waffle.svg", "chart_waffle", s.HandleWaffleChart)

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(StaticFS())))
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.deps.AssetsDir()))))
}
