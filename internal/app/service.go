// Package service provides the dashboard service that the HTTP API, the
// site and the CLI are built on.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/okian/enow/internal/adapters/repository"
	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/national"
	"github.com/okian/enow/pkg/logger"
	"github.com/okian/enow/pkg/metrics"
)

// Map image names.
const (
	mapPrefix     = "Map_"
	mapExt        = ".jpg"
	nationMapName = "Map_United_States.jpg"
)

type reloader interface {
	Reload(ctx context.Context) error
}

// Service answers dashboard queries from the loaded impact tables.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration
	nationalPath  string
	statePath     string
	assetsDir     string
	defaultState  string
	defaultMetric string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNationalPath sets the national table file.
func WithNationalPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.nationalPath = path
		}
	}
}

// WithStatePath sets the state table file.
func WithStatePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.statePath = path
		}
	}
}

// WithAssetsDir sets the directory holding the map images.
func WithAssetsDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.assetsDir = dir
		}
	}
}

// WithDefaults sets the state and metric preselected on the state page.
func WithDefaults(state, metric string) Option {
	return func(s *Service) {
		if state != "" {
			s.defaultState = state
		}
		if metric != "" {
			s.defaultMetric = metric
		}
	}
}

// WithStore serves tables from an existing store instead of loading files.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		nationalPath:  "data/national.csv",
		statePath:     "data/states.csv",
		assetsDir:     "assets",
		defaultState:  breakdown.AllStates,
		defaultMetric: impact.WageAndSalaryEmployment,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the impact tables. A table that cannot be loaded is fatal.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	if s.store == nil {
		store, err := repository.Load(ctx, s.nationalPath, s.statePath, repository.WithLogger(s.logger))
		if err != nil {
			return fmt.Errorf("load impact tables: %w", err)
		}
		s.store = store
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("nationalTable", s.nationalPath),
		logger.String("stateTable", s.statePath),
		logger.String("assetsDir", s.assetsDir),
	)
	return nil
}

// Stop marks the service stopped. Loaded tables are released.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Reload re-reads the table files when the store supports it.
func (s *Service) Reload(ctx context.Context) error {
	store, err := s.current()
	if err != nil {
		return err
	}
	r, ok := store.(reloader)
	if !ok {
		return ErrNotReloadable
	}
	if err := r.Reload(ctx); err != nil {
		s.logger.Error(ctx, "reload failed, keeping previous tables", logger.Error(err))
		return err
	}
	return nil
}

func (s *Service) current() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) nationalTable(ctx context.Context) (*impact.NationalTable, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	return store.National(ctx)
}

func (s *Service) stateTable(ctx context.Context) (*impact.StateTable, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	return store.States(ctx)
}

// Summary aggregates the national table.
func (s *Service) Summary(ctx context.Context) (national.Summary, error) {
	t, err := s.nationalTable(ctx)
	if err != nil {
		return national.Summary{}, err
	}
	start := time.Now()
	sum, err := national.Compute(t)
	metrics.RecordSummaryLatency(sinceMs(start))
	return sum, err
}

// Formatted returns the display strings of the national summary.
func (s *Service) Formatted(ctx context.Context) (national.Formatted, error) {
	sum, err := s.Summary(ctx)
	if err != nil {
		return national.Formatted{}, err
	}
	return national.Format(sum), nil
}

// Pictograms returns the icon rows of the details page.
func (s *Service) Pictograms(ctx context.Context) ([]national.Pictogram, error) {
	t, err := s.nationalTable(ctx)
	if err != nil {
		return nil, err
	}
	return national.Pictograms(t)
}

// Treemap returns the treemap input for a national metric.
func (s *Service) Treemap(ctx context.Context, metric string) (national.TreemapInput, error) {
	t, err := s.nationalTable(ctx)
	if err != nil {
		return national.TreemapInput{}, err
	}
	return national.Treemap(t, metric)
}

// Bars returns the bar chart input for a national metric.
func (s *Service) Bars(ctx context.Context, metric string) ([]national.Bar, error) {
	t, err := s.nationalTable(ctx)
	if err != nil {
		return nil, err
	}
	return national.Bars(t, metric)
}

// States returns the state names in the state table, sorted.
func (s *Service) States(ctx context.Context) ([]string, error) {
	t, err := s.stateTable(ctx)
	if err != nil {
		return nil, err
	}
	return t.States(), nil
}

// Metrics returns the metric columns of the state table.
func (s *Service) Metrics(ctx context.Context) ([]string, error) {
	t, err := s.stateTable(ctx)
	if err != nil {
		return nil, err
	}
	return t.Metrics(), nil
}

// Defaults returns the preselected state and metric.
func (s *Service) Defaults() (state, metric string) {
	return s.defaultState, s.defaultMetric
}

// Breakdown computes the waffle breakdown of a selection.
func (s *Service) Breakdown(ctx context.Context, sel breakdown.Selection, mode breakdown.Mode) (breakdown.Result, error) {
	t, err := s.stateTable(ctx)
	if err != nil {
		return breakdown.Result{}, err
	}
	start := time.Now()
	res, err := breakdown.Compute(t, sel, mode)
	if err != nil {
		return breakdown.Result{}, err
	}
	metrics.RecordBreakdown(string(res.Mode), string(res.Status), sinceMs(start))
	s.logger.Debug(ctx, "breakdown computed",
		logger.String("state", sel.State),
		logger.String("metric", sel.Metric),
		logger.String("mode", string(res.Mode)),
		logger.String("status", string(res.Status)),
		logger.Int("squares", res.TotalSquares),
	)
	return res, nil
}

// MapImage describes a state map image on disk.
type MapImage struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// MapImageName returns the file name of the map for a state, or of the whole
// country for AllStates.
func MapImageName(state string) string {
	if state == breakdown.AllStates {
		return nationMapName
	}
	return mapPrefix + strings.ReplaceAll(strings.TrimSpace(state), " ", "_") + mapExt
}

// MapImage resolves the map image of a state. A missing image is logged and
// reported with ok false so the page shows no image.
func (s *Service) MapImage(ctx context.Context, state string) (MapImage, bool) {
	if state != breakdown.AllStates {
		t, err := s.stateTable(ctx)
		if err != nil || !t.HasState(state) {
			return MapImage{}, false
		}
	}
	name := MapImageName(state)
	path := filepath.Join(s.assetsDir, name)
	if _, err := os.Stat(path); err != nil {
		metrics.RecordAssetMissing("map")
		if s.logger != nil {
			fields := []logger.Field{logger.String("state", state), logger.String("path", path)}
			if !errors.Is(err, fs.ErrNotExist) {
				fields = append(fields, logger.Error(err))
			}
			s.logger.Warn(ctx, "map image not available", fields...)
		}
		return MapImage{}, false
	}
	return MapImage{Name: name, Path: path}, true
}

// AssetsDir returns the directory served under /assets/.
func (s *Service) AssetsDir() string {
	return s.assetsDir
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"nationalPath": s.nationalPath,
		"statePath":    s.statePath,
		"assetsDir":    s.assetsDir,
	}
	if s.started {
		stats["tables"] = s.store.Stats(context.Background())
	}
	return stats
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
