package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/table"
	"github.com/okian/enow/pkg/logger"
	"github.com/okian/enow/pkg/metrics"
)

// Snapshot is one consistent pair of loaded tables.
type Snapshot struct {
	National *impact.NationalTable
	States   *impact.StateTable
	Stats    Stats
}

// SnapshotStore serves the most recently loaded Snapshot. Readers never block;
// a reload builds a new snapshot and swaps it in only when both tables load.
type SnapshotStore struct {
	nationalPath string
	statePath    string

	// serializes reloads
	mu       sync.Mutex
	snapshot atomic.Pointer[Snapshot]

	logger logger.Logger
}

var _ Store = (*SnapshotStore)(nil)

// Load reads both table files and returns a store serving them.
func Load(ctx context.Context, nationalPath, statePath string, opts ...Option) (*SnapshotStore, error) {
	s := &SnapshotStore{nationalPath: nationalPath, statePath: statePath}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// FromTables returns a store over tables that are already in memory. It has no
// files behind it, so Reload fails with ErrNoSource.
func FromTables(national *impact.NationalTable, states *impact.StateTable) *SnapshotStore {
	s := &SnapshotStore{}
	s.snapshot.Store(&Snapshot{
		National: national,
		States:   states,
		Stats:    statsOf(national, states, Source{}, Source{}, 1),
	})
	return s
}

// Reload re-reads the table files. On failure the previous snapshot stays.
func (s *SnapshotStore) Reload(ctx context.Context) error {
	if s.nationalPath == "" || s.statePath == "" {
		return ErrNoSource
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, nsrc, err := s.read(ctx, "national", s.nationalPath)
	if err != nil {
		return err
	}
	national, err := impact.NewNationalTable(raw)
	if err != nil {
		metrics.RecordTableLoadError("national")
		return fmt.Errorf("national table %s: %w", s.nationalPath, err)
	}

	raw, ssrc, err := s.read(ctx, "state", s.statePath)
	if err != nil {
		return err
	}
	states, err := impact.NewStateTable(raw)
	if err != nil {
		metrics.RecordTableLoadError("state")
		return fmt.Errorf("state table %s: %w", s.statePath, err)
	}

	loads := 1
	if prev := s.snapshot.Load(); prev != nil {
		loads = prev.Stats.Loads + 1
	}
	snap := &Snapshot{
		National: national,
		States:   states,
		Stats:    statsOf(national, states, nsrc, ssrc, loads),
	}
	s.snapshot.Store(snap)

	metrics.UpdateTableRows("national", snap.Stats.NationalRows)
	metrics.UpdateTableRows("state", snap.Stats.StateRows)
	if s.logger != nil {
		s.logger.Info(ctx, "impact tables loaded",
			logger.Int("nationalRows", snap.Stats.NationalRows),
			logger.Int("stateRows", snap.Stats.StateRows),
			logger.Int("states", snap.Stats.States),
			logger.Int("loads", loads),
		)
	}
	return nil
}

func (s *SnapshotStore) read(ctx context.Context, name, path string) (*table.Table, Source, error) {
	start := time.Now()
	t, format, err := ReadTable(ctx, path)
	if err != nil {
		metrics.RecordTableLoadError(name)
		return nil, Source{}, fmt.Errorf("%s table: %w", name, err)
	}
	metrics.RecordTableLoad(name, string(format), float64(time.Since(start).Microseconds())/1000)
	return t, Source{Path: path, Format: format}, nil
}

// Current returns the snapshot being served.
func (s *SnapshotStore) Current() *Snapshot {
	return s.snapshot.Load()
}

// National returns the national impact table.
func (s *SnapshotStore) National(ctx context.Context) (*impact.NationalTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.snapshot.Load().National, nil
}

// States returns the state impact table.
func (s *SnapshotStore) States(ctx context.Context) (*impact.StateTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.snapshot.Load().States, nil
}

// Stats describes the snapshot being served.
func (s *SnapshotStore) Stats(_ context.Context) Stats {
	st := s.snapshot.Load().Stats
	st.Metrics = append([]string(nil), st.Metrics...)
	return st
}

func statsOf(national *impact.NationalTable, states *impact.StateTable, nsrc, ssrc Source, loads int) Stats {
	st := Stats{
		NationalSource: nsrc,
		StateSource:    ssrc,
		LoadedAt:       time.Now().UTC(),
		Loads:          loads,
	}
	if national != nil {
		st.NationalRows = national.Table().Len()
		st.Metrics = national.Metrics()
	}
	if states != nil {
		st.StateRows = states.Table().Len()
		st.States = len(states.States())
	}
	return st
}
