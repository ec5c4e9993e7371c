// Package repository loads the national and state impact tables and serves
// them as immutable snapshots.
package repository

import (
	"context"
	"time"

	"github.com/okian/enow/internal/domain/impact"
)

// Store provides read access to the loaded impact tables.
type Store interface {
	// National returns the national impact table.
	National(ctx context.Context) (*impact.NationalTable, error)

	// States returns the state impact table.
	States(ctx context.Context) (*impact.StateTable, error)

	// Stats describes what is currently loaded.
	Stats(ctx context.Context) Stats
}

// Source is a table file and the format it was read as.
type Source struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
}

// Stats summarizes a snapshot.
type Stats struct {
	NationalRows   int       `json:"nationalRows"`
	StateRows      int       `json:"stateRows"`
	States         int       `json:"states"`
	Metrics        []string  `json:"metrics"`
	NationalSource Source    `json:"nationalSource"`
	StateSource    Source    `json:"stateSource"`
	LoadedAt       time.Time `json:"loadedAt"`
	Loads          int       `json:"loads"`
}
