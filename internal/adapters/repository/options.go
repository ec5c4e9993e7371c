package repository

import "github.com/okian/enow/pkg/logger"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithLogger sets the logger used to report loads.
func WithLogger(l logger.Logger) Option {
	return func(s *SnapshotStore) {
		if l != nil {
			s.logger = l
		}
	}
}
