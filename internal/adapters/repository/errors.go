package repository

import "errors"

// Sentinel kinds for table loading errors.
var (
	ErrNotFound          = errors.New("table file not found")
	ErrParse             = errors.New("table file malformed")
	ErrUnsupportedFormat = errors.New("unsupported table format")
	ErrNoSource          = errors.New("store has no source files to reload")
)
