package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("dashboard service not started")
	ErrNotReloadable = errors.New("table store cannot be reloaded")
)
