package breakdown

import "errors"

// Sentinel kinds for breakdown errors.
var (
	ErrEmptySelection = errors.New("select at least one impact type")
	ErrUnknownMetric  = errors.New("unknown metric")
	ErrUnknownState   = errors.New("unknown state")
	ErrUnknownMode    = errors.New("unknown breakdown mode")
)
