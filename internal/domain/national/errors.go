package national

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrDataShape      = errors.New("national table has unexpected shape")
	ErrDivisionByZero = errors.New("division by zero")
	ErrUnknownMetric  = errors.New("unknown metric")
)
