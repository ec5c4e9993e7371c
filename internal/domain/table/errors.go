package table

import "errors"

// Sentinel kinds for table errors.
var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrShape         = errors.New("invalid table shape")
)
