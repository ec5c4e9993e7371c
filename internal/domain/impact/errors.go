package impact

import "errors"

// Sentinel kinds for impact table errors.
var (
	ErrUnknownImpactType = errors.New("unknown impact type")
	ErrSchema            = errors.New("invalid impact table schema")
	ErrDuplicateRow      = errors.New("duplicate state impact row")
	ErrNegativeValue     = errors.New("negative metric value")
)
