package routing

import "errors"

var (
	// ErrUnroutable is reported for edges with a missing or unknown type tag.
	ErrUnroutable = errors.New("unroutable edge")
	// ErrTypeMismatch is reported when source and target type tags differ.
	ErrTypeMismatch = errors.New("endpoint type mismatch")
	// ErrCapability is reported when a unit lacks what an edge needs.
	ErrCapability = errors.New("missing unit capability")
	// ErrMissingParameter is reported when the target parameter does not exist.
	ErrMissingParameter = errors.New("missing target parameter")
	// ErrInvalidRange is reported for declared ranges with min >= max or
	// non-finite bounds.
	ErrInvalidRange = errors.New("invalid parameter range")
	// ErrWiring wraps failures of the underlying connect calls.
	ErrWiring = errors.New("wiring failed")

	ErrEmptyNodeID   = errors.New("empty node id")
	ErrNilUnit       = errors.New("nil unit")
	ErrInvalidEdge   = errors.New("invalid edge")
	ErrDuplicateEdge = errors.New("duplicate edge")
)
