package retention

import "errors"

var (
	// ErrCyclicAncestry is returned when parent references form a loop.
	ErrCyclicAncestry = errors.New("cyclic ancestry")

	// ErrMissingTimestamp is returned for a record with a zero timestamp.
	ErrMissingTimestamp = errors.New("record has no timestamp")

	// ErrInvalidPolicy is returned for negative retention counts.
	ErrInvalidPolicy = errors.New("invalid retention policy")
)
