package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrCacheDisabled indicates a cache operation while caching is off.
	ErrCacheDisabled = errors.New("listing cache disabled")
)
