package params

import "errors"

// Validation errors.
var (
	ErrInvalidParams    = errors.New("invalid cost parameters")
	ErrInvalidThreshold = errors.New("invalid confidence threshold")
)
