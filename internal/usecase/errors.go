package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	// ErrDependencyUnavailable marks failures of the schedule source or odds provider.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
