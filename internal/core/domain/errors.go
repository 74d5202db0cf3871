package domain

import "errors"

// Error taxonomy shared by services and adapters. Adapters wrap these with
// fmt.Errorf("...: %w", ...) and callers classify with errors.Is.
var (
	// ErrBadRequest is returned when the caller supplied unusable input.
	ErrBadRequest = errors.New("bad request")

	// ErrUnsupportedChain is returned when no provider serves the requested chain.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrNotFound is returned when an upstream has no record for the identifier.
	ErrNotFound = errors.New("not found")

	// ErrUpstream is returned when a dependent service call did not succeed.
	ErrUpstream = errors.New("upstream error")
)
