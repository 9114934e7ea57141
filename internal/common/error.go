// Package common defines sentinel errors and small helpers shared by the
// stores, services and transports. Callers should use errors.Is to match
// these values; producers wrap them with fmt.Errorf("%w: ...") to add detail.
package common

import "errors"

var (
	// Caller-correctable errors.
	ErrorValidation = errors.New("validation error")
	ErrorNotFound   = errors.New("not found")
	ErrorConflict   = errors.New("conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
)
