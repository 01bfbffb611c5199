// Package common defines shared constants and sentinel errors used across
// client and server layers of carnet. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorInvalidInput = errors.New("invalid input")
	ErrorConflict     = errors.New("conflict")

	// Errors of network-backed checks (identity lookup, object storage).
	ErrorTimeout     = errors.New("timeout")
	ErrorUnavailable = errors.New("unavailable")
)

// Kind names the taxonomy class of err, e.g. "NotFound". A nil error has
// an empty kind; errors outside the taxonomy are reported as "Internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrorNotFound):
		return "NotFound"
	case errors.Is(err, ErrorInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrorConflict):
		return "Conflict"
	case errors.Is(err, ErrorTimeout):
		return "Timeout"
	case errors.Is(err, ErrorUnavailable):
		return "Unavailable"
	default:
		return "Internal"
	}
}
