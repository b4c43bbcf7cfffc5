package domain

import "errors"

var (
	// ErrUpstreamUnavailable means the Gamma feed could not be reached or
	// answered with a server error. Callers may retry; handlers map it to 502.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamMalformed means the feed responded but the body did not
	// parse as JSON or did not match any accepted shape. Not retryable.
	ErrUpstreamMalformed = errors.New("upstream response malformed")
	// ErrInvalidConfig means a caller-supplied endpoint or option is not
	// well-formed. Not retryable.
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNotFound      = errors.New("not found")
)

// Retryable reports whether err represents a transient upstream failure that
// a caller may reasonably retry.
func Retryable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}
