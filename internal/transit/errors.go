package transit

import "errors"

var (
	// ErrUnreachable marks a connectivity failure: the peer is down or the
	// reference is stale. Callers in a fan-out skip the peer and continue.
	ErrUnreachable = errors.New("peer unreachable")

	ErrNotStarted     = errors.New("tram has not been started")
	ErrAlreadyStarted = errors.New("tram already started")
	ErrScheduleBuilt  = errors.New("tram schedule already built")
	ErrNotRunning     = errors.New("tram is not running")
	ErrFinished       = errors.New("tram has finished its run")
	ErrBadInterval    = errors.New("interval must be positive")
)

// IsUnreachable reports whether err is a connectivity failure.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
