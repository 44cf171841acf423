package rpc

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is an error reported by the remote object itself, as opposed
// to a failure to reach it.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error (%d): %s", e.Status, e.Message)
}

// ErrMalformedResponse means a node answered with a body that is not an rpc
// envelope, typically because the address belongs to another service.
var ErrMalformedResponse = errors.New("malformed rpc response")

var (
	errUnknownMethod = errors.New("unknown method")
	errNoSuchObject  = errors.New("no such object")
)

// badArgs marks a request whose arguments could not be decoded.
type badArgs struct{ err error }

func (e badArgs) Error() string { return "bad arguments: " + e.err.Error() }
func (e badArgs) Unwrap() error { return e.err }

// unreachableStatus reports whether status means the target is gone rather
// than that it refused the call.
func unreachableStatus(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
