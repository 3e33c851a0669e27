package gateway

import "errors"

var (
	// ErrTransport is returned when a remote service could not be reached
	// or answered with an unexpected status.
	ErrTransport = errors.New("remote service unavailable")
	// ErrRemote is returned when a remote service answered with an error
	// status or an unparsable body.
	ErrRemote = errors.New("remote service error")
	// ErrNotFound is returned when the requested item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when a remote service rejects our credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBadRequest is returned when a remote service rejects the request payload.
	ErrBadRequest = errors.New("bad request")
)
