package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors returned by the gateway that can be checked using errors.Is().
var (
	// ErrUnauthorized is returned when the remote API rejects the bearer
	// token with 401 or 403. The session has already been cleared.
	ErrUnauthorized = errors.New("session rejected by the API")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("API resource not found")

	// ErrTransport is returned when the request never produced a response.
	ErrTransport = errors.New("could not reach the API")
)

// UnauthorizedError reports a 401/403 from the remote API.
type UnauthorizedError struct {
	Status   int
	Endpoint string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s returned %d: %v", e.Endpoint, e.Status, ErrUnauthorized)
}

// Is matches ErrUnauthorized.
func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// HTTPError is any other non-2xx response.
type HTTPError struct {
	Status int
	// Message is the body's "error" field, or the status text when absent.
	Message  string
	Endpoint string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.Status, e.Message)
}

// Is matches ErrNotFound for 404 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// TransportError wraps a failure below HTTP: DNS, refused connections,
// truncated bodies.
type TransportError struct {
	Endpoint string
	err      error
}

// NewTransportError wraps err as a transport failure for endpoint.
func NewTransportError(endpoint string, err error) *TransportError {
	return &TransportError{Endpoint: endpoint, err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Endpoint, ErrTransport, e.err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.err
}

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ErrorKind buckets gateway failures the way pages report them.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnauthorized
	KindNotFound
	KindNetwork
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	default:
		return "other"
	}
}

// Classify maps an error returned by the gateway onto its ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTransport):
		return KindNetwork
	default:
		return KindOther
	}
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	var unauth *UnauthorizedError
	if errors.As(err, &unauth) {
		return unauth.Status
	}
	return 0
}

// Message returns the user-facing message carried by err.
func Message(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
