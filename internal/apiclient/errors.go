package apiclient

import (
	"errors"
	"net/http"
)

// Kind tags an Error with where the failure happened.
type Kind string

const (
	// KindNetwork means the request never reached the server.
	KindNetwork Kind = "network"
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP Kind = "http"
	// KindValidation means a client-side check failed before any request was sent.
	KindValidation Kind = "validation"
)

// Error is the single error shape returned by the client and the services built on it.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports a client-side validation failure.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func newNetworkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: "Network error: unable to reach the server",
		Err:     err,
	}
}

func newHTTPError(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether the backend rejected the caller's token.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindHTTP && StatusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	return KindOf(err) == KindHTTP && StatusOf(err) == http.StatusNotFound
}
