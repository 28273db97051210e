package api

import (
	"errors"
	"fmt"
)

// ErrEmptyBaseURL is returned when a client is constructed without an API
// address.
var ErrEmptyBaseURL = errors.New("api base URL is empty")

// APIError is a non-2xx response from the backend. Message is the
// operator-readable text from the response body, surfaced verbatim.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// RequestError wraps a transport-level failure (connection refused, timeout,
// bad payload) for one endpoint.
type RequestError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}
