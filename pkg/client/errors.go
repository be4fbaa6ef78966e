package client

import (
	"errors"
	"fmt"
)

// ErrNilConfig is returned by New when no configuration is supplied.
var ErrNilConfig = errors.New("client config is required")

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassInformational represents 1xx responses.
	ErrorClassInformational ErrorClass = "informational"

	// ErrorClassRedirect represents 3xx responses.
	ErrorClassRedirect ErrorClass = "redirect"

	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures (no response).
	ErrorClassNetwork ErrorClass = "network"
)

// IsSuccess reports whether status is in the accepted 200–299 range.
func IsSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// classifyStatus maps a non-2xx status to its class. Returns "" for 2xx.
func classifyStatus(status int) ErrorClass {
	switch {
	case IsSuccess(status):
		return ""
	case status < 200:
		return ErrorClassInformational
	case status < 400:
		return ErrorClassRedirect
	case status < 500:
		return ErrorClassClient
	default:
		return ErrorClassServer
	}
}

// HTTPError is returned for any response whose status is outside 200–299.
// It is raised whatever the body kind; Body holds the JSON value or raw text.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       Body
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	body := ""
	if e.Body != nil {
		body = e.Body.String()
	}
	return fmt.Sprintf("request to %s failed! HTTP Error Code: %d Response: %s",
		e.URL, e.StatusCode, body)
}

// Class returns the status class of the error.
func (e *HTTPError) Class() ErrorClass {
	return classifyStatus(e.StatusCode)
}

// TransportError wraps a failure that produced no HTTP response at all.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}
