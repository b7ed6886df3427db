package feedback

import (
	"errors"
	"fmt"
)

// MsgEmptyFeedback is shown when the submitted text is empty or whitespace.
const MsgEmptyFeedback = "Please enter feedback text"

// Error kinds used in logs, metrics and the submission journal.
const (
	KindValidation = "validation"
	KindHTTP       = "http"
	KindNetwork    = "network"
	KindParse      = "parse"
	KindRender     = "render"
)

// ValidationError reports input rejected before any request is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// HTTPError reports a non-success status from the backend.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// NetworkError reports a request that could not be completed.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "backend unreachable: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that does not match the expected shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "malformed response: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Kind classifies err into one of the Kind* constants. Unknown errors count as network errors.
func Kind(err error) string {
	var (
		validationErr *ValidationError
		httpErr       *HTTPError
		parseErr      *ParseError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &parseErr):
		return KindParse
	default:
		return KindNetwork
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
