package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResult is returned when the backend answers successfully but has
// nothing to return, e.g. a geocode query with no matches.
var ErrEmptyResult = errors.New("backend returned no results")

// RequestError is a non-2xx response from the backend.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Message)
}

// NetworkError means the backend could not be reached at all.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError means a 2xx body could not be parsed or broke a wire invariant.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an empty-result error or a 404.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrEmptyResult) {
		return true
	}
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}

// IsUnreachable reports whether err is a transport-level failure.
func IsUnreachable(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
