package apiclient

import (
	"errors"
	"fmt"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// RequestFailure is the single error kind returned by the client. It covers
// transport errors, non-2xx responses and bodies that could not be decoded.
type RequestFailure struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *RequestFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed (status %d): %v", e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}
