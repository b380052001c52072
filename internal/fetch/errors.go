package fetch

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is matched (via errors.Is) by every error a Fetcher returns.
var ErrFetchFailed = errors.New("fetch failed")

// Error describes a failed fetch.
//
// The story store only records that a fetch failed; Error keeps the detail
// for logs and CLI output.
type Error struct {
	// Endpoint is the URL that was requested.
	Endpoint string

	// StatusCode is the HTTP status when a response was received, 0 otherwise.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every *Error match ErrFetchFailed.
func (e *Error) Is(target error) bool {
	return target == ErrFetchFailed
}

// IsFetchFailed reports whether err is (or wraps) a fetch failure.
func IsFetchFailed(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}
