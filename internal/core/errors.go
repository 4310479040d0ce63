package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed marks a network failure or non-success response from an events source.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrInvalidConfiguration marks a missing collaborator at construction time.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// FetchError describes a failed events request.
// Status is the HTTP status when the server answered, 0 otherwise.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: fetch events: unexpected status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("%s: fetch events: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrFetchFailed) match any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
