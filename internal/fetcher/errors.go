package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryUnavailable is matched by every clone failure, timed out or not.
	ErrRepositoryUnavailable = errors.New("repository unavailable")

	// ErrInvalidRepoURL is returned for an empty repository URL.
	ErrInvalidRepoURL = errors.New("repository url must not be empty")
)

// FetchKind distinguishes why a clone failed.
type FetchKind string

const (
	FetchTimeout FetchKind = "timeout"
	FetchFailed  FetchKind = "failed"
)

// FetchError describes a failed clone.
type FetchError struct {
	Kind   FetchKind
	URL    string
	Branch string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchTimeout {
		return fmt.Sprintf("clone %s (branch %s) timed out: %v", e.URL, e.Branch, e.Err)
	}
	return fmt.Sprintf("clone %s (branch %s) failed: %v", e.URL, e.Branch, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes every FetchError match ErrRepositoryUnavailable.
func (e *FetchError) Is(target error) bool {
	return target == ErrRepositoryUnavailable
}
