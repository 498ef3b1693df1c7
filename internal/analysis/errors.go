package analysis

import (
	"errors"
	"fmt"

	"github.com/ziadkadry99/repodocs/internal/fetcher"
)

var (
	// ErrRepositoryUnavailable matches any failed or timed-out clone.
	ErrRepositoryUnavailable = fetcher.ErrRepositoryUnavailable

	// ErrInvalidRepoURL is wrapped when the repository URL is empty.
	ErrInvalidRepoURL = fetcher.ErrInvalidRepoURL
)

// AnalysisError is the only error returned by Analyzer runs. It records the
// state the run was in when it failed and wraps the cause.
type AnalysisError struct {
	Repo  string
	State State
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze %s: failed while %s: %v", e.Repo, e.State, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Error kinds reported to callers.
const (
	KindInvalidInput          = "invalid_input"
	KindRepositoryUnavailable = "repository_unavailable"
	KindAnalysisError         = "analysis_error"
)

// ErrorKind classifies err so callers can tell a user-fixable failure (bad
// URL, unreachable repository) from an internal one.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRepoURL):
		return KindInvalidInput
	case errors.Is(err, ErrRepositoryUnavailable):
		return KindRepositoryUnavailable
	default:
		return KindAnalysisError
	}
}
