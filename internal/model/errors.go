package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrDraftNotFound is returned by DraftStore.Get for unknown ids.
var ErrDraftNotFound = errors.New("draft not found")

// HTTPError wraps a non-2xx status from the completion endpoint.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the provider rejected the credential.
func (e *HTTPError) Unauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
