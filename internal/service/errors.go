package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("not found")

// ErrAuth is returned when backend credentials are missing or rejected.
var ErrAuth = errors.New("not authenticated")

// StatusError reports an HTTP status the client did not expect.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsAuth reports whether the status is 401 or 403.
func (e *StatusError) IsAuth() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
