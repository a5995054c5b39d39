package integrations

import (
	"errors"
	"net/http"
	"time"
)

// DefaultTimeout bounds every remote request unless configured otherwise.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a resource doesn't exist in the repository.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the given timeout. A timeout of
// zero or less selects [DefaultTimeout]; there is never an unbounded wait.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
