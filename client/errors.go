package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the session lifecycle.
var (
	// ErrNoRefreshToken is returned when a 401 arrives with no refresh
	// token in the store. Unrecoverable: forces logout without a network
	// call.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrRefreshFailed wraps a failed call to the refresh endpoint.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// APIError is a non-2xx response from the backend, carrying the diagnostic
// context the caller needs for domain-specific handling.
type APIError struct {
	Status  int
	Method  string
	URL     string
	Message string // backend-provided message, when present
	Body    string // raw response body
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
}

// IsUnauthorized reports whether err is a 401 that survived the refresh
// flow (repeated 401 after retry, or an endpoint that rejects the session).
func IsUnauthorized(err error) bool {
	return isStatus(err, http.StatusUnauthorized)
}

// IsPermissionDenied reports whether err is a 403. Permission denials are
// never retried and are distinct from authentication failures.
func IsPermissionDenied(err error) bool {
	return isStatus(err, http.StatusForbidden)
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
