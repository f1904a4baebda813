package folio

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the FOLIO client.
var (
	// ErrClosed indicates the client was used after Close.
	ErrClosed = errors.New("folio: client is closed")
	// ErrUnauthorized indicates bad credentials or an unrecoverably expired session.
	ErrUnauthorized = errors.New("folio: authentication failed")
	// ErrNotFound indicates the addressed resource does not exist.
	ErrNotFound = errors.New("folio: resource not found")
)

// APIError represents a non-2xx response from a FOLIO module. The body is
// preserved verbatim so callers can inspect Okapi error payloads.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("folio: API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("folio: API error: status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps well-known status codes onto the package sentinels so that
// errors.Is(err, ErrNotFound) and errors.Is(err, ErrUnauthorized) work.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return nil
}

// IsNotFound checks if the error indicates a not found response.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
