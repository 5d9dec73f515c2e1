// Package apperrors provides common static errors used throughout the application.
package apperrors

import (
	"errors"
	"fmt"
)

// HTTPError represents an HTTP error with a status code.
type HTTPError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// NewHTTPError creates a new HTTPError.
func NewHTTPError(statusCode int, body string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Body: body}
}

// Common static errors used throughout the application.
var (
	// ErrBaseURLRequired is returned when no remote base URL is configured.
	ErrBaseURLRequired = errors.New("remote base URL required (--url or FOUNDRY_URL env var)")

	// ErrAPIKeyRequired is returned when no API key is configured.
	ErrAPIKeyRequired = errors.New("API key required (--api-key or FOUNDRY_API_KEY env var)")

	// ErrVaultDirRequired is returned when no vault directory was supplied.
	ErrVaultDirRequired = errors.New("vault directory required")

	// ErrMaxRetriesExceeded is returned when the maximum number of retries is exceeded.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrNoFrontmatter is returned when no frontmatter is found in a markdown file.
	ErrNoFrontmatter = errors.New("no frontmatter found")

	// ErrFrontmatterNotClosed is returned when frontmatter is not properly closed.
	ErrFrontmatterNotClosed = errors.New("frontmatter not closed")
)
