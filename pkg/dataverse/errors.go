package dataverse

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError indicates missing or invalid credentials, detected
// before any network call is made.
type ConfigurationError struct {
	// Missing lists the names of absent environment variables, when the
	// error was produced by a credential-completeness check.
	Missing []string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return e.Message
}

// AuthError indicates that the identity provider rejected a credential
// exchange. Code and Description carry the provider-supplied error fields.
type AuthError struct {
	// Strategy names the authentication strategy that failed
	// ("service principal" or "user credentials").
	Strategy    string
	Code        string
	Description string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	detail := e.Description
	if detail == "" {
		detail = e.Code
	}

	if detail == "" {
		detail = "unknown error"
	}

	if e.Strategy != "" {
		return fmt.Sprintf("failed to authenticate with %s: %s", e.Strategy, detail)
	}

	return fmt.Sprintf("failed to acquire token: %s", detail)
}

// APIError represents a failed Dataverse API call: either a non-2xx HTTP
// response (StatusCode > 0, Body holds the raw response text) or a
// transport-level failure (StatusCode == 0, Err holds the underlying error).
//
// The response body is kept verbatim because callers inspect it for
// substrings such as "referenced by" to detect dependency conflicts.
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface. The message embeds the numeric
// status and the raw response body text.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}

	return fmt.Sprintf("request failed: %v", e.Err)
}

// Unwrap returns the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsDependencyConflict reports whether the server rejected the operation
// because the target record is still referenced by other components.
func (e *APIError) IsDependencyConflict() bool {
	return strings.Contains(strings.ToLower(e.Body), "referenced by")
}

// UserError indicates invalid CLI input, such as an unsupported trigger
// type or a malformed record ID.
type UserError struct {
	Message string
}

// Error implements the error interface.
func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a UserError with a formatted message.
func NewUserError(format string, args ...interface{}) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound checks if the error is a 404 API error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsUnauthorized checks if the error is a 401 API error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}
