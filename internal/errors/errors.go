// Package errors provides custom error types for the generative language API client.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Sentinel errors for common cases
var (
	ErrInvalidResponse = errors.New("invalid response format")
	ErrMissingAPIKey   = errors.New("missing API key")
	ErrNetwork         = errors.New("network error")
)

// Messages surfaced to the conversation when a completion fails
const (
	MsgInvalidResponse = "Invalid response format from API"
	msgHTTPStatusFmt   = "HTTP error! status: %d"
)

// APIError represents a non-2xx response from the provider
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf(msgHTTPStatusFmt, e.StatusCode)
}

// NewAPIErrorWithBody creates an APIError carrying a truncated response body for diagnostics
func NewAPIErrorWithBody(statusCode int, endpoint, body string) *APIError {
	return &APIError{StatusCode: statusCode, Endpoint: endpoint, Body: body}
}

// ParseError represents a 2xx response that does not have the expected shape
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error: %s (path %s)", e.Message, e.Path)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// NetworkError represents a request that could not be sent or completed
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// NewNetworkError creates a NetworkError. A *url.Error cause is unwrapped so the
// request URL, which carries the API key, never reaches the message.
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// ConfigError represents invalid or missing configuration
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewMissingAPIKeyError reports that no API key was configured
func NewMissingAPIKeyError(envVars ...string) *ConfigError {
	msg := "no API key configured"
	if len(envVars) > 0 {
		msg = fmt.Sprintf("no API key configured, set %s", envVars[0])
	}
	return &ConfigError{Field: "api_key", Message: msg, Err: ErrMissingAPIKey}
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsParseError reports whether err is a malformed-response failure
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// IsConfigError reports whether err is a configuration failure
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsTimeoutError reports whether err was caused by a deadline
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsCanceled reports whether err was caused by cancellation
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// GetHTTPStatus returns the HTTP status code carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// FailureMessage converts a completion error into the text shown in the conversation.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if IsParseError(err) {
		return MsgInvalidResponse
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Err != nil {
		return netErr.Err.Error()
	}
	return err.Error()
}
