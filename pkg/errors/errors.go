package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Refresh errors
	ErrorTypeUnauthenticated  ErrorType = "unauthenticated"
	ErrorTypeSourceFetch      ErrorType = "source_fetch"
	ErrorTypeUserNotFound     ErrorType = "user_not_found"
	ErrorTypeUnsupportedLevel ErrorType = "unsupported_level"

	// Transport detail
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeTimeout ErrorType = "timeout"

	// Local errors
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeValidation ErrorType = "validation"

	ErrorTypeUnknown ErrorType = "unknown"
)

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
	Source     string
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.Cause != nil && e.Source != "" {
		return fmt.Sprintf("%s: %s: %v", e.Message, e.Source, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// UnauthenticatedError is returned when no username can be resolved
func UnauthenticatedError() *CLIError {
	err := NewCLIError(ErrorTypeUnauthenticated, "No forum user to report on", nil)
	err.Suggestion = "Pass a username, set forum.username, or run 'tlprogress session login'."
	return err
}

// SourceFetchError wraps a failed fetch of one of the stat sources
func SourceFetchError(source string, statusCode int, cause error) *CLIError {
	err := NewCLIError(ErrorTypeSourceFetch, "Failed to fetch forum stats", cause)
	err.Source = source
	err.StatusCode = statusCode
	switch {
	case statusCode == 403 || statusCode == 401:
		err.Suggestion = "The forum refused the request. Refresh your session cookie with 'tlprogress session login'."
	case statusCode == 404:
		err.Suggestion = "Check the forum base URL and the username."
	case statusCode == 429:
		err.Suggestion = "The forum is rate limiting requests. Wait a moment and refresh."
	case statusCode >= 500:
		err.Suggestion = "The forum returned a server error. Try again later."
	case statusCode == 0:
		err.Suggestion = "Check your internet connection and the forum base URL."
	}
	return err
}

// UserNotFoundError reports a directory miss for username
func UserNotFoundError(username string) *CLIError {
	return NewCLIError(ErrorTypeUserNotFound,
		fmt.Sprintf("User not found in directory: %s", username), nil)
}

// UnsupportedLevelError reports a trust level without a progress display
func UnsupportedLevelError(level int) *CLIError {
	return NewCLIError(ErrorTypeUnsupportedLevel,
		fmt.Sprintf("Trust level %d has no further requirements to show", level), nil)
}

// ConfigError reports a missing or invalid setting
func ConfigError(key, reason string) *CLIError {
	err := NewCLIError(ErrorTypeConfig, fmt.Sprintf("Invalid configuration %s: %s", key, reason), nil)
	err.Suggestion = fmt.Sprintf("Set it with 'tlprogress config set %s <value>'.", key)
	return err
}

// ValidationError creates a validation error
func ValidationError(field, reason string) *CLIError {
	message := fmt.Sprintf("Validation error: %s - %s", field, reason)
	return NewCLIError(ErrorTypeValidation, message, nil)
}

// IsType reports whether err is a CLIError of type t
func IsType(err error, t ErrorType) bool {
	var cliErr *CLIError
	return errors.As(err, &cliErr) && cliErr.Type == t
}

// CategorizeError converts a standard error into a CLIError
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "connection refused"), strings.Contains(errMsg, "no such host"):
		e := NewCLIError(ErrorTypeNetwork, "Could not connect to the forum", err)
		e.Suggestion = "Check your internet connection and the forum base URL."
		return e
	case strings.Contains(errMsg, "timeout"), strings.Contains(errMsg, "context deadline exceeded"):
		e := NewCLIError(ErrorTypeTimeout, "Request timed out", err)
		e.Suggestion = "The forum is taking too long to respond. Try again, or raise api.timeout."
		return e
	default:
		return NewCLIError(ErrorTypeUnknown, errMsg, err)
	}
}

// FormatError returns a single user-friendly status string
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	sb.WriteString("Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	if cliErr.Type == ErrorTypeUnknown {
		sb.WriteString(cliErr.Message)
	} else {
		sb.WriteString(cliErr.Error())
	}
	if cliErr.StatusCode > 0 {
		sb.WriteString(fmt.Sprintf(" [HTTP %d]", cliErr.StatusCode))
	}

	if cliErr.HasSuggestion() {
		sb.WriteString(" (")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString(")")
	}

	return sb.String()
}
