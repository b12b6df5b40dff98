package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// ErrorResponse is the body Discourse sends with most 4xx responses
type ErrorResponse struct {
	Errors    []string `json:"errors"`
	ErrorType string   `json:"error_type"`
}

// APIError represents an API error response
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// ParseError parses an error response from the API
func ParseError(resp *resty.Response) error {
	statusCode := resp.StatusCode()

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil && (errResp.ErrorType != "" || len(errResp.Errors) > 0) {
		code := errResp.ErrorType
		if code == "" {
			code = "error"
		}
		return &APIError{
			Code:       code,
			Message:    strings.Join(errResp.Errors, "; "),
			StatusCode: statusCode,
		}
	}

	// Fallback to the status line; HTML error pages are not worth echoing
	return &APIError{
		Code:       strings.ToLower(strings.ReplaceAll(strings.TrimSpace(httpStatusText(resp)), " ", "_")),
		StatusCode: statusCode,
	}
}

func httpStatusText(resp *resty.Response) string {
	status := resp.Status()
	if _, text, ok := strings.Cut(status, " "); ok {
		return text
	}
	if status == "" {
		return "unknown_error"
	}
	return status
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return StatusCode(err) == 404
}

// IsForbidden checks if error is due to insufficient permissions
func IsForbidden(err error) bool {
	return StatusCode(err) == 403
}

// CheckResponse checks if response is successful and returns error if not
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return ParseError(resp)
	}

	return nil
}

// ParseResponseBody parses response body into target interface
func ParseResponseBody(body []byte, target interface{}) error {
	return json.Unmarshal(body, target)
}
