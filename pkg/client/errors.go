package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

// APIError represents an error returned by the API
type APIError struct {
	StatusCode int                    `json:"-"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	// Details is an object for transition errors and a list of field
	// errors for validation failures.
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("API error: %s (status: %d)", e.Message, e.StatusCode)
}

// Detail returns a string entry of an object-valued Details
func (e *APIError) Detail(key string) string {
	m, ok := e.Details.(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := m[key].(string)
	return v
}

// IsNotFound returns true if the error is a 404 not found error
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 unauthorized error
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsValidationError returns true if the error is a 400 validation error
func (e *APIError) IsValidationError() bool {
	return e.StatusCode == http.StatusBadRequest
}

// IsClientError returns true for any 4xx response
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError returns true if the error is a 5xx server error
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// IsInvalidTransition returns true if the backend refused a status change
func (e *APIError) IsInvalidTransition() bool {
	return e.Code == apperrors.ErrCodeInvalidTransition
}

// parseAPIError decodes either the {"success":false,"error":{...}} envelope
// or a flat {"code","message"} body. Anything else becomes the message.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error) > 0 {
		if err := json.Unmarshal(env.Error, apiErr); err == nil {
			apiErr.StatusCode = status
			return apiErr
		}
		var msg string
		if err := json.Unmarshal(env.Error, &msg); err == nil {
			apiErr.Message = msg
			return apiErr
		}
	}
	if err := json.Unmarshal(body, apiErr); err == nil && (apiErr.Code != "" || apiErr.Message != "") {
		apiErr.StatusCode = status
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
