package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// Lifecycle error codes
const (
	ErrCodeTransitionRejected        = "TRANSITION_REJECTED"
	ErrCodeInvalidTransition         = "INVALID_TRANSITION"
	ErrCodeTransitionSetInconsistent = "TRANSITION_SET_INCONSISTENT"
	ErrCodeTimeoutWaitingForStatus   = "TIMEOUT_WAITING_FOR_STATUS"
	ErrCodeIdentityAmbiguous         = "IDENTITY_AMBIGUOUS"
	ErrCodeKnownDefectReproduced     = "KNOWN_DEFECT_REPRODUCED"
	ErrCodeTransportFailure          = "TRANSPORT_FAILURE"
	ErrCodePreconditionFailed        = "PRECONDITION_FAILED"
	ErrCodePostconditionFailed       = "POSTCONDITION_FAILED"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// coder is implemented by errors that carry a code without being an AppError.
type coder interface {
	Code() string
}

// CodeOf returns the code of the first coded error in err's chain, or "".
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// HasCode reports whether any error in err's chain carries the given code.
// Unlike CodeOf it does not stop at the outermost coded error.
func HasCode(err error, code string) bool {
	for err != nil {
		switch e := err.(type) {
		case *AppError:
			if e.Code == code {
				return true
			}
		case coder:
			if e.Code() == code {
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// Lifecycle constructors

// InvalidTransition reports a status change that the transition table forbids.
// The mock backend returns it as a 400; the harness raises it before sending.
func InvalidTransition(from, to string) *AppError {
	return New(ErrCodeInvalidTransition,
		fmt.Sprintf("invalid status transition %s -> %s", from, to),
		http.StatusBadRequest).WithDetails(map[string]string{"from": from, "to": to})
}

// TransitionRejected wraps a backend refusal of a status update.
func TransitionRejected(from, to string, err error) *AppError {
	return Wrap(err, ErrCodeTransitionRejected,
		fmt.Sprintf("backend rejected status transition %s -> %s", from, to),
		http.StatusBadRequest).WithDetails(map[string]string{"from": from, "to": to})
}

// TransitionSetInconsistent reports backend-advertised transitions that the table does not allow.
func TransitionSetInconsistent(current string, unexpected []string) *AppError {
	return New(ErrCodeTransitionSetInconsistent,
		fmt.Sprintf("validTransitions for %s contains statuses outside the lifecycle table: %v", current, unexpected),
		http.StatusInternalServerError).WithDetails(map[string]interface{}{
		"current":    current,
		"unexpected": unexpected,
	})
}

// IdentityAmbiguous reports that an identity lookup found zero or several alerts.
func IdentityAmbiguous(identity string, matches int) *AppError {
	return New(ErrCodeIdentityAmbiguous,
		fmt.Sprintf("expected exactly one alert for identity %s, found %d", identity, matches),
		http.StatusConflict).WithDetails(map[string]interface{}{
		"identity": identity,
		"matches":  matches,
	})
}

// KnownDefectReproduced signals the tracked re-scan idempotency defect of the system under test.
func KnownDefectReproduced(originalID string, duplicateIDs []string) *AppError {
	return New(ErrCodeKnownDefectReproduced,
		fmt.Sprintf("re-scan re-created %d identical OPEN alert(s) for resolved alert %s", len(duplicateIDs), originalID),
		http.StatusConflict).WithDetails(map[string]interface{}{
		"original_id":   originalID,
		"duplicate_ids": duplicateIDs,
	})
}

// TransportFailure wraps a network-level failure talking to the system under test.
func TransportFailure(message string, err error) *AppError {
	return Wrap(err, ErrCodeTransportFailure, message, http.StatusBadGateway)
}

// PreconditionFailed reports that a scenario could not start from the required state.
func PreconditionFailed(message string) *AppError {
	return New(ErrCodePreconditionFailed, message, http.StatusPreconditionFailed)
}

// PostconditionFailed reports that a scenario finished in an unexpected state.
func PostconditionFailed(message string) *AppError {
	return New(ErrCodePostconditionFailed, message, http.StatusInternalServerError)
}

// RateLimited reports that a client exceeded the request rate
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}
