package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when request input is missing or malformed.
	ErrValidation = errors.New("Email is required")
	// ErrChallengeNotFound is returned when no login challenge is pending for an email.
	ErrChallengeNotFound = errors.New("No pending login found for that email")
	// ErrChallengeExpired is returned when the pending login challenge has expired.
	ErrChallengeExpired = errors.New("The login code has expired. Please request a new one.")
	// ErrChallengeMismatch is returned when the supplied code does not match.
	ErrChallengeMismatch = errors.New("Invalid code. Please try again.")
	// ErrAuthRequired is returned when a protected call has no valid session.
	ErrAuthRequired = errors.New("Authentication required")
	// ErrUnknownTicker is returned when a ticker is not in the catalog.
	ErrUnknownTicker = errors.New("Ticker not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// IsChallengeError reports whether err is one of the login challenge failures.
func IsChallengeError(err error) bool {
	return errors.Is(err, ErrChallengeNotFound) ||
		errors.Is(err, ErrChallengeExpired) ||
		errors.Is(err, ErrChallengeMismatch)
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors never leak
// their details.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, ErrValidation.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrChallengeNotFound):
		return NewHTTPError(http.StatusBadRequest, ErrChallengeNotFound.Error(), "CHALLENGE_NOT_FOUND")
	case errors.Is(err, ErrChallengeExpired):
		return NewHTTPError(http.StatusBadRequest, ErrChallengeExpired.Error(), "CHALLENGE_EXPIRED")
	case errors.Is(err, ErrChallengeMismatch):
		return NewHTTPError(http.StatusBadRequest, ErrChallengeMismatch.Error(), "CHALLENGE_MISMATCH")
	case errors.Is(err, ErrAuthRequired):
		return NewHTTPError(http.StatusUnauthorized, ErrAuthRequired.Error(), "AUTH_REQUIRED")
	case errors.Is(err, ErrUnknownTicker):
		return NewHTTPError(http.StatusNotFound, ErrUnknownTicker.Error(), "UNKNOWN_TICKER")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
