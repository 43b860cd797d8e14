package apierror

import (
	"fmt"
	"net/http"
)

// APIError is the single structured failure type carried across layers.
// StatusCode and Message are exactly what the response envelope exposes.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func New(status int, message string) *APIError {
	return &APIError{StatusCode: status, Message: message}
}

func BadRequest(message string) *APIError {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *APIError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *APIError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *APIError {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *APIError {
	return New(http.StatusConflict, message)
}

func Internal(message string) *APIError {
	return New(http.StatusInternalServerError, message)
}
