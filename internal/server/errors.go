package server

import (
	"fmt"
	"net/http"
)

// Request validation messages. msgTooManyURLs keeps its historical wording:
// a request with exactly limit URLs passes validation, only limit+1 or more
// is rejected.
const (
	msgNoURLs      = "should be at least one url"
	msgNotURLs     = "should contain urls only"
	msgTooManyURLs = "too many urls in request, should be less than %d"
)

// HTTPError is an error with an HTTP status, rendered by ErrorMiddleware.
type HTTPError struct {
	Status  int
	Message string
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Error implements error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func errNoURLs() *HTTPError {
	return NewHTTPError(http.StatusBadRequest, msgNoURLs)
}

func errNotURLs() *HTTPError {
	return NewHTTPError(http.StatusBadRequest, msgNotURLs)
}

func errTooManyURLs(limit int) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(msgTooManyURLs, limit))
}
