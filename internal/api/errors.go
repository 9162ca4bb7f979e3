package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrSessionExpired is returned when the session cannot be renewed and the
	// user has to log in again
	ErrSessionExpired = errors.New("session expired, please reconnect")

	// ErrNoRefreshToken is the refresh failure cause when no refresh token is stored
	ErrNoRefreshToken = errors.New("no refresh token stored")

	// ErrInvalidResponse is returned when a successful response body is not valid JSON
	ErrInvalidResponse = errors.New("invalid response body")
)

// APIError represents an error returned by the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsUnauthorized checks if the error is an unauthorized error
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound checks if the error is a not found error
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is an APIError with status 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

type errorBodyKind int

const (
	errorBodyEmpty errorBodyKind = iota
	errorBodyStructured
	errorBodyRaw
)

// errorBody is the outcome of sniffing a non-2xx response body
type errorBody struct {
	kind    errorBodyKind
	message string
}

// parseErrorBody extracts the "message" field of a JSON error body, or keeps
// the raw text when the body is not JSON
func parseErrorBody(body []byte) errorBody {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return errorBody{kind: errorBodyEmpty}
	}

	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return errorBody{kind: errorBodyRaw, message: string(trimmed)}
	}

	return errorBody{kind: errorBodyStructured, message: decodeMessage(payload.Message)}
}

// decodeMessage accepts a plain string or a list of strings (validation errors)
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}

	return ""
}

// newAPIError builds the error for a non-2xx response
func newAPIError(statusCode int, body []byte) *APIError {
	message := parseErrorBody(body).message
	if message == "" {
		message = fmt.Sprintf("Erreur %d", statusCode)
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    message,
	}
}
