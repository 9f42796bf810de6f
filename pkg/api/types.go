// Package api defines the response envelope and error taxonomy shared by the
// HTTP client, the services built on it and the CLI output layer.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Response is the terminal result of one request. Exactly one of Data or
// Error is meaningful; Status is the HTTP status, or 0 when the request never
// produced a response.
type Response[T any] struct {
	Data   *T     `json:"data,omitempty"`
	Error  *Error `json:"error,omitempty"`
	Status int    `json:"status"`
}

// Error is the structured failure returned by the client for any non-2xx
// response or transport failure.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// Error codes.
const (
	ErrNetwork = "NETWORK_ERROR"
	ErrUnknown = "UNKNOWN_ERROR"

	// Server-declared codes the CLI knows how to phrase.
	ErrNotFound     = "NOT_FOUND"
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN"
	ErrValidation   = "VALIDATION_ERROR"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status > 0 {
		if text := http.StatusText(e.Status); text != "" {
			return text
		}
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Code
}

// IsNetwork reports whether the request failed before a response existed.
func (e *Error) IsNetwork() bool {
	return e.Code == ErrNetwork && e.Status == 0
}

// NewNetworkError wraps a transport failure. The original message is kept in
// Details["cause"].
func NewNetworkError(cause error) *Error {
	msg := "network request failed"
	details := map[string]any{}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	return &Error{
		Code:    ErrNetwork,
		Message: msg,
		Status:  0,
		Details: details,
	}
}

// AsError extracts an *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Wrap prefixes the message of an *Error with op while keeping code, status
// and details. Errors that are not *Error are wrapped with fmt.Errorf.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	apiErr, ok := AsError(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &Error{
		Code:    apiErr.Code,
		Message: fmt.Sprintf("%s: %s", op, apiErr.Error()),
		Status:  apiErr.Status,
		Details: apiErr.Details,
	}
}
