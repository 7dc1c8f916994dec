package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ClassifyHTTPError maps a non-2xx response onto the taxonomy:
//   - 401, or a message containing "expired"/"Unauthorized", is KindAuth
//   - 404 additionally wraps ErrNotFound
//   - everything else is KindRemote
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	msg := serverMessage(body)
	kind := KindRemote
	if statusCode == http.StatusUnauthorized || mentionsAuth(msg) {
		kind = KindAuth
	}
	if statusCode == http.StatusNotFound {
		underlyingErr = fmt.Errorf("%w: %w", underlyingErr, ErrNotFound)
	}
	return &ClassifiedError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    msg,
		Body:       body,
		Underlying: underlyingErr,
	}
}

// NewHTTPError creates a classified error for HTTP failures.
// This is a convenience function for API layer usage.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	msg := serverMessage(body)
	var underlyingErr error
	if msg != "" {
		underlyingErr = fmt.Errorf("%s failed: %s", operation, msg)
	} else {
		underlyingErr = fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	}
	return ClassifyHTTPError(statusCode, body, underlyingErr)
}

// NewEnvelopeError reports a 2xx response whose envelope says success=false.
func NewEnvelopeError(statusCode int, message, operation string) *ClassifiedError {
	kind := KindRemote
	if mentionsAuth(message) {
		kind = KindAuth
	}
	return &ClassifiedError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    message,
		Underlying: fmt.Errorf("%s failed: %s", operation, message),
	}
}

// NewNetworkError creates a classified error for network-level failures.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Kind:       KindNetwork,
		StatusCode: 0, // No HTTP status for network errors
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}

// serverMessage extracts the envelope "message" field, if any.
func serverMessage(body string) string {
	if body == "" {
		return ""
	}
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}
