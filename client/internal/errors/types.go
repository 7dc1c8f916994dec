// Package errors provides the error taxonomy of the client SDK.
// Every failure is one of: an authentication failure that the retry policy
// may recover from, a local validation failure raised before any request,
// or a remote/network failure that is surfaced unchanged.
package errors

import (
	stderrors "errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Kind determines how a failure is handled by the retry policy.
type Kind int

const (
	// KindRemote covers non-auth HTTP failures reported by the backend.
	KindRemote Kind = iota

	// KindAuth marks failures caused by a missing or expired session.
	// Examples: 401 Unauthorized, "jwt expired".
	KindAuth

	// KindValidation marks input rejected locally before any request.
	KindValidation

	// KindNetwork marks transport-level failures (no HTTP status).
	KindNetwork
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRemote:
		return "remote"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

var (
	// ErrSessionExpired is returned once refresh has failed and the caller
	// was sent to the login screen.
	ErrSessionExpired = stderrors.New("session ended, please log in again")
	// ErrReasonRequired is returned when a transition needs a reason and none was given.
	ErrReasonRequired = stderrors.New("a reason is required for this status change")
	// ErrActionNotPermitted is returned when the role cannot perform the action.
	ErrActionNotPermitted = stderrors.New("action not permitted for this role")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = stderrors.New("not found")
	// ErrValidation is matched by every validation failure.
	ErrValidation = stderrors.New("validation failed")
)

// ClassifiedError wraps an error with categorization metadata.
type ClassifiedError struct {
	Kind       Kind
	StatusCode int    // HTTP status code (0 for non-HTTP errors)
	Message    string // server or validation message shown to the user
	Field      string // offending field for validation errors
	Body       string // Response body for debugging
	Underlying error  // The original error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Kind, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Kind, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// Is lets every validation error match ErrValidation.
func (e *ClassifiedError) Is(target error) bool {
	return target == ErrValidation && e.Kind == KindValidation
}

// NewValidationError reports invalid input for field.
func NewValidationError(field, msg string) *ClassifiedError {
	return &ClassifiedError{
		Kind:       KindValidation,
		Message:    msg,
		Field:      field,
		Underlying: fmt.Errorf("%s: %s", field, msg),
	}
}

// Validation wraps a sentinel (ErrReasonRequired, ErrActionNotPermitted)
// as a validation failure so both errors.Is checks succeed.
func Validation(field string, sentinel error) *ClassifiedError {
	return &ClassifiedError{
		Kind:       KindValidation,
		Message:    sentinel.Error(),
		Field:      field,
		Underlying: fmt.Errorf("%s: %w", field, sentinel),
	}
}

// IsAuthFailure reports whether err should trigger a session refresh:
// an HTTP 401 or a backend failure whose message mentions "expired" or
// "Unauthorized". Validation failures, transport failures and
// ErrSessionExpired never qualify.
func IsAuthFailure(err error) bool {
	if err == nil || stderrors.Is(err, ErrSessionExpired) {
		return false
	}
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		switch ce.Kind {
		case KindAuth:
			return true
		case KindValidation, KindNetwork:
			return false
		}
		if ce.Message != "" && mentionsAuth(ce.Message) {
			return true
		}
	}
	// A TLS "certificate has expired" is not a session problem.
	var urlErr *url.Error
	var netErr net.Error
	if stderrors.As(err, &urlErr) || stderrors.As(err, &netErr) {
		return false
	}
	return mentionsAuth(err.Error())
}

func mentionsAuth(msg string) bool {
	return strings.Contains(msg, "expired") || strings.Contains(msg, "Unauthorized")
}

// IsValidation reports whether err was raised before any request.
func IsValidation(err error) bool {
	return stderrors.Is(err, ErrValidation)
}

// UserMessage returns the most useful text for display: the server or
// validation message when one exists, otherwise err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *ClassifiedError
	if stderrors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return err.Error()
}
