package client

import (
	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
)

// Re-export SDK errors so callers compare against a single symbol.
var (
	ErrSessionExpired     = cerr.ErrSessionExpired
	ErrReasonRequired     = cerr.ErrReasonRequired
	ErrActionNotPermitted = cerr.ErrActionNotPermitted
	ErrNotFound           = cerr.ErrNotFound
	ErrValidation         = cerr.ErrValidation
)

// ClassifiedError carries the kind, HTTP status and server message.
type ClassifiedError = cerr.ClassifiedError

// IsAuthFailure reports whether err is a 401 or an "expired"/"Unauthorized" failure.
func IsAuthFailure(err error) bool { return cerr.IsAuthFailure(err) }

// IsValidation reports whether err was raised locally before any request.
func IsValidation(err error) bool { return cerr.IsValidation(err) }

// UserMessage returns the server or validation message for display.
func UserMessage(err error) string { return cerr.UserMessage(err) }
