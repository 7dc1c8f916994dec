package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHTTPError_Kinds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"401", http.StatusUnauthorized, `{"success":false,"message":"Invalid token"}`, KindAuth},
		{"403 expired message", http.StatusForbidden, `{"message":"jwt expired"}`, KindAuth},
		{"500 unauthorized message", http.StatusInternalServerError, `{"message":"Unauthorized request"}`, KindAuth},
		{"400", http.StatusBadRequest, `{"message":"bad input"}`, KindRemote},
		{"500 no body", http.StatusInternalServerError, "", KindRemote},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewHTTPError(tc.status, tc.body, "op")
			assert.Equal(t, tc.want, err.Kind)
			assert.Equal(t, tc.status, err.StatusCode)
		})
	}
}

func TestNewHTTPError_SurfacesServerMessage(t *testing.T) {
	t.Parallel()
	err := NewHTTPError(http.StatusBadRequest, `{"success":false,"message":"Complaint already closed","statusCode":400}`, "close complaint")
	assert.Equal(t, "Complaint already closed", err.Message)
	assert.Contains(t, err.Error(), "Complaint already closed")
	assert.Equal(t, "Complaint already closed", UserMessage(fmt.Errorf("wrapped: %w", err)))
}

func TestNotFoundWrapsSentinel(t *testing.T) {
	t.Parallel()
	err := NewHTTPError(http.StatusNotFound, "", "get complaint")
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, IsAuthFailure(err))
}

func TestIsAuthFailure(t *testing.T) {
	t.Parallel()
	assert.False(t, IsAuthFailure(nil))
	assert.True(t, IsAuthFailure(NewHTTPError(http.StatusUnauthorized, "", "me")))
	assert.True(t, IsAuthFailure(stderrors.New("token expired")))
	assert.True(t, IsAuthFailure(stderrors.New("Unauthorized")))
	assert.False(t, IsAuthFailure(stderrors.New("unauthorized")), "match is case sensitive")
	assert.False(t, IsAuthFailure(stderrors.New("boom")))
	assert.False(t, IsAuthFailure(ErrSessionExpired))
	assert.False(t, IsAuthFailure(fmt.Errorf("save: %w", ErrSessionExpired)))
	assert.False(t, IsAuthFailure(NewValidationError("token", "reset token expired")))
}

func TestTransportFailuresAreNotAuthFailures(t *testing.T) {
	t.Parallel()
	tlsErr := stderrors.New("x509: certificate has expired or is not yet valid")
	assert.False(t, IsAuthFailure(NewNetworkError("me", tlsErr)))
	assert.False(t, IsAuthFailure(fmt.Errorf("dashboard: %w", NewNetworkError("dashboard", tlsErr))))
	assert.False(t, IsAuthFailure(&url.Error{Op: "Get", URL: "https://api.example.com/me", Err: tlsErr}))

	// A 5xx whose server message mentions expiry is still a backend answer.
	assert.True(t, IsAuthFailure(NewHTTPError(http.StatusInternalServerError, `{"message":"jwt expired"}`, "me")))
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()
	v := NewValidationError("description", "must be at least 20 characters")
	require.True(t, IsValidation(v))
	assert.Equal(t, "description", v.Field)

	r := Validation("reason", ErrReasonRequired)
	assert.True(t, stderrors.Is(r, ErrReasonRequired))
	assert.True(t, stderrors.Is(r, ErrValidation))
	assert.Equal(t, ErrReasonRequired.Error(), UserMessage(r))
}

func TestNetworkError(t *testing.T) {
	t.Parallel()
	base := stderrors.New("connection refused")
	err := NewNetworkError("login", base)
	assert.Equal(t, KindNetwork, err.Kind)
	assert.True(t, stderrors.Is(err, base))
	assert.Equal(t, "[network] login network error: connection refused", err.Error())
}
