package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// Login authenticates against authBase (e.g. "auth/user"). The session
// cookie is captured by the caller's cookie jar.
func Login(ctx context.Context, httpClient HTTPClient, baseURL, authBase string, req types.LoginRequest) (*types.AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, endpoint(baseURL, authBase, "login"), req)
	if err != nil {
		return nil, err
	}
	var out types.AuthResult
	if err := sendInto(httpClient, httpReq, "login", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a customer account. It does not sign in.
func Signup(ctx context.Context, httpClient HTTPClient, baseURL, authBase string, req types.SignupRequest) (*types.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, endpoint(baseURL, authBase, "signup"), req)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "signup")
	if err != nil {
		return nil, err
	}
	return decodeProfile(data, "signup")
}

// Refresh exchanges the refresh cookie for a new session.
func Refresh(ctx context.Context, httpClient HTTPClient, baseURL, authBase string) (*types.AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodGet, endpoint(baseURL, authBase, "refresh"), nil)
	if err != nil {
		return nil, err
	}
	var out types.AuthResult
	if err := sendInto(httpClient, httpReq, "refresh", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the server-side session.
func Logout(ctx context.Context, httpClient HTTPClient, baseURL, authBase string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, endpoint(baseURL, authBase, "logout"), nil)
	if err != nil {
		return err
	}
	_, _, err = send(httpClient, httpReq, "logout")
	return err
}

// Me fetches the current profile.
func Me(ctx context.Context, httpClient HTTPClient, baseURL, authBase string) (*types.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodGet, endpoint(baseURL, authBase, "me"), nil)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "get profile")
	if err != nil {
		return nil, err
	}
	return decodeProfile(data, "get profile")
}

// UpdateProfile sends name, email and avatar as multipart form data.
func UpdateProfile(ctx context.Context, httpClient HTTPClient, baseURL, authBase string, req types.UpdateProfileRequest) (*types.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var files []formFile
	if req.Avatar != nil {
		files = append(files, formFile{field: "avatar", file: *req.Avatar})
	}
	httpReq, err := newMultipartRequest(ctx, http.MethodPatch, endpoint(baseURL, authBase, "update"),
		[]formField{{"name", req.Name}, {"email", req.Email}}, files)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "update profile")
	if err != nil {
		return nil, err
	}
	return decodeProfile(data, "update profile")
}

// DeleteAccount removes the signed-in account.
func DeleteAccount(ctx context.Context, httpClient HTTPClient, baseURL, authBase string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodDelete, endpoint(baseURL, authBase, "delete"), nil)
	if err != nil {
		return err
	}
	_, _, err = send(httpClient, httpReq, "delete account")
	return err
}

// ForgotPassword requests a reset mail. The server message is returned.
func ForgotPassword(ctx context.Context, httpClient HTTPClient, baseURL, authBase, email string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := types.ValidateEmail(email); err != nil {
		return "", err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, endpoint(baseURL, authBase, "forgot-password"), types.ForgotPasswordRequest{Email: email})
	if err != nil {
		return "", err
	}
	_, msg, err := send(httpClient, httpReq, "forgot password")
	return msg, err
}

// ResetPassword completes the forgot-password flow.
func ResetPassword(ctx context.Context, httpClient HTTPClient, baseURL, authBase string, req types.ResetPasswordRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, endpoint(baseURL, authBase, "reset-password"), req)
	if err != nil {
		return "", err
	}
	_, msg, err := send(httpClient, httpReq, "reset password")
	return msg, err
}

// UpdatePassword changes the password of the signed-in actor.
func UpdatePassword(ctx context.Context, httpClient HTTPClient, baseURL, authBase string, req types.UpdatePasswordRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, endpoint(baseURL, authBase, "update-password"), req)
	if err != nil {
		return err
	}
	_, _, err = send(httpClient, httpReq, "update password")
	return err
}

// Dashboard fetches the role dashboard.
func Dashboard(ctx context.Context, httpClient HTTPClient, baseURL, authBase string) (*types.Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodGet, endpoint(baseURL, authBase, "dashboard"), nil)
	if err != nil {
		return nil, err
	}
	var out types.Dashboard
	if err := sendInto(httpClient, httpReq, "dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// decodeProfile accepts both {"user": {...}} and a bare profile object.
func decodeProfile(data json.RawMessage, op string) (*types.Profile, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, fmt.Errorf("%s: empty profile", op)
	}
	var wrapped struct {
		User *types.Profile `json:"user"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}
	var p types.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: decode profile: %w", op, err)
	}
	return &p, nil
}
