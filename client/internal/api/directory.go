package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

const banksPath = "bank"

// ListBanks returns the bank directory.
func ListBanks(ctx context.Context, httpClient HTTPClient, baseURL string) ([]types.Bank, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodGet, endpoint(baseURL, banksPath), nil)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "list banks")
	if err != nil {
		return nil, err
	}
	var banks []types.Bank
	if len(data) == 0 || string(data) == "null" {
		return banks, nil
	}
	if err := json.Unmarshal(data, &banks); err == nil {
		return banks, nil
	}
	var wrapped struct {
		Banks []types.Bank `json:"banks"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("list banks: decode data: %w", err)
	}
	return wrapped.Banks, nil
}

// ListUsers lists accounts under path, relative to the role's auth base
// (e.g. "auth/Bank_officer/users", "auth/sbp_admin/users/all").
func ListUsers(ctx context.Context, httpClient HTTPClient, baseURL, path string, q types.UserQuery) (*types.UserPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := url.Values{}
	setInt(params, "page", q.Page)
	setInt(params, "limit", q.Limit)
	setString(params, "bankCode", q.BankCode)
	setString(params, "search", q.Search)
	setString(params, "status", q.Status)
	httpReq, err := newJSONRequest(ctx, http.MethodGet, withQuery(endpoint(baseURL, path), params), nil)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "list users")
	if err != nil {
		return nil, err
	}
	var page types.UserPage
	if len(data) == 0 || string(data) == "null" {
		return &page, nil
	}
	if err := json.Unmarshal(data, &page); err == nil {
		return &page, nil
	}
	// Some listings return a bare array.
	if err := json.Unmarshal(data, &page.Users); err != nil {
		return nil, fmt.Errorf("list users: decode data: %w", err)
	}
	page.Total = len(page.Users)
	return &page, nil
}

// RegisterBankOfficer creates a bank officer account (regulator only).
func RegisterBankOfficer(ctx context.Context, httpClient HTTPClient, baseURL, authBase string, req types.RegisterBankOfficerRequest) (*types.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, endpoint(baseURL, authBase, "register-bank-officer"), req)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "register bank officer")
	if err != nil {
		return nil, err
	}
	return decodeProfile(data, "register bank officer")
}

// Health probes the backend liveness endpoint.
func Health(ctx context.Context, httpClient HTTPClient, baseURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodGet, endpoint(baseURL, "health"), nil)
	if err != nil {
		return err
	}
	_, _, err = send(httpClient, httpReq, "health")
	return err
}
