package client

import (
	"context"

	"github.com/rm-Shayan/finetech-frontened/client/internal/api"
	"github.com/rm-Shayan/finetech-frontened/client/internal/retry"
	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// Users lists customers of the officer's bank (bank officer only).
func (p *Portal) Users(ctx context.Context, q UserQuery) (*UserPage, error) {
	if p.role != RoleBankOfficer {
		return nil, notPermitted("users")
	}
	return p.listUsers(ctx, p.paths.Auth+"/users", q)
}

// BankOfficers lists every bank officer (regulator only).
func (p *Portal) BankOfficers(ctx context.Context, q UserQuery) (*UserPage, error) {
	if p.role != RoleSBPAdmin {
		return nil, notPermitted("bank officers")
	}
	return p.listUsers(ctx, p.paths.Auth+"/users/bank-officers", q)
}

// AllUsers lists every account (regulator only).
func (p *Portal) AllUsers(ctx context.Context, q UserQuery) (*UserPage, error) {
	if p.role != RoleSBPAdmin {
		return nil, notPermitted("all users")
	}
	return p.listUsers(ctx, p.paths.Auth+"/users/all", q)
}

// RegisterBankOfficer onboards an officer for a bank (regulator only).
func (p *Portal) RegisterBankOfficer(ctx context.Context, req RegisterBankOfficerRequest) (*Profile, error) {
	if p.role != RoleSBPAdmin {
		return nil, notPermitted("register bank officer")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return retry.Do(ctx, p.policy, func(ctx context.Context) (*types.Profile, error) {
		return api.RegisterBankOfficer(ctx, p.http, p.c.baseURL, p.paths.Auth, req)
	})
}

func (p *Portal) listUsers(ctx context.Context, path string, q UserQuery) (*UserPage, error) {
	return retry.Do(ctx, p.policy, func(ctx context.Context) (*types.UserPage, error) {
		return api.ListUsers(ctx, p.http, p.c.baseURL, path, q)
	})
}
