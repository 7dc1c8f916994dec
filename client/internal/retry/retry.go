// Package retry recovers role-scoped actions from an expired session.
//
// An action that fails with an authentication failure triggers one
// session refresh. If the refresh succeeds the action runs exactly once
// more and that outcome is final; if it fails the caller is sent to the
// login screen and receives ErrSessionExpired.
package retry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// Destination is a navigation target.
type Destination struct {
	Path string
	From string
}

// Navigator moves the user to another screen. CLI and MCP front-ends
// implement it by printing or returning the login hint.
type Navigator interface {
	Navigate(ctx context.Context, dst Destination)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, dst Destination)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(ctx context.Context, dst Destination) { f(ctx, dst) }

// Policy is the retry policy of one role. It is safe for concurrent use;
// concurrent refreshes are coalesced into one call.
type Policy struct {
	role      types.Role
	refresh   func(ctx context.Context) error
	navigator Navigator
	loginPath string

	group singleflight.Group
	// waiting counts callers attached to the in-flight refresh.
	waiting atomic.Int32
}

// refreshTimeout bounds a shared refresh, which outlives the caller that
// started it.
const refreshTimeout = 30 * time.Second

// New returns a Policy. navigator may be nil, in which case failed
// refreshes are only logged.
func New(role types.Role, refresh func(ctx context.Context) error, navigator Navigator, loginPath string) *Policy {
	if refresh == nil {
		panic("retry: refresh cannot be nil")
	}
	return &Policy{role: role, refresh: refresh, navigator: navigator, loginPath: loginPath}
}

// Do runs action under p. Non-auth failures are returned unchanged.
func Do[T any](ctx context.Context, p *Policy, action func(ctx context.Context) (T, error)) (T, error) {
	res, err := action(ctx)
	if err == nil || !cerr.IsAuthFailure(err) {
		return res, err
	}

	role := p.role.String()
	log.Debug().Err(err).Str("role", role).Msg("auth failure, refreshing session")
	if rerr := p.refreshOnce(ctx); rerr != nil {
		var zero T
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		return zero, fmt.Errorf("%w: %v", cerr.ErrSessionExpired, rerr)
	}

	actionRetriesTotal.WithLabelValues(role).Inc()
	return action(ctx)
}

// Run is Do for actions without a result.
func Run(ctx context.Context, p *Policy, action func(ctx context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, action(ctx)
	})
	return err
}

// refreshOnce calls the refresh operation, sharing the call with any
// concurrent callers. The shared call ignores the cancellation of the
// caller that started it; each caller stops waiting when its own ctx
// ends. On failure the login navigation happens once per shared refresh,
// not once per waiter.
func (p *Policy) refreshOnce(ctx context.Context) error {
	role := p.role.String()
	ch := p.group.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		refreshAttemptsTotal.WithLabelValues(role).Inc()
		if err := p.refresh(rctx); err != nil {
			refreshResultsTotal.WithLabelValues(role, "failure").Inc()
			p.navigateToLogin(rctx)
			return nil, err
		}
		refreshResultsTotal.WithLabelValues(role, "success").Inc()
		return nil, nil
	})
	p.waiting.Add(1)
	defer p.waiting.Add(-1)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (p *Policy) navigateToLogin(ctx context.Context) {
	log.Info().Str("role", p.role.String()).Str("path", p.loginPath).Msg("session expired, redirecting to login")
	loginNavigationsTotal.WithLabelValues(p.role.String()).Inc()
	if p.navigator != nil {
		p.navigator.Navigate(ctx, Destination{Path: p.loginPath})
	}
}
