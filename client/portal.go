package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/rm-Shayan/finetech-frontened/client/internal/api"
	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
	"github.com/rm-Shayan/finetech-frontened/client/internal/guard"
	"github.com/rm-Shayan/finetech-frontened/client/internal/retry"
	"github.com/rm-Shayan/finetech-frontened/client/internal/session"
	"github.com/rm-Shayan/finetech-frontened/client/internal/statestore"
	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// Portal is the API surface of one role. It owns the role's session,
// cookie jar, guard and retry policy. Safe for concurrent use.
type Portal struct {
	c         *Client
	role      Role
	paths     api.RolePaths
	loginPath string

	sess   *session.Session
	http   *http.Client
	guard  *guard.Guard
	policy *retry.Policy
}

func newPortal(c *Client, role Role) (*Portal, error) {
	paths, err := api.PathsFor(role)
	if err != nil {
		return nil, err
	}
	p := &Portal{
		c:         c,
		role:      role,
		paths:     paths,
		loginPath: LoginPath(role),
		sess:      session.New(role),
	}
	p.http, err = c.newRoleHTTPClient(p.sess.AccessToken)
	if err != nil {
		return nil, err
	}
	p.policy = retry.New(role, p.refresh, c.navigator, p.loginPath)
	p.guard, err = guard.New(guard.RoleConfig{
		Role:         role,
		Refresh:      p.refresh,
		FetchProfile: p.fetchProfile,
		LoginPath:    p.loginPath,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Client returns the client the portal belongs to.
func (p *Portal) Client() *Client { return p.c }

// Role returns the portal's role.
func (p *Portal) Role() Role { return p.role }

// LoginPath returns the role's login screen.
func (p *Portal) LoginPath() string { return p.loginPath }

// SessionState reports the lifecycle state of the role's session.
func (p *Portal) SessionState() SessionState { return p.sess.State() }

// Profile returns the cached profile, or nil if none was loaded.
func (p *Portal) Profile() *Profile { return p.sess.Profile() }

// --------------------------------------------------------------------
// Guard
// --------------------------------------------------------------------

// Mount starts a guarded entry into from without running it.
func (p *Portal) Mount(from string) *guard.Mount {
	return p.guard.Mount(p.sess, from)
}

// Guard checks whether the role may enter from. Redirect decisions are
// also sent to the configured Navigator.
func (p *Portal) Guard(ctx context.Context, from string) Decision {
	d := p.Mount(from).Check(ctx)
	if d.Outcome != guard.Allow && p.c.navigator != nil {
		p.c.navigator.Navigate(ctx, Destination{Path: d.Path, From: d.From})
	}
	return d
}

// --------------------------------------------------------------------
// Authentication
// --------------------------------------------------------------------

// Login signs in and returns the profile when the backend includes it.
func (p *Portal) Login(ctx context.Context, email, password string) (*Profile, error) {
	res, err := api.Login(ctx, p.http, p.c.baseURL, p.paths.Auth, types.LoginRequest{Email: email, Password: password})
	if err != nil {
		loginsTotal.WithLabelValues(p.role.String(), "failure").Inc()
		return nil, err
	}
	loginsTotal.WithLabelValues(p.role.String(), "success").Inc()
	p.sess.Authenticate(res.AccessToken, res.User)
	p.persist(ctx)
	log.Debug().Str("role", p.role.String()).Bool("profile", res.User != nil).Msg("logged in")
	return p.sess.Profile(), nil
}

// Signup registers a customer account. Only the customer portal offers it.
func (p *Portal) Signup(ctx context.Context, req SignupRequest) (*Profile, error) {
	if p.role != RoleCustomer {
		return nil, notPermitted("signup")
	}
	return api.Signup(ctx, p.http, p.c.baseURL, p.paths.Auth, req)
}

// Refresh renews the session from the refresh cookie.
func (p *Portal) Refresh(ctx context.Context) error {
	return p.refresh(ctx)
}

// refresh is the operation shared by the guard and the retry policy. A
// failed refresh clears the session; an auth failure also forgets the
// persisted credentials.
func (p *Portal) refresh(ctx context.Context) error {
	res, err := api.Refresh(ctx, p.http, p.c.baseURL, p.paths.Auth)
	if err != nil {
		p.sess.Clear()
		if cerr.IsAuthFailure(err) {
			p.forget(ctx)
		}
		return err
	}
	p.sess.Authenticate(res.AccessToken, res.User)
	p.persist(ctx)
	return nil
}

// fetchProfile is the guard's single profile fetch; it is not retried.
func (p *Portal) fetchProfile(ctx context.Context) (*types.Profile, error) {
	return api.Me(ctx, p.http, p.c.baseURL, p.paths.Auth)
}

// Logout ends the session. Local credentials are dropped even when the
// backend call fails.
func (p *Portal) Logout(ctx context.Context) error {
	err := api.Logout(ctx, p.http, p.c.baseURL, p.paths.Auth)
	p.sess.Clear()
	p.clearCookies()
	p.forget(ctx)
	return err
}

// Me fetches and caches the current profile.
func (p *Portal) Me(ctx context.Context) (*Profile, error) {
	prof, err := retry.Do(ctx, p.policy, p.fetchProfile)
	if err != nil {
		return nil, err
	}
	p.sess.SetProfile(prof)
	return prof, nil
}

// ForgotPassword asks the backend to mail a reset link.
func (p *Portal) ForgotPassword(ctx context.Context, email string) (string, error) {
	return api.ForgotPassword(ctx, p.http, p.c.baseURL, p.paths.Auth, email)
}

// ResetPassword sets a new password with a mailed token.
func (p *Portal) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return api.ResetPassword(ctx, p.http, p.c.baseURL, p.paths.Auth, types.ResetPasswordRequest{Token: token, NewPassword: newPassword})
}

// UpdatePassword changes the password; confirm must equal newPassword.
func (p *Portal) UpdatePassword(ctx context.Context, current, newPassword, confirm string) error {
	req := types.UpdatePasswordRequest{CurrentPassword: current, NewPassword: newPassword, ConfirmPassword: confirm}
	if err := req.Validate(); err != nil {
		return err
	}
	err := retry.Run(ctx, p.policy, func(ctx context.Context) error {
		return api.UpdatePassword(ctx, p.http, p.c.baseURL, p.paths.Auth, req)
	})
	if err != nil {
		return err
	}
	// The backend may rotate the session cookies.
	p.persist(ctx)
	return nil
}

// UpdateProfile changes name, email or avatar and caches the result.
func (p *Portal) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prof, err := retry.Do(ctx, p.policy, func(ctx context.Context) (*types.Profile, error) {
		return api.UpdateProfile(ctx, p.http, p.c.baseURL, p.paths.Auth, req)
	})
	if err != nil {
		return nil, err
	}
	p.sess.SetProfile(prof)
	return prof, nil
}

// DeleteAccount removes the account and drops the session.
func (p *Portal) DeleteAccount(ctx context.Context) error {
	err := retry.Run(ctx, p.policy, func(ctx context.Context) error {
		return api.DeleteAccount(ctx, p.http, p.c.baseURL, p.paths.Auth)
	})
	if err != nil {
		return err
	}
	p.sess.Clear()
	p.clearCookies()
	p.forget(ctx)
	return nil
}

// Dashboard fetches the role dashboard.
func (p *Portal) Dashboard(ctx context.Context) (*Dashboard, error) {
	return retry.Do(ctx, p.policy, func(ctx context.Context) (*types.Dashboard, error) {
		return api.Dashboard(ctx, p.http, p.c.baseURL, p.paths.Auth)
	})
}

// --------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------

// cookieURLs are the locations whose cookies make up a session.
func (p *Portal) cookieURLs() []*url.URL {
	var out []*url.URL
	for _, raw := range []string{p.c.baseURL + "/", p.c.baseURL + "/" + p.paths.Auth + "/refresh"} {
		if u, err := url.Parse(raw); err == nil {
			out = append(out, u)
		}
	}
	return out
}

func (p *Portal) persist(ctx context.Context) {
	if p.c.store == nil {
		return
	}
	seen := map[string]bool{}
	var cookies []*http.Cookie
	for _, u := range p.cookieURLs() {
		for _, ck := range p.http.Jar.Cookies(u) {
			if !seen[ck.Name] {
				seen[ck.Name] = true
				cookies = append(cookies, ck)
			}
		}
	}
	rec := statestore.Record{AccessToken: p.sess.AccessToken(), Cookies: cookies}
	if err := p.c.store.Save(ctx, p.c.baseURL, p.role, rec); err != nil {
		log.Warn().Err(err).Str("role", p.role.String()).Msg("could not save session")
	}
}

func (p *Portal) restore(ctx context.Context) error {
	rec, ok, err := p.c.store.Load(ctx, p.c.baseURL, p.role)
	if err != nil || !ok {
		return err
	}
	urls := p.cookieURLs()
	if len(urls) > 0 {
		p.http.Jar.SetCookies(urls[0], rec.Cookies)
	}
	p.sess.Restore(rec.AccessToken)
	log.Debug().Str("role", p.role.String()).Int("cookies", len(rec.Cookies)).Msg("restored saved session")
	return nil
}

func (p *Portal) forget(ctx context.Context) {
	if p.c.store == nil {
		return
	}
	if err := p.c.store.Delete(ctx, p.c.baseURL, p.role); err != nil {
		log.Warn().Err(err).Str("role", p.role.String()).Msg("could not forget session")
	}
}

// clearCookies expires every cookie the jar holds for the API.
func (p *Portal) clearCookies() {
	for _, u := range p.cookieURLs() {
		var expired []*http.Cookie
		for _, ck := range p.http.Jar.Cookies(u) {
			expired = append(expired, &http.Cookie{Name: ck.Name, Path: "/", MaxAge: -1})
		}
		if len(expired) > 0 {
			p.http.Jar.SetCookies(u, expired)
		}
	}
}

func notPermitted(action string) error {
	return cerr.Validation(action, cerr.ErrActionNotPermitted)
}
