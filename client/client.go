package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/rm-Shayan/finetech-frontened/client/internal/api"
	"github.com/rm-Shayan/finetech-frontened/client/internal/statestore"
	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to the complaint API. Each role gets its own Portal with an
// independent session and cookie jar, so one process can hold a customer,
// an officer and a regulator session at the same time.
type Client struct {
	baseURL string

	// transport settings collected from options
	baseTransport http.RoundTripper
	timeout       time.Duration
	debug         bool
	limiter       *rate.Limiter
	navigator     Navigator
	storePath     string

	transport http.RoundTripper // shared chain below each portal's bearer wrapper
	http      *http.Client      // session-less calls (health, bank directory)
	store     *statestore.Store

	mu      sync.Mutex
	portals map[Role]*Portal

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for baseURL (e.g. "http://localhost:5000/api/v1").
// Additional options can be provided via functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 30 * time.Second,
		portals: make(map[Role]*Portal),
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.transport = c.buildTransport()
	c.http = &http.Client{Transport: c.transport, Timeout: c.timeout}

	if c.storePath != "" {
		store, err := statestore.Open(c.storePath)
		if err != nil {
			return nil, fmt.Errorf("open state store: %w", err)
		}
		c.store = store
	}
	return c, nil
}

// buildTransport stacks the wrappers: request id, then rate limit, then
// debug logging, then the base transport.
func (c *Client) buildTransport() http.RoundTripper {
	rt := c.baseTransport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if c.debug {
		rt = &debugTransport{base: rt}
	}
	if c.limiter != nil {
		rt = &rateLimitTransport{base: rt, limiter: c.limiter}
	}
	return &requestIDTransport{base: rt}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Portal returns the portal of role, creating it on first use. When a
// state store is configured, persisted credentials are restored.
func (c *Client) Portal(role Role) (*Portal, error) {
	if !role.Known() {
		return nil, fmt.Errorf("no portal for role %s", role)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.portals[role]; ok {
		return p, nil
	}
	p, err := newPortal(c, role)
	if err != nil {
		return nil, err
	}
	if c.store != nil {
		if err := p.restore(context.Background()); err != nil {
			log.Warn().Err(err).Str("role", role.String()).Msg("could not restore saved session")
		}
	}
	c.portals[role] = p
	return p, nil
}

// Close releases the state store (if any). Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// newRoleHTTPClient returns an http.Client with its own cookie jar.
func (c *Client) newRoleHTTPClient(tokenFn func() string) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: &bearerTransport{base: c.transport, token: tokenFn},
		Jar:       jar,
		Timeout:   c.timeout,
	}, nil
}

// --------------------------------------------------------------------
// Session-less operations
// --------------------------------------------------------------------

// Banks returns the bank directory.
func (c *Client) Banks(ctx context.Context) ([]Bank, error) {
	return api.ListBanks(ctx, c.http, c.baseURL)
}

// LoginPath returns the login screen of role.
func LoginPath(role Role) string {
	switch role {
	case types.RoleCustomer, types.RoleBankOfficer:
		return "/login"
	case types.RoleSBPAdmin:
		return "/admin/login?role=sbp_admin"
	case types.RoleUnknown:
		return "/login"
	default:
		return "/login"
	}
}
