package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/rm-Shayan/finetech-frontened/client/internal/statestore"
)

// Option configures a Client during construction in New.
//
// Options only record settings; the transport chain is assembled after all
// options ran, so their order does not matter.
type Option func(*Client) error

// WithHTTPTimeout sets the Timeout of every http.Client the SDK creates.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP request.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithTransport replaces the base RoundTripper beneath the SDK wrappers.
// Useful for tests and custom TLS setups.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		if rt == nil {
			return fmt.Errorf("transport cannot be nil")
		}
		c.baseTransport = rt
		return nil
	}
}

// WithDebugLogging logs each request/response when enabled is true.
//
// Do not enable this option in production environments as it increases
// verbosity and dumps bodies, which include credentials on login.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = c.debug || enabled
		return nil
	}
}

// WithRateLimit caps outbound requests at rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 {
			return fmt.Errorf("rate limit must be > 0")
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithNavigator receives login and unauthorized redirects.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) error {
		c.navigator = nav
		return nil
	}
}

// WithStateStore persists role sessions in a SQLite file at path so a
// later process can resume them.
func WithStateStore(path string) Option {
	return func(c *Client) error {
		if path == "" {
			return fmt.Errorf("state store path cannot be empty")
		}
		c.storePath = path
		return nil
	}
}

// WithStateDir persists sessions in dir/sessions.db. An empty dir means
// ~/.complaintdesk.
func WithStateDir(dir string) Option {
	return func(c *Client) error {
		path, err := statestore.DBPath(dir)
		if err != nil {
			return fmt.Errorf("state dir: %w", err)
		}
		c.storePath = path
		return nil
	}
}
