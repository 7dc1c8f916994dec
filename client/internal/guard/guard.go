// Package guard decides whether a role-protected view may be entered.
//
// A Guard is built once per role from a RoleConfig. Every entry into a
// protected view creates a Mount, whose Check runs the verification
// sequence exactly once:
//
//  1. an unauthenticated session gets one refresh attempt
//  2. an authenticated session without a profile gets one profile fetch
//  3. the profile role is compared with the role the guard protects
//
// Failures never escape as errors; they become redirect decisions.
package guard

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/rm-Shayan/finetech-frontened/client/internal/session"
	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// UnauthorizedPath is where a signed-in actor of the wrong role is sent.
const UnauthorizedPath = "/unauthorized"

// RoleConfig parameterizes a Guard for one role.
type RoleConfig struct {
	Role types.Role
	// Refresh renews the session. It is expected to authenticate the
	// session on success; the guard does so itself if it did not.
	Refresh func(ctx context.Context) error
	// FetchProfile loads the current actor.
	FetchProfile func(ctx context.Context) (*types.Profile, error)
	// LoginPath is the role's login screen.
	LoginPath string
	// UnauthorizedPath defaults to "/unauthorized".
	UnauthorizedPath string
}

// Outcome is the guard's verdict.
type Outcome int

const (
	Allow Outcome = iota + 1
	RedirectLogin
	RedirectUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Decision is the result of a check. Path is empty for Allow; From is the
// location the actor tried to reach, carried along to the login screen.
type Decision struct {
	Outcome Outcome
	Path    string
	From    string
}

// Phase tracks a mount's progress.
type Phase int

const (
	Checking Phase = iota
	Done
)

// Guard verifies sessions for one role.
type Guard struct {
	cfg RoleConfig
}

// New returns a Guard for cfg.
func New(cfg RoleConfig) (*Guard, error) {
	if !cfg.Role.Known() {
		return nil, fmt.Errorf("guard: unknown role %s", cfg.Role)
	}
	if cfg.Refresh == nil || cfg.FetchProfile == nil {
		return nil, fmt.Errorf("guard: refresh and profile operations are required")
	}
	if cfg.LoginPath == "" {
		return nil, fmt.Errorf("guard: login path is required")
	}
	if cfg.UnauthorizedPath == "" {
		cfg.UnauthorizedPath = UnauthorizedPath
	}
	return &Guard{cfg: cfg}, nil
}

// Role returns the role this guard protects.
func (g *Guard) Role() types.Role { return g.cfg.Role }

// Mount starts a guarded entry into from for sess.
func (g *Guard) Mount(sess *session.Session, from string) *Mount {
	return &Mount{g: g, sess: sess, from: from}
}

// Mount is one entry into a protected view.
type Mount struct {
	g    *Guard
	sess *session.Session
	from string

	once     sync.Once
	mu       sync.Mutex
	phase    Phase
	decision Decision
}

// Phase reports Checking until Check has produced a decision.
func (m *Mount) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Check runs the verification sequence on first call and returns the
// cached decision afterwards.
func (m *Mount) Check(ctx context.Context) Decision {
	m.once.Do(func() {
		d := m.run(ctx)
		guardDecisionsTotal.WithLabelValues(m.g.cfg.Role.String(), d.Outcome.String()).Inc()
		m.mu.Lock()
		m.decision = d
		m.phase = Done
		m.mu.Unlock()
	})
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decision
}

func (m *Mount) run(ctx context.Context) Decision {
	cfg := m.g.cfg
	logger := log.With().Str("role", cfg.Role.String()).Str("from", m.from).Logger()

	if !m.sess.Authenticated() {
		m.sess.BeginCheck()
		if err := cfg.Refresh(ctx); err != nil {
			logger.Debug().Err(err).Msg("guard refresh failed")
			m.sess.Clear()
			return m.login()
		}
		if !m.sess.Authenticated() {
			m.sess.Authenticate("", nil)
		}
	}

	profile := m.sess.Profile()
	if profile == nil {
		p, err := cfg.FetchProfile(ctx)
		if err != nil || p == nil {
			logger.Debug().Err(err).Msg("guard profile fetch failed")
			m.sess.Clear()
			return m.login()
		}
		m.sess.SetProfile(p)
		profile = p
	}

	if profile.Role != cfg.Role {
		logger.Debug().Str("profile_role", profile.Role.String()).Msg("guard role mismatch")
		return Decision{Outcome: RedirectUnauthorized, Path: cfg.UnauthorizedPath, From: m.from}
	}
	return Decision{Outcome: Allow, From: m.from}
}

func (m *Mount) login() Decision {
	return Decision{Outcome: RedirectLogin, Path: m.g.cfg.LoginPath, From: m.from}
}
