// Package session holds the per-role authentication state of a client.
// A Session is created once per role and mutated by login, refresh,
// logout and the guard; it is safe for concurrent use.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// State is the lifecycle state of a session.
type State int

const (
	Uninitialized State = iota
	Checking
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is the authentication state of one role.
type Session struct {
	mu      sync.RWMutex
	role    types.Role
	state   State
	profile *types.Profile
	token   string
	now     func() time.Time
}

// New returns an uninitialized session for role.
func New(role types.Role) *Session {
	return &Session{role: role, now: time.Now}
}

// Role returns the role the session belongs to.
func (s *Session) Role() types.Role { return s.role }

// State returns the current lifecycle state. An authenticated session
// whose access token has expired reports Unauthenticated.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == Authenticated && s.expiredLocked() {
		return Unauthenticated
	}
	return s.state
}

// Authenticated reports whether the session can be used for requests.
func (s *Session) Authenticated() bool {
	return s.State() == Authenticated
}

// Profile returns a copy of the loaded profile, or nil.
func (s *Session) Profile() *types.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// AccessToken returns the bearer token, if the backend issued one.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// BeginCheck marks the session as being verified by the guard.
func (s *Session) BeginCheck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Checking
}

// Authenticate records a successful login or refresh. An empty token
// keeps the previous one; a nil profile keeps the loaded profile.
func (s *Session) Authenticate(token string, profile *types.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Authenticated
	if token != "" {
		s.token = token
	}
	if profile != nil {
		p := *profile
		s.profile = &p
	}
}

// SetProfile stores the fetched profile without changing the state.
func (s *Session) SetProfile(profile *types.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile == nil {
		s.profile = nil
		return
	}
	p := *profile
	s.profile = &p
}

// Clear drops every credential and marks the session unauthenticated.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unauthenticated
	s.profile = nil
	s.token = ""
}

// Restore seeds a persisted access token. The session becomes
// authenticated only if the token is a JWT that has not expired; the
// profile is always fetched again.
func (s *Session) Restore(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	exp, ok := expiry(token)
	if ok && exp.After(s.now()) {
		s.state = Authenticated
	}
}

// ExpiresAt returns the access token expiry when it can be read.
func (s *Session) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return expiry(s.token)
}

func (s *Session) expiredLocked() bool {
	exp, ok := expiry(s.token)
	return ok && !exp.After(s.now())
}

// expiry reads the exp claim without verifying the signature; the server
// stays the authority, this only avoids sending a token known to be stale.
func expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
