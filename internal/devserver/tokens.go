package devserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"

	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

// claims is the payload of both token kinds.
type claims struct {
	Role    client.Role `json:"role"`
	Kind    string      `json:"kind"`
	Version int         `json:"ver"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func (ti *tokenIssuer) sign(userID string, role client.Role, ver int, kind string, ttl time.Duration) (string, time.Time, error) {
	now := ti.now()
	exp := now.Add(ttl)
	c := claims{
		Role:    role,
		Kind:    kind,
		Version: ver,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return s, exp, nil
}

// issue signs a token pair and sets both cookies. It returns the access
// token so handlers can echo it in the payload.
func (ti *tokenIssuer) issue(w http.ResponseWriter, p client.Profile, ver int) (string, error) {
	access, accessExp, err := ti.sign(p.ID, p.Role, ver, tokenAccess, ti.accessTTL)
	if err != nil {
		return "", err
	}
	refresh, refreshExp, err := ti.sign(p.ID, p.Role, ver, tokenRefresh, ti.refreshTTL)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{Name: accessCookie, Value: access, Path: "/", Expires: accessExp, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	http.SetCookie(w, &http.Cookie{Name: refreshCookie, Value: refresh, Path: "/", Expires: refreshExp, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return access, nil
}

func clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookie, refreshCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	}
}

var errTokenExpired = errors.New("jwt expired")

// parse verifies raw and checks it is of the wanted kind. Expired tokens
// yield errTokenExpired so the response message says so.
func (ti *tokenIssuer) parse(raw, kind string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(ti.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errors.Wrap(err, "invalid token")
	}
	if c.Kind != kind {
		return nil, errors.Errorf("invalid token kind %q", c.Kind)
	}
	return &c, nil
}
