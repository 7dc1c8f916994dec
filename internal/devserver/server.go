// Package devserver is an in-memory implementation of the complaint
// portal backend. It serves the same routes, envelopes and cookie-based
// JWT sessions as the production API so the client, the CLI and the MCP
// server can be exercised end to end without external services.
package devserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

// APIPrefix is where the API routes are mounted.
const APIPrefix = "/api/v1"

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	maxUploadBytes   = 32 << 20
)

// Options configures a Server.
type Options struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time

	// OnPasswordReset receives reset tokens instead of an email.
	OnPasswordReset func(email, token string)
}

// Server serves the API from a Store.
type Server struct {
	store   *Store
	tokens  *tokenIssuer
	onReset func(email, token string)
}

// New creates a Server with an empty store.
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "dev-secret"
	}
	onReset := opts.OnPasswordReset
	if onReset == nil {
		onReset = func(email, token string) {
			log.Info().Str("email", email).Str("token", token).Msg("password reset requested")
		}
	}
	return &Server{
		store: NewStore(opts.Now),
		tokens: &tokenIssuer{
			secret:     []byte(opts.JWTSecret),
			accessTTL:  opts.AccessTTL,
			refreshTTL: opts.RefreshTTL,
			now:        opts.Now,
		},
		onReset: onReset,
	}
}

// Store exposes the backing store for seeding.
func (s *Server) Store() *Store { return s.store }

// portal pairs a role with its auth, complaint and remark routes.
type portal struct {
	role      client.Role
	auth      string
	complaint string
	remark    string
}

var portals = []portal{
	{role: client.RoleCustomer, auth: "/auth/user", complaint: "/user/complaint", remark: "/user/remark"},
	{role: client.RoleBankOfficer, auth: "/auth/Bank_officer", complaint: "/Bank_Officer/complaint", remark: "/Bank_Officer/remark"},
	{role: client.RoleSBPAdmin, auth: "/auth/sbp_admin", complaint: "/sbp_admin/complaint"},
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recoverMiddleware, metricsMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix(APIPrefix).Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/bank", s.listBanks).Methods(http.MethodGet)

	for _, p := range portals {
		s.registerAuth(api, p)
		s.registerComplaints(api, p)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return router
}

func (s *Server) registerAuth(api *mux.Router, p portal) {
	api.HandleFunc(p.auth+"/login", s.login(p.role)).Methods(http.MethodPost)
	api.HandleFunc(p.auth+"/refresh", s.refresh(p.role)).Methods(http.MethodGet)
	api.HandleFunc(p.auth+"/logout", s.logout).Methods(http.MethodPost)
	api.HandleFunc(p.auth+"/forgot-password", s.forgotPassword).Methods(http.MethodPost)
	api.HandleFunc(p.auth+"/reset-password", s.resetPassword).Methods(http.MethodPost)
	api.HandleFunc(p.auth+"/me", s.authed(p.role, s.me)).Methods(http.MethodGet)
	api.HandleFunc(p.auth+"/update", s.authed(p.role, s.updateProfile)).Methods(http.MethodPatch)
	api.HandleFunc(p.auth+"/delete", s.authed(p.role, s.deleteAccount)).Methods(http.MethodDelete)
	api.HandleFunc(p.auth+"/update-password", s.authed(p.role, s.updatePassword)).Methods(http.MethodPost)
	api.HandleFunc(p.auth+"/dashboard", s.authed(p.role, s.dashboard)).Methods(http.MethodGet)

	switch p.role {
	case client.RoleCustomer:
		api.HandleFunc(p.auth+"/signup", s.signup).Methods(http.MethodPost)
	case client.RoleBankOfficer:
		api.HandleFunc(p.auth+"/users", s.authed(p.role, s.bankCustomers)).Methods(http.MethodGet)
	case client.RoleSBPAdmin:
		api.HandleFunc(p.auth+"/users/bank-officers", s.authed(p.role, s.bankOfficers)).Methods(http.MethodGet)
		api.HandleFunc(p.auth+"/users/all", s.authed(p.role, s.allUsers)).Methods(http.MethodGet)
		api.HandleFunc(p.auth+"/register-bank-officer", s.authed(p.role, s.registerBankOfficer)).Methods(http.MethodPost)
	}
}

func (s *Server) registerComplaints(api *mux.Router, p portal) {
	api.HandleFunc(p.complaint, s.authed(p.role, s.listComplaints)).Methods(http.MethodGet)

	switch p.role {
	case client.RoleCustomer:
		api.HandleFunc(p.complaint+"/submit", s.authed(p.role, s.submitComplaint)).Methods(http.MethodPost)
		api.HandleFunc(p.complaint+"/update/{id}", s.authed(p.role, s.updateComplaint)).Methods(http.MethodPatch)
		api.HandleFunc(p.complaint+"/updateStatus/{id}", s.authed(p.role, s.closeComplaint)).Methods(http.MethodPatch)
		api.HandleFunc(p.complaint+"/delete/{id}", s.authed(p.role, s.deleteComplaint)).Methods(http.MethodDelete)
	case client.RoleBankOfficer:
		api.HandleFunc(p.complaint+"/update/{id}", s.authed(p.role, s.officerStatus)).Methods(http.MethodPatch)
	}
	api.HandleFunc(p.complaint+"/{id}", s.authed(p.role, s.getComplaint)).Methods(http.MethodGet)

	if p.remark != "" {
		api.HandleFunc(p.remark+"/{id}", s.authed(p.role, s.listRemarks)).Methods(http.MethodGet)
	}
}

// --------------------------------------------------------------------
// Authentication middleware
// --------------------------------------------------------------------

type principalKey struct{}

func principalFrom(ctx context.Context) client.Profile {
	p, _ := ctx.Value(principalKey{}).(client.Profile)
	return p
}

func scopeOf(p client.Profile) Scope {
	sc := Scope{Role: p.Role, UserID: p.ID}
	if p.BankID != nil {
		sc.BankID = *p.BankID
	}
	return sc
}

func accessToken(r *http.Request) string {
	if ck, err := r.Cookie(accessCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// authed admits requests carrying a valid access token of role.
func (s *Server) authed(role client.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := accessToken(r)
		if raw == "" {
			writeFail(w, http.StatusUnauthorized, "Unauthorized: access token missing")
			return
		}
		c, err := s.tokens.parse(raw, tokenAccess)
		if err != nil {
			if err == errTokenExpired {
				writeFail(w, http.StatusUnauthorized, "Access token expired")
				return
			}
			writeFail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		prof, ver, ok := s.store.Account(c.Subject)
		if !ok || ver != c.Version {
			writeFail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if prof.Role != role {
			writeFail(w, http.StatusForbidden, "Forbidden: "+role.String()+" access only")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, prof)))
	}
}

// --------------------------------------------------------------------
// Query helpers
// --------------------------------------------------------------------

func pageParams(r *http.Request) (page, limit int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "ok", map[string]interface{}{
		"status":    "healthy",
		"timestamp": s.tokens.now().Format(time.RFC3339),
	})
}
