package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

// fakeBackend is a scripted API: access cookies can be invalidated to
// force 401s and refresh can be made to fail.
type fakeBackend struct {
	t *testing.T

	mu          sync.Mutex
	role        string
	validAccess bool
	refreshOK   bool

	refreshCalls atomic.Int32
	meCalls      atomic.Int32
	actionCalls  atomic.Int32
	lastBody     map[string]any
}

func newFakeBackend(t *testing.T, role string) (*fakeBackend, *httptest.Server) {
	fb := &fakeBackend{t: t, role: role, refreshOK: true}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/{base}/login", fb.login)
	mux.HandleFunc("GET /auth/{base}/refresh", fb.refresh)
	mux.HandleFunc("GET /auth/{base}/me", fb.me)
	mux.HandleFunc("POST /auth/{base}/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Path: "/", MaxAge: -1})
		writeOK(w, nil)
	})
	mux.HandleFunc("PATCH /user/complaint/updateStatus/{id}", fb.statusChange)
	mux.HandleFunc("PATCH /Bank_Officer/complaint/update/{id}", fb.statusChange)
	mux.HandleFunc("GET /Bank_Officer/complaint", func(w http.ResponseWriter, r *http.Request) {
		if !fb.authorized(w, r) {
			return
		}
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		writeOK(w, map[string]any{"page": page, "limit": limit, "complaints": []any{}})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) { writeOK(w, nil) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

func writeOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok", "statusCode": 200, "data": data})
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg, "statusCode": status})
}

func (fb *fakeBackend) setAccess(valid bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.validAccess = valid
}

func (fb *fakeBackend) setRefreshOK(ok bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.refreshOK = ok
}

func (fb *fakeBackend) authorized(w http.ResponseWriter, r *http.Request) bool {
	fb.mu.Lock()
	valid := fb.validAccess
	fb.mu.Unlock()
	if _, err := r.Cookie("accessToken"); err != nil || !valid {
		writeErr(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	return true
}

func (fb *fakeBackend) issue(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "a", Path: "/"})
	http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r", Path: "/"})
	fb.setAccess(true)
}

func (fb *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	fb.issue(w)
	writeOK(w, map[string]any{"user": map[string]any{"_id": "u1", "email": "a@b.com", "role": fb.role}})
}

func (fb *fakeBackend) refresh(w http.ResponseWriter, r *http.Request) {
	fb.refreshCalls.Add(1)
	fb.mu.Lock()
	ok := fb.refreshOK
	fb.mu.Unlock()
	if _, err := r.Cookie("refreshToken"); err != nil || !ok {
		writeErr(w, http.StatusUnauthorized, "Refresh token expired")
		return
	}
	fb.issue(w)
	writeOK(w, map[string]any{})
}

func (fb *fakeBackend) me(w http.ResponseWriter, r *http.Request) {
	fb.meCalls.Add(1)
	if !fb.authorized(w, r) {
		return
	}
	writeOK(w, map[string]any{"_id": "u1", "role": fb.role})
}

func (fb *fakeBackend) statusChange(w http.ResponseWriter, r *http.Request) {
	fb.actionCalls.Add(1)
	if !fb.authorized(w, r) {
		return
	}
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	fb.mu.Lock()
	fb.lastBody = body
	fb.mu.Unlock()
	writeOK(w, map[string]any{"complaint": map[string]any{"_id": r.PathValue("id"), "status": "resolved"}})
}

type navRecorder struct {
	mu   sync.Mutex
	dsts []client.Destination
}

func (n *navRecorder) Navigate(_ context.Context, d client.Destination) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dsts = append(n.dsts, d)
}

func (n *navRecorder) all() []client.Destination {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]client.Destination(nil), n.dsts...)
}

func newPortal(t *testing.T, srv *httptest.Server, role client.Role, opts ...client.Option) (*client.Portal, *navRecorder) {
	t.Helper()
	nav := &navRecorder{}
	c, err := client.New(srv.URL, append([]client.Option{client.WithNavigator(nav)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	p, err := c.Portal(role)
	require.NoError(t, err)
	return p, nav
}

func TestExpiredAccessIsRefreshedAndRetriedOnce(t *testing.T) {
	fb, srv := newFakeBackend(t, "bank_officer")
	p, nav := newPortal(t, srv, client.RoleBankOfficer)
	ctx := context.Background()

	_, err := p.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	fb.setAccess(false)

	d, err := p.ChangeStatus(ctx, client.StatusChange{ComplaintID: "c1", From: client.StatusInProgress, To: client.StatusResolved})
	require.NoError(t, err)
	assert.Equal(t, "c1", d.Complaint.ID)
	assert.Equal(t, int32(2), fb.actionCalls.Load())
	assert.Equal(t, int32(1), fb.refreshCalls.Load())
	assert.Empty(t, nav.all())
}

func TestFailedRefreshEndsSessionAndNavigatesOnce(t *testing.T) {
	fb, srv := newFakeBackend(t, "customer")
	p, nav := newPortal(t, srv, client.RoleCustomer)
	ctx := context.Background()

	_, err := p.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	fb.setAccess(false)
	fb.setRefreshOK(false)

	_, err = p.ChangeStatus(ctx, client.StatusChange{ComplaintID: "c1", From: client.StatusPending, To: client.StatusClosed, Reason: "sorted at branch"})
	require.ErrorIs(t, err, client.ErrSessionExpired)
	assert.Equal(t, int32(1), fb.actionCalls.Load())
	assert.Equal(t, int32(1), fb.refreshCalls.Load())
	assert.Equal(t, []client.Destination{{Path: "/login"}}, nav.all())
	assert.NotEqual(t, "authenticated", p.SessionState().String(), "session must not stay authenticated")
}

func TestReasonPolicyShapesRequests(t *testing.T) {
	fb, srv := newFakeBackend(t, "bank_officer")
	p, _ := newPortal(t, srv, client.RoleBankOfficer)
	ctx := context.Background()
	_, err := p.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)

	// Not required: an offered reason is dropped.
	_, err = p.ChangeStatus(ctx, client.StatusChange{ComplaintID: "c1", From: client.StatusInProgress, To: client.StatusResolved, Reason: "fixed"})
	require.NoError(t, err)
	fb.mu.Lock()
	_, hasRemark := fb.lastBody["remark"]
	fb.mu.Unlock()
	assert.False(t, hasRemark, "reason must not be sent when not required")

	// Required and blank: fails before any request.
	before := fb.actionCalls.Load()
	_, err = p.ChangeStatus(ctx, client.StatusChange{ComplaintID: "c1", From: client.StatusEscalated, To: client.StatusResolved, Reason: "   "})
	require.ErrorIs(t, err, client.ErrReasonRequired)
	assert.True(t, client.IsValidation(err))
	assert.Equal(t, before, fb.actionCalls.Load())

	// Required and present: sent exactly once as remark.
	_, err = p.ChangeStatus(ctx, client.StatusChange{ComplaintID: "c1", From: client.StatusInProgress, To: client.StatusRejected, Reason: "duplicate"})
	require.NoError(t, err)
	fb.mu.Lock()
	assert.Equal(t, "duplicate", fb.lastBody["remark"])
	assert.Equal(t, "rejected", fb.lastBody["status"])
	fb.mu.Unlock()
}

func TestChangeStatusNotPermitted(t *testing.T) {
	_, srv := newFakeBackend(t, "sbp_admin")
	admin, _ := newPortal(t, srv, client.RoleSBPAdmin)
	_, err := admin.ChangeStatus(context.Background(), client.StatusChange{ComplaintID: "c1", To: client.StatusResolved, Reason: "x"})
	assert.ErrorIs(t, err, client.ErrActionNotPermitted)

	officer, _ := newPortal(t, srv, client.RoleBankOfficer)
	_, err = officer.ChangeStatus(context.Background(), client.StatusChange{ComplaintID: "c1", To: client.StatusClosed, Reason: "x"})
	assert.ErrorIs(t, err, client.ErrActionNotPermitted)
}

func TestGuardFailedRefreshRedirectsToRoleLogin(t *testing.T) {
	fb, srv := newFakeBackend(t, "sbp_admin")
	fb.setRefreshOK(false)
	p, nav := newPortal(t, srv, client.RoleSBPAdmin)

	d := p.Guard(context.Background(), "/sbp-admin/dashboard")

	assert.Equal(t, client.RedirectLogin, d.Outcome)
	assert.Equal(t, "/admin/login?role=sbp_admin", d.Path)
	assert.Equal(t, int32(1), fb.refreshCalls.Load())
	assert.Equal(t, int32(0), fb.meCalls.Load())
	assert.Equal(t, []client.Destination{{Path: "/admin/login?role=sbp_admin", From: "/sbp-admin/dashboard"}}, nav.all())
}

func TestGuardWrongRoleIsUnauthorized(t *testing.T) {
	// The saved cookies belong to a customer account but the officer
	// portal is entered.
	fb, srv := newFakeBackend(t, "customer")
	store := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	p1, _ := newPortal(t, srv, client.RoleBankOfficer, client.WithStateStore(store))
	_, err := p1.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)

	p2, nav := newPortal(t, srv, client.RoleBankOfficer, client.WithStateStore(store))
	d := p2.Guard(ctx, "/bank-officer/dashboard")

	assert.Equal(t, client.RedirectUnauthorized, d.Outcome)
	assert.Equal(t, "/unauthorized", d.Path)
	assert.Equal(t, int32(1), fb.refreshCalls.Load())
	assert.Equal(t, int32(1), fb.meCalls.Load())
	assert.Len(t, nav.all(), 1)
}

func TestOfficerListDefaults(t *testing.T) {
	_, srv := newFakeBackend(t, "bank_officer")
	p, _ := newPortal(t, srv, client.RoleBankOfficer)
	_, err := p.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)

	page, err := p.ListComplaints(context.Background(), client.ComplaintQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
}

func TestSessionPersistsAcrossClients(t *testing.T) {
	fb, srv := newFakeBackend(t, "customer")
	store := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	p1, _ := newPortal(t, srv, client.RoleCustomer, client.WithStateStore(store))
	_, err := p1.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)

	// A second process: no login, but the saved refresh cookie lets the
	// guard restore the session.
	p2, _ := newPortal(t, srv, client.RoleCustomer, client.WithStateStore(store))
	d := p2.Guard(ctx, "/user/dashboard")
	assert.Equal(t, client.Allow, d.Outcome)
	assert.Equal(t, int32(1), fb.refreshCalls.Load())
	require.NotNil(t, p2.Profile())
	assert.Equal(t, "u1", p2.Profile().ID)
}

func TestWaitReady(t *testing.T) {
	_, srv := newFakeBackend(t, "customer")
	c, err := client.New(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.WaitReady(context.Background(), time.Second))

	down, err := client.New("http://127.0.0.1:1")
	require.NoError(t, err)
	assert.Error(t, down.WaitReady(context.Background(), 300*time.Millisecond))
}
