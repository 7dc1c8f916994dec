package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-Shayan/finetech-frontened/internal/devserver"
)

type cliEnv struct {
	url      string
	stateDir string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	srv := devserver.New(devserver.Options{JWTSecret: "cli-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	_, err := srv.Store().SeedDemo()
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &cliEnv{url: ts.URL + devserver.APIPrefix, stateDir: t.TempDir()}
}

// run executes one CLI invocation and returns its stdout and stderr.
func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--api-url", e.url, "--state-dir", e.stateDir}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := e.run(t, "", args...)
	require.NoError(t, err, "complaintctl %s", strings.Join(args, " "))
	return out
}

func TestCLI_ComplaintLifecycle(t *testing.T) {
	e := newCLIEnv(t)

	out := e.mustRun(t, "login", "--email", "customer@example.com", "--password", devserver.DemoPassword)
	assert.Contains(t, out, "customer@example.com")

	out = e.mustRun(t, "whoami")
	assert.Contains(t, out, `"email": "customer@example.com"`)

	img := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))
	out = e.mustRun(t, "complaints", "submit",
		"--type", "card_service",
		"--category", "wrong_charges",
		"--priority", "high",
		"--description", "ATM debited my account twice for one withdrawal",
		"--attach", img,
	)
	require.True(t, strings.HasPrefix(out, "Complaint filed: "), out)
	id := strings.Fields(strings.TrimPrefix(out, "Complaint filed: "))[0]

	out = e.mustRun(t, "complaints", "list")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Total: 1")

	// The officer session is saved separately from the customer's.
	e.mustRun(t, "--role", "bank_officer", "login", "--email", "officer@hbl.example.com", "--password", devserver.DemoPassword)
	out = e.mustRun(t, "--role", "bank_officer", "complaints", "status", id, "--to", "resolved")
	assert.Contains(t, out, "is now resolved")

	// Closing needs a reason; it is read from stdin when not given.
	out, _, err := e.run(t, "refund received\n", "complaints", "status", id, "--to", "closed")
	require.NoError(t, err)
	assert.Contains(t, out, "is now closed")

	// Only the close needed a reason, so it is the only remark.
	out = e.mustRun(t, "remarks", id)
	assert.Contains(t, out, "refund received")
	assert.Contains(t, out, "Total: 1")
}

func TestCLI_StatusWithoutReasonFails(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "login", "--email", "customer@example.com", "--password", devserver.DemoPassword)
	out := e.mustRun(t, "complaints", "submit",
		"--type", "banking_service",
		"--category", "delay",
		"--description", "Transfer has been pending for a week now",
	)
	id := strings.Fields(strings.TrimPrefix(out, "Complaint filed: "))[0]

	_, _, err := e.run(t, "", "complaints", "status", id, "--from", "pending", "--to", "closed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reason")
}

func TestCLI_GuardWithoutSession(t *testing.T) {
	e := newCLIEnv(t)

	out, errOut, err := e.run(t, "", "--role", "sbp_admin", "guard", "/sbp-admin/complaints")
	require.NoError(t, err)
	assert.Contains(t, out, "redirect_login\t/admin/login?role=sbp_admin")
	assert.Contains(t, errOut, "login required: /admin/login?role=sbp_admin")
}

func TestCLI_GuardAfterLoginAllows(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "--role", "sbp_admin", "login", "--email", "admin@sbp.example.com", "--password", devserver.DemoPassword)

	out := e.mustRun(t, "--role", "sbp_admin", "guard", "/sbp-admin/complaints")
	assert.True(t, strings.HasPrefix(out, "allow"), out)

	out = e.mustRun(t, "--role", "sbp_admin", "users", "--scope", "bank_officers")
	assert.Contains(t, out, "officer@hbl.example.com")
	assert.Contains(t, out, "Total: 2")
}

func TestCLI_LogoutForgetsSession(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "login", "--email", "customer@example.com", "--password", devserver.DemoPassword)
	assert.Contains(t, e.mustRun(t, "logout"), "Logged out")

	_, errOut, err := e.run(t, "", "whoami")
	require.Error(t, err)
	assert.Contains(t, errOut, "login required: /login")
}

func TestCLI_BanksAndPing(t *testing.T) {
	e := newCLIEnv(t)

	assert.Contains(t, e.mustRun(t, "ping"), "API ready")

	out := e.mustRun(t, "banks")
	assert.Contains(t, out, "HBL")
	assert.Contains(t, out, "Total: 3")
}

func TestCLI_UnknownRole(t *testing.T) {
	e := newCLIEnv(t)
	_, _, err := e.run(t, "", "--role", "teller", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}
