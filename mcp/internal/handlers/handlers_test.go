package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	client "github.com/rm-Shayan/finetech-frontened/client"
	"github.com/rm-Shayan/finetech-frontened/internal/devserver"
)

func newPortal(t *testing.T, role client.Role) (*client.Portal, devserver.Demo) {
	t.Helper()
	srv := devserver.New(devserver.Options{JWTSecret: "test"})
	demo, err := srv.Store().SeedDemo()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	sdk, err := client.New(ts.URL + devserver.APIPrefix)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	t.Cleanup(func() { _ = sdk.Close() })
	p, err := sdk.Portal(role)
	if err != nil {
		t.Fatalf("Portal: %v", err)
	}
	return p, demo
}

func call(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	return tc.Text
}

func TestLoginAndWhoami(t *testing.T) {
	p, demo := newPortal(t, client.RoleCustomer)
	sh := NewSessionHandler(p)
	ctx := context.Background()

	res, _ := sh.handleWhoami(ctx, call(nil))
	if !strings.Contains(text(t, res), `"redirect":"/login"`) {
		t.Fatalf("expected login redirect before login: %s", text(t, res))
	}

	res, _ = sh.handleLogin(ctx, call(map[string]any{"email": "customer@example.com", "password": devserver.DemoPassword}))
	if res.IsError {
		t.Fatalf("login failed: %s", text(t, res))
	}

	res, _ = sh.handleWhoami(ctx, call(nil))
	var out struct {
		Decision string         `json:"decision"`
		User     client.Profile `json:"user"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Decision != client.Allow.String() || out.User.ID != demo.Customer.ID {
		t.Fatalf("unexpected whoami: %+v", out)
	}

	res, _ = sh.handleLogin(ctx, call(map[string]any{"email": "customer@example.com"}))
	if !res.IsError {
		t.Fatal("missing password must be a tool error")
	}
}

func TestChangeStatusTools(t *testing.T) {
	cust, _ := newPortal(t, client.RoleCustomer)
	ctx := context.Background()
	if _, err := cust.Login(ctx, "customer@example.com", devserver.DemoPassword); err != nil {
		t.Fatalf("login: %v", err)
	}
	ch := NewComplaintHandler(cust)

	res, _ := ch.handleSubmit(ctx, call(map[string]any{
		"type": "digital_banking", "category": "system_issue", "priority": "medium",
		"description": "mobile app shows a failed transfer as completed",
	}))
	if res.IsError {
		t.Fatalf("submit failed: %s", text(t, res))
	}
	var c client.Complaint
	if err := json.Unmarshal([]byte(text(t, res)), &c); err != nil {
		t.Fatalf("decode complaint: %v", err)
	}

	res, _ = ch.handleStatusRules(ctx, call(map[string]any{"from": "pending"}))
	if got := text(t, res); got != `[{"to":"closed","reasonRequired":true}]` {
		t.Fatalf("unexpected rules: %s", got)
	}

	res, _ = ch.handleChangeStatus(ctx, call(map[string]any{"complaint_id": c.ID, "from": "pending", "to": "closed"}))
	if !res.IsError || !strings.Contains(text(t, res), "needs a reason") {
		t.Fatalf("expected reason error, got %s", text(t, res))
	}

	res, _ = ch.handleChangeStatus(ctx, call(map[string]any{"complaint_id": c.ID, "from": "pending", "to": "closed", "reason": "solved by phone"}))
	if res.IsError {
		t.Fatalf("close failed: %s", text(t, res))
	}

	res, _ = ch.handleRemarks(ctx, call(map[string]any{"complaint_id": c.ID}))
	if !strings.Contains(text(t, res), "solved by phone") {
		t.Fatalf("remark missing: %s", text(t, res))
	}

	res, _ = ch.handleList(ctx, call(map[string]any{"status": "closed", "limit": float64(5)}))
	if !strings.Contains(text(t, res), c.ID) {
		t.Fatalf("closed complaint not listed: %s", text(t, res))
	}
}

func TestToolsRequireSession(t *testing.T) {
	officer, _ := newPortal(t, client.RoleBankOfficer)
	ch := NewComplaintHandler(officer)
	res, _ := ch.handleList(context.Background(), call(nil))
	if !res.IsError || !strings.Contains(text(t, res), "call the login tool") {
		t.Fatalf("expected login hint, got %s", text(t, res))
	}
}

func TestDirectoryTools(t *testing.T) {
	admin, _ := newPortal(t, client.RoleSBPAdmin)
	ctx := context.Background()
	if _, err := admin.Login(ctx, "admin@sbp.example.com", devserver.DemoPassword); err != nil {
		t.Fatalf("login: %v", err)
	}
	dh := NewDirectoryHandler(admin)

	res, _ := dh.handleBanks(ctx, call(nil))
	if !strings.Contains(text(t, res), "HBL") {
		t.Fatalf("banks missing: %s", text(t, res))
	}
	res, _ = dh.handleUsers(ctx, call(map[string]any{"scope": "all"}))
	var page client.UserPage
	if err := json.Unmarshal([]byte(text(t, res)), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 4 {
		t.Fatalf("expected 4 accounts, got %d", page.Total)
	}
}
