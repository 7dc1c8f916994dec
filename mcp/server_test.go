package mcp

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	client "github.com/rm-Shayan/finetech-frontened/client"
	"github.com/rm-Shayan/finetech-frontened/internal/devserver"
)

func toolNames(t *testing.T, role client.Role) map[string]bool {
	t.Helper()
	ts := httptest.NewServer(devserver.New(devserver.Options{}).Handler())
	defer ts.Close()

	sdk, err := client.New(ts.URL + devserver.APIPrefix)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	defer func() { _ = sdk.Close() }()
	portal, err := sdk.Portal(role)
	if err != nil {
		t.Fatalf("Portal: %v", err)
	}
	s, err := NewServer(portal)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	tr := transport.NewInProcessTransport(s)
	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("failed to start in-process transport: %v", err)
	}
	defer tr.Close()

	c := mcpclient.NewClient(tr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: "2024-11-05",
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	}); err != nil {
		t.Fatalf("failed to initialize MCP client: %v", err)
	}
	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("tools/list failed: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	return names
}

func TestToolsPerRole(t *testing.T) {
	cases := []struct {
		role    client.Role
		want    []string
		notWant []string
	}{
		{client.RoleCustomer, []string{"login", "submit_complaint", "change_status", "list_remarks", "list_banks"}, []string{"list_users"}},
		{client.RoleBankOfficer, []string{"change_status", "status_rules", "list_remarks", "list_users"}, []string{"submit_complaint"}},
		{client.RoleSBPAdmin, []string{"list_complaints", "dashboard", "list_users"}, []string{"change_status", "list_remarks", "submit_complaint"}},
	}
	for _, tc := range cases {
		t.Run(tc.role.String(), func(t *testing.T) {
			names := toolNames(t, tc.role)
			for _, n := range tc.want {
				if !names[n] {
					t.Errorf("expected tool %q", n)
				}
			}
			for _, n := range tc.notWant {
				if names[n] {
					t.Errorf("tool %q must not be offered", n)
				}
			}
		})
	}
}
