package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

// SessionHandler exposes login, logout and session inspection for one
// portal.
type SessionHandler struct {
	portal *client.Portal
}

func NewSessionHandler(p *client.Portal) *SessionHandler { return &SessionHandler{portal: p} }

func (sh *SessionHandler) RegisterTools(s *server.MCPServer) error {
	login := mcp.NewTool("login",
		mcp.WithDescription("Sign in to the "+sh.portal.Role().String()+" portal"),
		mcp.WithString("email", mcp.Required(), mcp.Description("Account email")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Account password")),
	)
	logout := mcp.NewTool("logout",
		mcp.WithDescription("Sign out and forget the saved session"),
	)
	whoami := mcp.NewTool("whoami",
		mcp.WithDescription("Check the session (refreshing it if needed) and return the signed-in profile"),
	)
	dashboard := mcp.NewTool("dashboard",
		mcp.WithDescription("Return the portal dashboard counters"),
	)
	s.AddTool(login, sh.handleLogin)
	s.AddTool(logout, sh.handleLogout)
	s.AddTool(whoami, sh.handleWhoami)
	s.AddTool(dashboard, sh.handleDashboard)
	return nil
}

func (sh *SessionHandler) handleLogin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := req.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	password, err := req.RequireString("password")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("role", sh.portal.Role().String()).Msg("login invoked")

	start := time.Now()
	prof, err := sh.portal.Login(ctx, email, password)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("login failed")
		return toolError("login", sh.portal, err), nil
	}
	return jsonResult(map[string]any{"loggedIn": true, "user": prof}), nil
}

func (sh *SessionHandler) handleLogout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := sh.portal.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("logout call failed; local session cleared")
	}
	return mcp.NewToolResultText(`{"loggedIn":false}`), nil
}

func (sh *SessionHandler) handleWhoami(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d := sh.portal.Guard(ctx, "mcp")
	out := map[string]any{
		"role":     sh.portal.Role().String(),
		"decision": d.Outcome.String(),
		"state":    sh.portal.SessionState().String(),
	}
	if d.Outcome == client.Allow {
		out["user"] = sh.portal.Profile()
	} else {
		out["redirect"] = d.Path
	}
	return jsonResult(out), nil
}

func (sh *SessionHandler) handleDashboard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := sh.portal.Dashboard(ctx)
	if err != nil {
		return toolError("dashboard", sh.portal, err), nil
	}
	if len(d.Raw) == 0 {
		return jsonResult(d.Counters), nil
	}
	return mcp.NewToolResultText(string(d.Raw)), nil
}
