package handlers

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

// DirectoryHandler exposes the bank and user directories.
type DirectoryHandler struct {
	portal *client.Portal
}

func NewDirectoryHandler(p *client.Portal) *DirectoryHandler { return &DirectoryHandler{portal: p} }

func (dh *DirectoryHandler) RegisterTools(s *server.MCPServer) error {
	banks := mcp.NewTool("list_banks",
		mcp.WithDescription("List banks (id, name, code)"),
	)
	s.AddTool(banks, dh.handleBanks)

	switch dh.portal.Role() {
	case client.RoleBankOfficer, client.RoleSBPAdmin:
		users := mcp.NewTool("list_users",
			mcp.WithDescription("List accounts: the officer's bank customers, or bank officers / all users for the regulator"),
			mcp.WithString("scope", mcp.Description("Regulator only: bank_officers (default) or all"), mcp.Enum("bank_officers", "all")),
			mcp.WithString("search", mcp.Description("Name or email substring")),
			mcp.WithString("bank_code", mcp.Description("Bank code filter (regulator only)")),
			mcp.WithNumber("page", mcp.Description("Page number")),
			mcp.WithNumber("limit", mcp.Description("Page size")),
		)
		s.AddTool(users, dh.handleUsers)
	}
	return nil
}

func (dh *DirectoryHandler) handleBanks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	banks, err := dh.portal.Client().Banks(ctx)
	if err != nil {
		return toolError("list_banks", dh.portal, err), nil
	}
	return jsonResult(banks), nil
}

func (dh *DirectoryHandler) handleUsers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := client.UserQuery{
		Page:     intArg(req, "page", 0),
		Limit:    intArg(req, "limit", 0),
		Search:   stringArg(req, "search"),
		BankCode: stringArg(req, "bank_code"),
	}
	var (
		page *client.UserPage
		err  error
	)
	switch {
	case dh.portal.Role() == client.RoleBankOfficer:
		page, err = dh.portal.Users(ctx, q)
	case stringArg(req, "scope") == "all":
		page, err = dh.portal.AllUsers(ctx, q)
	default:
		page, err = dh.portal.BankOfficers(ctx, q)
	}
	if err != nil {
		return toolError("list_users", dh.portal, err), nil
	}
	return jsonResult(page), nil
}
