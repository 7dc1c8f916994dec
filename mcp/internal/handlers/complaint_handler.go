package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

// ComplaintHandler exposes complaint tools. Tools the portal's role cannot
// use are not registered.
type ComplaintHandler struct {
	portal *client.Portal
}

func NewComplaintHandler(p *client.Portal) *ComplaintHandler { return &ComplaintHandler{portal: p} }

func statusNames(ss []client.Status) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

func (ch *ComplaintHandler) RegisterTools(s *server.MCPServer) error {
	role := ch.portal.Role()

	list := mcp.NewTool("list_complaints",
		mcp.WithDescription("List complaints visible to the "+role.String()+" portal"),
		mcp.WithNumber("page", mcp.Description("Page number (default 1)")),
		mcp.WithNumber("limit", mcp.Description("Page size")),
		mcp.WithString("status", mcp.Description("Filter by status"), mcp.Enum(statusNames(client.Statuses())...)),
		mcp.WithString("priority", mcp.Description("Filter by priority"), mcp.Enum(client.Priorities...)),
		mcp.WithString("bank_code", mcp.Description("Filter by bank code (regulator only)")),
	)
	get := mcp.NewTool("get_complaint",
		mcp.WithDescription("Fetch one complaint with its latest remark"),
		mcp.WithString("complaint_id", mcp.Required(), mcp.Description("Complaint id")),
	)
	s.AddTool(list, ch.handleList)
	s.AddTool(get, ch.handleGet)

	if targets := client.Targets(role); len(targets) > 0 {
		change := mcp.NewTool("change_status",
			mcp.WithDescription("Move a complaint to a new status. Some transitions need a reason; call status_rules first when unsure"),
			mcp.WithString("complaint_id", mcp.Required(), mcp.Description("Complaint id")),
			mcp.WithString("from", mcp.Required(), mcp.Description("Status the complaint has now"), mcp.Enum(statusNames(client.Statuses())...)),
			mcp.WithString("to", mcp.Required(), mcp.Description("New status"), mcp.Enum(statusNames(targets)...)),
			mcp.WithString("reason", mcp.Description("Reason for the change")),
		)
		rules := mcp.NewTool("status_rules",
			mcp.WithDescription("List the statuses this portal can set and whether a reason is needed from the given status"),
			mcp.WithString("from", mcp.Required(), mcp.Description("Status the complaint has now"), mcp.Enum(statusNames(client.Statuses())...)),
		)
		s.AddTool(change, ch.handleChangeStatus)
		s.AddTool(rules, ch.handleStatusRules)
	}

	if role != client.RoleSBPAdmin {
		remarks := mcp.NewTool("list_remarks",
			mcp.WithDescription("List the remark history of a complaint"),
			mcp.WithString("complaint_id", mcp.Required(), mcp.Description("Complaint id")),
			mcp.WithString("status", mcp.Description("Only remarks that set this status"), mcp.Enum(statusNames(client.Statuses())...)),
		)
		s.AddTool(remarks, ch.handleRemarks)
	}

	if role == client.RoleCustomer {
		submit := mcp.NewTool("submit_complaint",
			mcp.WithDescription("File a new complaint"),
			mcp.WithString("type", mcp.Required(), mcp.Enum(client.ComplaintTypes...)),
			mcp.WithString("category", mcp.Required(), mcp.Enum(client.ComplaintCategories...)),
			mcp.WithString("priority", mcp.Required(), mcp.Enum(client.Priorities...)),
			mcp.WithString("description", mcp.Required(), mcp.Description("What happened (at least 20 characters)")),
		)
		s.AddTool(submit, ch.handleSubmit)
	}
	return nil
}

func (ch *ComplaintHandler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := client.ComplaintQuery{
		Page:     intArg(req, "page", 0),
		Limit:    intArg(req, "limit", 0),
		Status:   client.Status(stringArg(req, "status")),
		Priority: stringArg(req, "priority"),
		BankCode: stringArg(req, "bank_code"),
	}
	start := time.Now()
	page, err := ch.portal.ListComplaints(ctx, q)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("list_complaints failed")
		return toolError("list_complaints", ch.portal, err), nil
	}
	return jsonResult(page), nil
}

func (ch *ComplaintHandler) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("complaint_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := ch.portal.GetComplaint(ctx, id)
	if err != nil {
		return toolError("get_complaint", ch.portal, err), nil
	}
	return jsonResult(d), nil
}

func (ch *ComplaintHandler) handleChangeStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("complaint_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("complaint_id", id).Str("from", from).Str("to", to).Msg("change_status invoked")

	d, err := ch.portal.ChangeStatus(ctx, client.StatusChange{
		ComplaintID: id,
		From:        client.Status(from),
		To:          client.Status(to),
		Reason:      stringArg(req, "reason"),
	})
	if err != nil {
		return toolError("change_status", ch.portal, err), nil
	}
	return jsonResult(d), nil
}

func (ch *ComplaintHandler) handleStatusRules(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	type rule struct {
		To             client.Status `json:"to"`
		ReasonRequired bool          `json:"reasonRequired"`
	}
	var out []rule
	for _, t := range ch.portal.Targets() {
		out = append(out, rule{To: t, ReasonRequired: ch.portal.ReasonRequired(client.Status(from), t)})
	}
	return jsonResult(out), nil
}

func (ch *ComplaintHandler) handleRemarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("complaint_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := ch.portal.Remarks(ctx, client.RemarkQuery{ComplaintID: id, Status: client.Status(stringArg(req, "status"))})
	if err != nil {
		return toolError("list_remarks", ch.portal, err), nil
	}
	return jsonResult(list), nil
}

func (ch *ComplaintHandler) handleSubmit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := client.SubmitComplaintRequest{
		Type:        stringArg(req, "type"),
		Category:    stringArg(req, "category"),
		Priority:    stringArg(req, "priority"),
		Description: stringArg(req, "description"),
	}
	c, err := ch.portal.SubmitComplaint(ctx, in)
	if err != nil {
		return toolError("submit_complaint", ch.portal, err), nil
	}
	return jsonResult(c), nil
}
