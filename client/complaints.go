package client

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rm-Shayan/finetech-frontened/client/internal/api"
	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
	"github.com/rm-Shayan/finetech-frontened/client/internal/policy"
	"github.com/rm-Shayan/finetech-frontened/client/internal/retry"
	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// Officer listings default to the first page of 20.
const (
	officerDefaultPage  = 1
	officerDefaultLimit = 20
)

// StatusChange describes one status transition of a complaint.
type StatusChange struct {
	ComplaintID string
	From        Status // status the actor last saw
	To          Status
	Reason      string
}

// --------------------------------------------------------------------
// Complaint operations
// --------------------------------------------------------------------

// SubmitComplaint files a new complaint (customer only).
func (p *Portal) SubmitComplaint(ctx context.Context, req SubmitComplaintRequest) (*Complaint, error) {
	if p.role != RoleCustomer {
		return nil, notPermitted("submit complaint")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return retry.Do(ctx, p.policy, func(ctx context.Context) (*types.Complaint, error) {
		return api.SubmitComplaint(ctx, p.http, p.c.baseURL, req)
	})
}

// ListComplaints lists the complaints visible to the role. Filters the
// role's listing does not support are dropped.
func (p *Portal) ListComplaints(ctx context.Context, q ComplaintQuery) (*ComplaintPage, error) {
	switch p.role {
	case RoleCustomer:
		q.BankCode = ""
	case RoleBankOfficer:
		q.BankCode, q.Priority = "", ""
		if q.Page <= 0 {
			q.Page = officerDefaultPage
		}
		if q.Limit <= 0 {
			q.Limit = officerDefaultLimit
		}
	case RoleSBPAdmin:
	default:
		return nil, notPermitted("list complaints")
	}
	return retry.Do(ctx, p.policy, func(ctx context.Context) (*types.ComplaintPage, error) {
		return api.ListComplaints(ctx, p.http, p.c.baseURL, p.paths.Complaint, q)
	})
}

// GetComplaint fetches one complaint and its latest remark.
func (p *Portal) GetComplaint(ctx context.Context, complaintID string) (*ComplaintDetail, error) {
	return retry.Do(ctx, p.policy, func(ctx context.Context) (*types.ComplaintDetail, error) {
		return api.GetComplaint(ctx, p.http, p.c.baseURL, p.paths.Complaint, complaintID)
	})
}

// UpdateComplaint edits a pending complaint (customer only).
func (p *Portal) UpdateComplaint(ctx context.Context, complaintID string, req UpdateComplaintRequest) (*Complaint, error) {
	if p.role != RoleCustomer {
		return nil, notPermitted("update complaint")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return retry.Do(ctx, p.policy, func(ctx context.Context) (*types.Complaint, error) {
		return api.UpdateComplaint(ctx, p.http, p.c.baseURL, complaintID, req)
	})
}

// DeleteComplaint removes a pending complaint (customer only).
func (p *Portal) DeleteComplaint(ctx context.Context, complaintID string) error {
	if p.role != RoleCustomer {
		return notPermitted("delete complaint")
	}
	return retry.Run(ctx, p.policy, func(ctx context.Context) error {
		return api.DeleteComplaint(ctx, p.http, p.c.baseURL, complaintID)
	})
}

// CanEdit reports whether the role may edit or delete c.
func (p *Portal) CanEdit(c *Complaint) bool {
	return c != nil && policy.CanEdit(p.role, c.Status)
}

// Targets lists the statuses the role can move a complaint to.
func (p *Portal) Targets() []Status { return policy.Targets(p.role) }

// ReasonRequired reports whether moving from prev to next needs a reason
// when performed by this role.
func (p *Portal) ReasonRequired(prev, next Status) bool {
	return policy.ReasonRequired(prev, next, p.role)
}

// ChangeStatus moves a complaint to ch.To. The reason rule is evaluated
// before any request: a required but blank reason fails locally, and a
// reason that is not required is not sent at all.
func (p *Portal) ChangeStatus(ctx context.Context, ch StatusChange) (*ComplaintDetail, error) {
	if !policy.CanTransition(p.role, ch.To) {
		return nil, notPermitted("status " + string(ch.To))
	}
	if ch.ComplaintID == "" {
		return nil, cerr.NewValidationError("complaintId", "complaint id is required")
	}
	reason := strings.TrimSpace(ch.Reason)
	required := policy.ReasonRequired(ch.From, ch.To, p.role)
	if required && reason == "" {
		return nil, cerr.Validation("reason", cerr.ErrReasonRequired)
	}
	if !required {
		reason = ""
	}

	log.Debug().Str("role", p.role.String()).Str("complaint_id", ch.ComplaintID).
		Str("from", string(ch.From)).Str("to", string(ch.To)).Bool("reason", reason != "").Msg("changing status")

	var action func(ctx context.Context) (*types.ComplaintDetail, error)
	switch p.role {
	case RoleCustomer:
		action = func(ctx context.Context) (*types.ComplaintDetail, error) {
			return api.CloseComplaint(ctx, p.http, p.c.baseURL, ch.ComplaintID, types.CloseComplaintRequest{Reason: reason})
		}
	case RoleBankOfficer:
		action = func(ctx context.Context) (*types.ComplaintDetail, error) {
			return api.UpdateComplaintStatus(ctx, p.http, p.c.baseURL, ch.ComplaintID, types.OfficerStatusRequest{Status: ch.To, Remark: reason})
		}
	default:
		return nil, notPermitted("status " + string(ch.To))
	}

	d, err := retry.Do(ctx, p.policy, action)
	if err != nil {
		return nil, err
	}
	statusChangesTotal.WithLabelValues(p.role.String(), strconv.FormatBool(reason != "")).Inc()
	return d, nil
}

// --------------------------------------------------------------------
// Remarks
// --------------------------------------------------------------------

// Remarks lists the remark history of a complaint. The regulator portal
// has no remark endpoint.
func (p *Portal) Remarks(ctx context.Context, q RemarkQuery) (*RemarkList, error) {
	if p.paths.Remark == "" {
		return nil, notPermitted("remarks")
	}
	return retry.Do(ctx, p.policy, func(ctx context.Context) (*types.RemarkList, error) {
		return api.ListRemarks(ctx, p.http, p.c.baseURL, p.paths.Remark, q)
	})
}
