package client

import (
	"github.com/rm-Shayan/finetech-frontened/client/internal/guard"
	"github.com/rm-Shayan/finetech-frontened/client/internal/policy"
	"github.com/rm-Shayan/finetech-frontened/client/internal/retry"
	"github.com/rm-Shayan/finetech-frontened/client/internal/session"
	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// Public type aliases so SDK consumers can import only the client package.
type (
	// Roles and statuses
	Role   = types.Role
	Status = types.Status

	// Requests
	LoginRequest               = types.LoginRequest
	SignupRequest              = types.SignupRequest
	RegisterBankOfficerRequest = types.RegisterBankOfficerRequest
	ForgotPasswordRequest      = types.ForgotPasswordRequest
	ResetPasswordRequest       = types.ResetPasswordRequest
	UpdatePasswordRequest      = types.UpdatePasswordRequest
	UpdateProfileRequest       = types.UpdateProfileRequest
	SubmitComplaintRequest     = types.SubmitComplaintRequest
	UpdateComplaintRequest     = types.UpdateComplaintRequest
	CloseComplaintRequest      = types.CloseComplaintRequest
	OfficerStatusRequest       = types.OfficerStatusRequest
	ComplaintQuery             = types.ComplaintQuery
	RemarkQuery                = types.RemarkQuery
	UserQuery                  = types.UserQuery
	File                       = types.File

	// Domain entities
	Profile   = types.Profile
	Complaint = types.Complaint
	Remark    = types.Remark
	Bank      = types.Bank
	Asset     = types.Asset

	// Responses
	ComplaintPage    = types.ComplaintPage
	ComplaintFilters = types.ComplaintFilters
	ComplaintDetail  = types.ComplaintDetail
	RemarkList       = types.RemarkList
	UserPage         = types.UserPage
	Dashboard        = types.Dashboard

	// Guard
	Decision     = guard.Decision
	Outcome      = guard.Outcome
	SessionState = session.State

	// Navigation
	Navigator     = retry.Navigator
	NavigatorFunc = retry.NavigatorFunc
	Destination   = retry.Destination
)

const (
	RoleUnknown     = types.RoleUnknown
	RoleCustomer    = types.RoleCustomer
	RoleBankOfficer = types.RoleBankOfficer
	RoleSBPAdmin    = types.RoleSBPAdmin

	StatusPending    = types.StatusPending
	StatusInProgress = types.StatusInProgress
	StatusResolved   = types.StatusResolved
	StatusRejected   = types.StatusRejected
	StatusEscalated  = types.StatusEscalated
	StatusClosed     = types.StatusClosed

	Allow                = guard.Allow
	RedirectLogin        = guard.RedirectLogin
	RedirectUnauthorized = guard.RedirectUnauthorized

	MaxAttachments       = types.MaxAttachments
	MinDescriptionLength = types.MinDescriptionLength
	MinPasswordLength    = types.MinPasswordLength
)

// ParseRole converts a wire name ("customer", "bank_officer", "sbp_admin").
func ParseRole(s string) (Role, error) { return types.ParseRole(s) }

// Roles lists the three portal roles.
func Roles() []Role { return types.Roles() }

// Statuses lists every complaint status.
func Statuses() []Status { return types.Statuses() }

// ReasonRequired reports whether actor must give a reason to move a
// complaint from prev to next.
func ReasonRequired(prev, next Status, actor Role) bool {
	return policy.ReasonRequired(prev, next, actor)
}

// Targets lists the statuses role may move a complaint to.
func Targets(role Role) []Status { return policy.Targets(role) }

// Complaint form vocabularies.
var (
	ComplaintTypes      = types.ComplaintTypes
	ComplaintCategories = types.ComplaintCategories
	Priorities          = types.Priorities
)
