package types

import (
	"fmt"
	"time"
)

// ------------------------------
// Roles
// ------------------------------

// Role identifies which portal an actor signs in to.
type Role int

const (
	// RoleUnknown is the zero value; it is only produced when the backend
	// reports a role string this client does not recognise.
	RoleUnknown Role = iota
	RoleCustomer
	RoleBankOfficer
	RoleSBPAdmin
)

// Roles lists every known role in display order.
func Roles() []Role {
	return []Role{RoleCustomer, RoleBankOfficer, RoleSBPAdmin}
}

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleBankOfficer:
		return "bank_officer"
	case RoleSBPAdmin:
		return "sbp_admin"
	case RoleUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Known reports whether r is one of the three portal roles.
func (r Role) Known() bool {
	switch r {
	case RoleCustomer, RoleBankOfficer, RoleSBPAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a wire name into a Role. Unknown names are an error.
func ParseRole(s string) (Role, error) {
	switch s {
	case "customer", "user":
		return RoleCustomer, nil
	case "bank_officer":
		return RoleBankOfficer, nil
	case "sbp_admin":
		return RoleSBPAdmin, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognised names
// decode to RoleUnknown so that a profile with a foreign role still loads
// and is rejected by the guard instead of failing to decode.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		*r = RoleUnknown
		return nil
	}
	*r = parsed
	return nil
}

// ------------------------------
// Complaint status
// ------------------------------

// Status is the lifecycle state of a complaint as reported by the backend.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
	StatusEscalated  Status = "escalated"
	StatusClosed     Status = "closed"
)

// Statuses lists every status the backend is known to emit.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected, StatusEscalated, StatusClosed}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// ------------------------------
// Core Domain Entities
// ------------------------------

// Asset is an uploaded file reference (avatar or attachment).
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Profile is the signed-in actor as returned by the "me" endpoints.
type Profile struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	BankID    *string   `json:"bankId,omitempty"`
	Avatar    *Asset    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Complaint is a customer complaint as seen by any role.
type Complaint struct {
	ID          string     `json:"_id"`
	ComplaintNo string     `json:"complaintNo"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      Status     `json:"status"`
	Description string     `json:"description,omitempty"`
	Attachments []Asset    `json:"attachments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	Remark      *Remark    `json:"remark,omitempty"`
}

// Remark records the reason attached to a status transition.
type Remark struct {
	ID          string    `json:"_id"`
	ComplaintID string    `json:"complaintId"`
	ActionBy    string    `json:"actionBy"`
	ActionType  string    `json:"actionType"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Bank is an entry of the bank directory.
type Bank struct {
	ID       string `json:"_id"`
	BankName string `json:"bankName"`
	BankCode string `json:"bankCode"`
}

// ------------------------------
// Complaint form vocabularies
// ------------------------------

var (
	// ComplaintTypes are the accepted values for a complaint's type.
	ComplaintTypes = []string{"banking_service", "card_service", "loan_service", "digital_banking", "other"}
	// ComplaintCategories are the accepted values for a complaint's category.
	ComplaintCategories = []string{"fraud", "delay", "wrong_charges", "poor_service", "system_issue", "other"}
	// Priorities are the accepted values for a complaint's priority.
	Priorities = []string{"low", "medium", "high"}
)

// MaxAttachments bounds the non-PDF attachments of a complaint.
const MaxAttachments = 4
