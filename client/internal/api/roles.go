package api

import (
	"fmt"

	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// RolePaths are the API base paths a role talks to.
type RolePaths struct {
	Auth      string // login, refresh, me, dashboard, ...
	Complaint string // role-scoped complaint listing and detail
	Remark    string // remark history; empty when the role has none
}

// PathsFor returns the base paths for role.
func PathsFor(role types.Role) (RolePaths, error) {
	switch role {
	case types.RoleCustomer:
		return RolePaths{Auth: "auth/user", Complaint: "user/complaint", Remark: "user/remark"}, nil
	case types.RoleBankOfficer:
		return RolePaths{Auth: "auth/Bank_officer", Complaint: "Bank_Officer/complaint", Remark: "Bank_Officer/remark"}, nil
	case types.RoleSBPAdmin:
		return RolePaths{Auth: "auth/sbp_admin", Complaint: "sbp_admin/complaint"}, nil
	case types.RoleUnknown:
		return RolePaths{}, fmt.Errorf("no API paths for role %s", role)
	default:
		return RolePaths{}, fmt.Errorf("no API paths for role %s", role)
	}
}
