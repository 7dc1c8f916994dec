// Package policy decides which status transitions a role may perform and
// whether a transition must carry a reason. It has no dependencies on I/O.
package policy

import "github.com/rm-Shayan/finetech-frontened/client/internal/types"

// legacyOther is a status value older backends emitted for complaints
// that were reopened outside the normal flow. It is not a member of the
// Status set but resolving such a complaint still needs a reason.
const legacyOther types.Status = "other"

// ReasonRequired reports whether moving a complaint from prev to next by
// actor must be accompanied by a reason:
//
//  1. customers always give one
//  2. rejecting or escalating always needs one
//  3. resolving a complaint that was rejected, escalated or "other" needs one
//
// Anything else does not. The function is total: unknown statuses and the
// unknown role fall through to the later rules.
func ReasonRequired(prev, next types.Status, actor types.Role) bool {
	if actor == types.RoleCustomer {
		return true
	}
	switch next {
	case types.StatusRejected, types.StatusEscalated:
		return true
	case types.StatusResolved:
		switch prev {
		case types.StatusRejected, types.StatusEscalated, legacyOther:
			return true
		}
	}
	return false
}

// Targets lists the statuses role may move a complaint to.
func Targets(role types.Role) []types.Status {
	switch role {
	case types.RoleCustomer:
		return []types.Status{types.StatusClosed}
	case types.RoleBankOfficer:
		return []types.Status{types.StatusResolved, types.StatusRejected, types.StatusEscalated}
	case types.RoleSBPAdmin, types.RoleUnknown:
		return nil
	default:
		return nil
	}
}

// CanTransition reports whether next is one of role's targets.
func CanTransition(role types.Role, next types.Status) bool {
	for _, s := range Targets(role) {
		if s == next {
			return true
		}
	}
	return false
}

// CanEdit reports whether role may edit or delete a complaint in status.
// Only customers may, and only while the complaint is still pending.
func CanEdit(role types.Role, status types.Status) bool {
	return role == types.RoleCustomer && status == types.StatusPending
}
