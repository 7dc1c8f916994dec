package devserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

func seeded(t *testing.T) (*Store, Demo) {
	t.Helper()
	s := NewStore(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) })
	d, err := s.SeedDemo()
	require.NoError(t, err)
	return s, d
}

func newComplaint(t *testing.T, s *Store, owner string) client.Complaint {
	t.Helper()
	c, err := s.CreateComplaint(owner, NewComplaint{Type: "card_service", Category: "fraud", Priority: "high", Description: "card charged twice for one purchase"})
	require.NoError(t, err)
	return c
}

func TestStore_CreateAccountRules(t *testing.T) {
	s, d := seeded(t)

	_, err := s.CreateAccount("Dup", "CUSTOMER@example.com", "secret1", client.RoleCustomer, d.Banks[0].ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.CreateAccount("No Bank", "nobank@example.com", "secret1", client.RoleCustomer, "")
	assert.ErrorIs(t, err, ErrInvalid)

	_, _, err = s.Authenticate("customer@example.com", DemoPassword, client.RoleBankOfficer)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = s.Authenticate("customer@example.com", "wrong", client.RoleCustomer)
	assert.ErrorIs(t, err, ErrCredentials)
}

func TestStore_VisibilityByRole(t *testing.T) {
	s, d := seeded(t)
	c := newComplaint(t, s, d.Customer.ID)
	assert.Equal(t, "CMP-000001", c.ComplaintNo)

	officer := Scope{Role: client.RoleBankOfficer, UserID: d.Officer.ID, BankID: *d.Officer.BankID}
	other := Scope{Role: client.RoleBankOfficer, UserID: "x", BankID: d.Banks[1].ID}
	admin := Scope{Role: client.RoleSBPAdmin, UserID: d.Admin.ID}

	items, total := s.Complaints(officer, ComplaintFilter{}, 1, 10)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)

	_, total = s.Complaints(other, ComplaintFilter{}, 1, 10)
	assert.Zero(t, total)

	_, total = s.Complaints(admin, ComplaintFilter{BankCode: "ubl"}, 1, 10)
	assert.Zero(t, total)
	_, total = s.Complaints(admin, ComplaintFilter{BankCode: "hbl"}, 1, 10)
	assert.Equal(t, 1, total)

	_, _, err := s.Complaint(other, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_OfficerOpenMarksInProgress(t *testing.T) {
	s, d := seeded(t)
	c := newComplaint(t, s, d.Customer.ID)
	officer := Scope{Role: client.RoleBankOfficer, UserID: d.Officer.ID, BankID: *d.Officer.BankID}

	got, rm, err := s.Complaint(officer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, client.StatusInProgress, got.Status)
	assert.Nil(t, rm)
}

func TestStore_ChangeStatusEnforcesReasons(t *testing.T) {
	s, d := seeded(t)
	c := newComplaint(t, s, d.Customer.ID)
	officer := Scope{Role: client.RoleBankOfficer, UserID: d.Officer.ID, BankID: *d.Officer.BankID}
	customer := Scope{Role: client.RoleCustomer, UserID: d.Customer.ID}

	_, _, err := s.ChangeStatus(officer, c.ID, client.StatusRejected, " ")
	assert.ErrorIs(t, err, ErrReasonNeeded)

	_, _, err = s.ChangeStatus(officer, c.ID, client.StatusClosed, "x")
	assert.ErrorIs(t, err, ErrForbidden)

	got, rm, err := s.ChangeStatus(officer, c.ID, client.StatusEscalated, "needs regulator")
	require.NoError(t, err)
	assert.Equal(t, client.StatusEscalated, got.Status)
	assert.Equal(t, "needs regulator", rm.Reason)

	// resolving after escalation needs a reason again
	_, _, err = s.ChangeStatus(officer, c.ID, client.StatusResolved, "")
	assert.ErrorIs(t, err, ErrReasonNeeded)

	_, _, err = s.ChangeStatus(customer, c.ID, client.StatusClosed, "")
	assert.ErrorIs(t, err, ErrReasonNeeded)
	got, _, err = s.ChangeStatus(customer, c.ID, client.StatusClosed, "handled at branch")
	require.NoError(t, err)
	require.NotNil(t, got.ClosedAt)

	_, _, err = s.ChangeStatus(officer, c.ID, client.StatusResolved, "late")
	assert.ErrorIs(t, err, ErrInvalid)

	list, err := s.Remarks(customer, c.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalRemarks)
	assert.Equal(t, client.StatusClosed, list.CurrentStatus)

	list, err = s.Remarks(customer, c.ID, client.StatusEscalated)
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalRemarks)
}

func TestStore_ResolveWithoutReasonLeavesNoRemark(t *testing.T) {
	s, d := seeded(t)
	c := newComplaint(t, s, d.Customer.ID)
	officer := Scope{Role: client.RoleBankOfficer, UserID: d.Officer.ID, BankID: *d.Officer.BankID}

	_, _, err := s.Complaint(officer, c.ID)
	require.NoError(t, err)
	require.False(t, client.ReasonRequired(client.StatusInProgress, client.StatusResolved, client.RoleBankOfficer))

	got, rm, err := s.ChangeStatus(officer, c.ID, client.StatusResolved, "")
	require.NoError(t, err)
	assert.Equal(t, client.StatusResolved, got.Status)
	assert.Nil(t, rm)

	list, err := s.Remarks(officer, c.ID, "")
	require.NoError(t, err)
	assert.Zero(t, list.TotalRemarks)
	assert.Empty(t, list.Remarks)
}

func TestStore_OnlyPendingIsEditable(t *testing.T) {
	s, d := seeded(t)
	c := newComplaint(t, s, d.Customer.ID)
	customer := Scope{Role: client.RoleCustomer, UserID: d.Customer.ID}

	got, err := s.UpdateComplaint(customer, c.ID, "a longer description of the double charge", nil)
	require.NoError(t, err)
	assert.Equal(t, "a longer description of the double charge", got.Description)

	_, _, err = s.ChangeStatus(customer, c.ID, client.StatusClosed, "done")
	require.NoError(t, err)

	_, err = s.UpdateComplaint(customer, c.ID, "another long enough description", nil)
	assert.ErrorIs(t, err, ErrNotEditable)
	assert.ErrorIs(t, s.DeleteComplaint(customer, c.ID), ErrNotEditable)
}

func TestStore_PasswordResetAndRevocation(t *testing.T) {
	s, d := seeded(t)
	_, ver, _ := s.Account(d.Customer.ID)

	token, ok := s.IssueResetToken("Customer@Example.com")
	require.True(t, ok)
	require.NoError(t, s.ResetPassword(token, "newsecret"))
	assert.Error(t, s.ResetPassword(token, "again123"), "token is single use")

	_, newVer, err := s.Authenticate("customer@example.com", "newsecret", client.RoleCustomer)
	require.NoError(t, err)
	assert.Greater(t, newVer, ver)

	_, ok = s.IssueResetToken("nobody@example.com")
	assert.False(t, ok)
}

func TestStore_UsersFilter(t *testing.T) {
	s, _ := seeded(t)
	assert.Len(t, s.Users(UserFilter{Role: client.RoleBankOfficer}), 2)
	assert.Len(t, s.Users(UserFilter{Role: client.RoleBankOfficer, BankCode: "UBL"}), 1)
	assert.Len(t, s.Users(UserFilter{Search: "ayesha"}), 1)
	assert.Len(t, s.Users(UserFilter{}), 4)
}
