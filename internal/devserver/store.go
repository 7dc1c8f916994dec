package devserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

// Store errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrInvalid      = errors.New("invalid request")
	ErrCredentials  = errors.New("invalid email or password")
	ErrForbidden    = errors.New("forbidden")
	ErrNotEditable  = errors.New("only pending complaints can be changed")
	ErrReasonNeeded = errors.New("reason is required for this status change")
)

type account struct {
	profile    client.Profile
	password   string
	tokenVer   int
	resetToken string
}

type complaintRecord struct {
	complaint client.Complaint
	ownerID   string
	bankID    string
	remarks   []client.Remark
}

// Store is the in-memory state of the development backend. Passwords are
// kept in clear text: the store never leaves the process.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	accounts   map[string]*account // by id
	byEmail    map[string]string   // lower-cased email -> id
	banks      []client.Bank
	complaints map[string]*complaintRecord
	order      []string // complaint ids, oldest first
	seq        int
}

// NewStore returns an empty store using now as its clock.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:        now,
		accounts:   make(map[string]*account),
		byEmail:    make(map[string]string),
		complaints: make(map[string]*complaintRecord),
	}
}

// --------------------------------------------------------------------
// Banks
// --------------------------------------------------------------------

// AddBank registers a bank in the directory.
func (s *Store) AddBank(name, code string) client.Bank {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := client.Bank{ID: uuid.NewString(), BankName: name, BankCode: code}
	s.banks = append(s.banks, b)
	return b
}

// Banks returns the bank directory.
func (s *Store) Banks() []client.Bank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]client.Bank(nil), s.banks...)
}

func (s *Store) bankLocked(id string) (client.Bank, bool) {
	for _, b := range s.banks {
		if b.ID == id {
			return b, true
		}
	}
	return client.Bank{}, false
}

func (s *Store) bankByCodeLocked(code string) (client.Bank, bool) {
	for _, b := range s.banks {
		if strings.EqualFold(b.BankCode, code) {
			return b, true
		}
	}
	return client.Bank{}, false
}

// --------------------------------------------------------------------
// Accounts
// --------------------------------------------------------------------

// CreateAccount adds an account. Customers and officers must name a known
// bank.
func (s *Store) CreateAccount(name, email, password string, role client.Role, bankID string) (client.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" || password == "" || !role.Known() {
		return client.Profile{}, errors.Wrap(ErrInvalid, "name, email, password and role are required")
	}
	if _, dup := s.byEmail[key]; dup {
		return client.Profile{}, errors.Wrapf(ErrConflict, "email %s", key)
	}
	p := client.Profile{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     key,
		Role:      role,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if role != client.RoleSBPAdmin {
		if _, ok := s.bankLocked(bankID); !ok {
			return client.Profile{}, errors.Wrapf(ErrInvalid, "unknown bank %q", bankID)
		}
		id := bankID
		p.BankID = &id
	}
	s.accounts[p.ID] = &account{profile: p, password: password}
	s.byEmail[key] = p.ID
	return p, nil
}

// Authenticate checks credentials for role.
func (s *Store) Authenticate(email, password string, role client.Role) (client.Profile, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return client.Profile{}, 0, ErrCredentials
	}
	a := s.accounts[id]
	if a.password != password {
		return client.Profile{}, 0, ErrCredentials
	}
	if a.profile.Role != role {
		return client.Profile{}, 0, errors.Wrapf(ErrForbidden, "account is not a %s", role)
	}
	return a.profile, a.tokenVer, nil
}

// Account returns the profile and token version of id.
func (s *Store) Account(id string) (client.Profile, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return client.Profile{}, 0, false
	}
	return a.profile, a.tokenVer, true
}

// RevokeTokens invalidates every token issued to id so far.
func (s *Store) RevokeTokens(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		a.tokenVer++
	}
}

// UpdateAccount changes name, email and avatar; empty values are kept.
func (s *Store) UpdateAccount(id, name, email string, avatar *client.Asset) (client.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return client.Profile{}, ErrNotFound
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" && email != a.profile.Email {
		if _, dup := s.byEmail[email]; dup {
			return client.Profile{}, errors.Wrapf(ErrConflict, "email %s", email)
		}
		delete(s.byEmail, a.profile.Email)
		s.byEmail[email] = id
		a.profile.Email = email
	}
	if name = strings.TrimSpace(name); name != "" {
		a.profile.Name = name
	}
	if avatar != nil {
		a.profile.Avatar = avatar
	}
	a.profile.UpdatedAt = s.now()
	return a.profile, nil
}

// DeleteAccount removes id and every complaint it filed.
func (s *Store) DeleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byEmail, a.profile.Email)
	delete(s.accounts, id)
	kept := s.order[:0]
	for _, cid := range s.order {
		if s.complaints[cid].ownerID == id {
			delete(s.complaints, cid)
			continue
		}
		kept = append(kept, cid)
	}
	s.order = kept
	return nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Store) ChangePassword(id, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if a.password != current {
		return errors.Wrap(ErrCredentials, "current password is incorrect")
	}
	a.password = next
	a.tokenVer++
	return nil
}

// IssueResetToken creates a one-time reset token for email. ok is false
// when no such account exists.
func (s *Store) IssueResetToken(email string) (token string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, found := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !found {
		return "", false
	}
	token = uuid.NewString()
	s.accounts[id].resetToken = token
	return token, true
}

// ResetPassword consumes token and sets the new password.
func (s *Store) ResetPassword(token, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		return errors.Wrap(ErrInvalid, "token is required")
	}
	for _, a := range s.accounts {
		if a.resetToken == token {
			a.resetToken = ""
			a.password = next
			a.tokenVer++
			return nil
		}
	}
	return errors.Wrap(ErrInvalid, "reset token is invalid or used")
}

// UserFilter selects accounts for the directory listings.
type UserFilter struct {
	Role     client.Role // RoleUnknown means any
	BankID   string
	BankCode string
	Search   string
}

// Users lists accounts matching f, sorted by creation time.
func (s *Store) Users(f UserFilter) []client.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bankID := f.BankID
	if f.BankCode != "" {
		b, ok := s.bankByCodeLocked(f.BankCode)
		if !ok {
			return nil
		}
		bankID = b.ID
	}
	needle := strings.ToLower(f.Search)
	var out []client.Profile
	for _, a := range s.accounts {
		p := a.profile
		if f.Role.Known() && p.Role != f.Role {
			continue
		}
		if bankID != "" && (p.BankID == nil || *p.BankID != bankID) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) && !strings.Contains(p.Email, needle) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// --------------------------------------------------------------------
// Complaints
// --------------------------------------------------------------------

// NewComplaint is the customer-supplied part of a complaint.
type NewComplaint struct {
	Type, Category, Priority, Description string
	Attachments                           []client.Asset
}

// CreateComplaint files a pending complaint for owner against the owner's
// bank.
func (s *Store) CreateComplaint(ownerID string, in NewComplaint) (client.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[ownerID]
	if !ok || a.profile.BankID == nil {
		return client.Complaint{}, errors.Wrap(ErrInvalid, "complaints must be filed by a customer of a bank")
	}
	s.seq++
	now := s.now()
	c := client.Complaint{
		ID:          uuid.NewString(),
		ComplaintNo: fmt.Sprintf("CMP-%06d", s.seq),
		Type:        in.Type,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      client.StatusPending,
		Description: in.Description,
		Attachments: in.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.complaints[c.ID] = &complaintRecord{complaint: c, ownerID: ownerID, bankID: *a.profile.BankID}
	s.order = append(s.order, c.ID)
	return c, nil
}

// Scope limits complaint visibility to what an account may see.
type Scope struct {
	Role   client.Role
	UserID string
	BankID string
}

func (sc Scope) sees(r *complaintRecord) bool {
	switch sc.Role {
	case client.RoleCustomer:
		return r.ownerID == sc.UserID
	case client.RoleBankOfficer:
		return r.bankID == sc.BankID
	case client.RoleSBPAdmin:
		return true
	default:
		return false
	}
}

// ComplaintFilter narrows a listing.
type ComplaintFilter struct {
	Status   client.Status
	Priority string
	BankCode string
}

// Complaints returns the complaints visible to sc that match f, newest
// first, with the total count before paging.
func (s *Store) Complaints(sc Scope, f ComplaintFilter, page, limit int) ([]client.Complaint, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bankID := ""
	if f.BankCode != "" {
		b, ok := s.bankByCodeLocked(f.BankCode)
		if !ok {
			return nil, 0
		}
		bankID = b.ID
	}
	var all []client.Complaint
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.complaints[s.order[i]]
		if !sc.sees(r) {
			continue
		}
		if f.Status != "" && r.complaint.Status != f.Status {
			continue
		}
		if f.Priority != "" && !strings.EqualFold(r.complaint.Priority, f.Priority) {
			continue
		}
		if bankID != "" && r.bankID != bankID {
			continue
		}
		all = append(all, r.complaint)
	}
	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []client.Complaint{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total
}

func (s *Store) visibleLocked(sc Scope, id string) (*complaintRecord, error) {
	r, ok := s.complaints[id]
	if !ok || !sc.sees(r) {
		return nil, errors.Wrapf(ErrNotFound, "complaint %s", id)
	}
	return r, nil
}

func latest(r *complaintRecord) *client.Remark {
	if len(r.remarks) == 0 {
		return nil
	}
	rm := r.remarks[len(r.remarks)-1]
	return &rm
}

// Complaint returns one complaint and its latest remark. An officer
// opening a pending complaint moves it to in_progress.
func (s *Store) Complaint(sc Scope, id string) (client.Complaint, *client.Remark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.visibleLocked(sc, id)
	if err != nil {
		return client.Complaint{}, nil, err
	}
	if sc.Role == client.RoleBankOfficer && r.complaint.Status == client.StatusPending {
		r.complaint.Status = client.StatusInProgress
		r.complaint.UpdatedAt = s.now()
	}
	return r.complaint, latest(r), nil
}

// UpdateComplaint edits description and attachments of a pending
// complaint owned by sc.
func (s *Store) UpdateComplaint(sc Scope, id, description string, attachments []client.Asset) (client.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.visibleLocked(sc, id)
	if err != nil {
		return client.Complaint{}, err
	}
	if r.complaint.Status != client.StatusPending {
		return client.Complaint{}, ErrNotEditable
	}
	if description != "" {
		r.complaint.Description = description
	}
	if len(attachments) > 0 {
		r.complaint.Attachments = attachments
	}
	r.complaint.UpdatedAt = s.now()
	return r.complaint, nil
}

// DeleteComplaint removes a pending complaint owned by sc.
func (s *Store) DeleteComplaint(sc Scope, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.visibleLocked(sc, id)
	if err != nil {
		return err
	}
	if r.complaint.Status != client.StatusPending {
		return ErrNotEditable
	}
	delete(s.complaints, id)
	for i, cid := range s.order {
		if cid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ChangeStatus moves a complaint to next on behalf of sc. A remark is
// recorded only when the transition requires a reason. The role must be allowed to reach next and a reason must be
// present whenever the transition requires one.
func (s *Store) ChangeStatus(sc Scope, id string, next client.Status, reason string) (client.Complaint, *client.Remark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.visibleLocked(sc, id)
	if err != nil {
		return client.Complaint{}, nil, err
	}
	allowed := false
	for _, t := range client.Targets(sc.Role) {
		if t == next {
			allowed = true
		}
	}
	if !allowed {
		return client.Complaint{}, nil, errors.Wrapf(ErrForbidden, "%s cannot set status %s", sc.Role, next)
	}
	prev := r.complaint.Status
	if prev == client.StatusClosed {
		return client.Complaint{}, nil, errors.Wrap(ErrInvalid, "complaint is closed")
	}
	reason = strings.TrimSpace(reason)
	required := client.ReasonRequired(prev, next, sc.Role)
	if required && reason == "" {
		return client.Complaint{}, nil, ErrReasonNeeded
	}

	now := s.now()
	r.complaint.Status = next
	r.complaint.UpdatedAt = now
	if next == client.StatusClosed {
		r.complaint.ClosedAt = &now
	}
	// Only transitions that need a reason leave a remark.
	if !required {
		return r.complaint, nil, nil
	}
	rm := client.Remark{
		ID:          uuid.NewString(),
		ComplaintID: id,
		ActionBy:    sc.UserID,
		ActionType:  string(next),
		Reason:      reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.remarks = append(r.remarks, rm)
	return r.complaint, &rm, nil
}

// Remarks returns the remark history of a complaint, optionally only the
// remarks that moved it to status.
func (s *Store) Remarks(sc Scope, id string, status client.Status) (client.RemarkList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, err := s.visibleLocked(sc, id)
	if err != nil {
		return client.RemarkList{}, err
	}
	out := client.RemarkList{
		ComplaintNo:   r.complaint.ComplaintNo,
		CurrentStatus: r.complaint.Status,
		Remarks:       []client.Remark{},
	}
	for _, rm := range r.remarks {
		if status == "" || rm.ActionType == string(status) {
			out.Remarks = append(out.Remarks, rm)
		}
	}
	out.TotalRemarks = len(out.Remarks)
	return out, nil
}

// StatusCounts returns complaint counts per status for sc.
func (s *Store) StatusCounts(sc Scope) map[client.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[client.Status]int)
	for _, r := range s.complaints {
		if sc.sees(r) {
			out[r.complaint.Status]++
		}
	}
	return out
}
