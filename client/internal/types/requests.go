package types

// ------------------------------
// Request Types
// ------------------------------

// LoginRequest holds portal credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest registers a new customer account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	BankID   string `json:"bankId,omitempty"`
}

// RegisterBankOfficerRequest is submitted by the regulator to onboard an officer.
type RegisterBankOfficerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	BankID   string `json:"bankId"`
}

// ForgotPasswordRequest asks the backend to mail a reset token.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes a forgot-password flow.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// UpdatePasswordRequest changes the password of the signed-in actor.
// ConfirmPassword is checked locally and never sent.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"-"`
}

// File is an in-memory upload. Keeping the bytes allows a multipart body to
// be rebuilt when an action is retried after a session refresh.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsPDF reports whether the file is a PDF document.
func (f File) IsPDF() bool {
	return f.ContentType == "application/pdf"
}

// UpdateProfileRequest is sent as multipart form data.
type UpdateProfileRequest struct {
	Name   string
	Email  string
	Avatar *File
}

// SubmitComplaintRequest is sent as multipart form data.
type SubmitComplaintRequest struct {
	Type        string
	Category    string
	Priority    string
	Description string
	PDF         *File
	Attachments []File
}

// UpdateComplaintRequest edits a pending complaint.
type UpdateComplaintRequest struct {
	Description string
	Attachments []File
}

// CloseComplaintRequest is the customer's close action.
type CloseComplaintRequest struct {
	Reason string `json:"reason,omitempty"`
}

// OfficerStatusRequest is the officer's status transition. Remark is
// omitted from the wire when empty.
type OfficerStatusRequest struct {
	Status Status `json:"status"`
	Remark string `json:"remark,omitempty"`
}

// ComplaintQuery filters complaint listings. Zero values are not sent.
type ComplaintQuery struct {
	Page     int
	Limit    int
	Status   Status
	Priority string
	BankCode string
}

// RemarkQuery narrows a remark listing for one complaint.
type RemarkQuery struct {
	ComplaintID string
	ComplaintNo string
	Status      Status
}

// UserQuery filters user directory listings.
type UserQuery struct {
	Page     int
	Limit    int
	BankCode string
	Search   string
	Status   string
}
