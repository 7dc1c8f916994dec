package types

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-openapi/strfmt"

	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
)

// MinDescriptionLength is the shortest accepted complaint description.
const MinDescriptionLength = 20

// MinPasswordLength applies to new passwords and officer registration.
const MinPasswordLength = 6

// ValidateEmail checks the address format.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return cerr.NewValidationError("email", "email is required")
	}
	if !strfmt.IsEmail(email) {
		return cerr.NewValidationError("email", "invalid email")
	}
	return nil
}

func (r LoginRequest) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return cerr.NewValidationError("password", "password is required")
	}
	return nil
}

func (r SignupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return cerr.NewValidationError("name", "name is required")
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	return validateNewPassword("password", r.Password)
}

func (r RegisterBankOfficerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return cerr.NewValidationError("name", "name is required")
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := validateNewPassword("password", r.Password); err != nil {
		return err
	}
	if strings.TrimSpace(r.BankID) == "" {
		return cerr.NewValidationError("bankId", "bank is required")
	}
	return nil
}

func (r ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return cerr.NewValidationError("token", "reset token is required")
	}
	return validateNewPassword("newPassword", r.NewPassword)
}

// Validate checks the password change locally; a confirmation mismatch
// never reaches the backend.
func (r UpdatePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return cerr.NewValidationError("currentPassword", "current password is required")
	}
	if err := validateNewPassword("newPassword", r.NewPassword); err != nil {
		return err
	}
	if r.NewPassword != r.ConfirmPassword {
		return cerr.NewValidationError("confirmPassword", "passwords do not match")
	}
	return nil
}

func (r UpdateProfileRequest) Validate() error {
	if r.Name == "" && r.Email == "" && r.Avatar == nil {
		return cerr.NewValidationError("profile", "nothing to update")
	}
	if r.Email != "" {
		if err := ValidateEmail(r.Email); err != nil {
			return err
		}
	}
	if r.Avatar != nil && len(r.Avatar.Data) == 0 {
		return cerr.NewValidationError("avatar", "avatar file is empty")
	}
	return nil
}

// Validate applies the complaint form rules: type, category and priority
// are required, a description must be at least MinDescriptionLength
// characters when given, and either a description or a PDF must be present.
func (r SubmitComplaintRequest) Validate() error {
	if err := requireOneOf("type", r.Type, ComplaintTypes); err != nil {
		return err
	}
	if err := requireOneOf("category", r.Category, ComplaintCategories); err != nil {
		return err
	}
	if err := requireOneOf("priority", r.Priority, Priorities); err != nil {
		return err
	}
	desc := strings.TrimSpace(r.Description)
	if desc != "" && utf8.RuneCountInString(desc) < MinDescriptionLength {
		return cerr.NewValidationError("description", "description must be at least 20 characters")
	}
	if desc == "" && r.PDF == nil {
		return cerr.NewValidationError("pdf", "either description or PDF must be provided")
	}
	if r.PDF != nil && !r.PDF.IsPDF() {
		return cerr.NewValidationError("pdf", "pdf must be application/pdf")
	}
	return validateAttachments(r.Attachments)
}

func (r UpdateComplaintRequest) Validate() error {
	desc := strings.TrimSpace(r.Description)
	if desc == "" && len(r.Attachments) == 0 {
		return cerr.NewValidationError("description", "nothing to update")
	}
	if desc != "" && utf8.RuneCountInString(desc) < MinDescriptionLength {
		return cerr.NewValidationError("description", "description must be at least 20 characters")
	}
	return validateAttachments(r.Attachments)
}

func validateAttachments(files []File) error {
	if len(files) > MaxAttachments {
		return cerr.NewValidationError("attachments", "at most 4 attachments are allowed")
	}
	for _, f := range files {
		if f.IsPDF() {
			return cerr.NewValidationError("attachments", "attach PDFs through the pdf field")
		}
		if len(f.Data) == 0 {
			return cerr.NewValidationError("attachments", "attachment "+f.Name+" is empty")
		}
	}
	return nil
}

func validateNewPassword(field, pw string) error {
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return cerr.NewValidationError(field, "password must be at least 6 characters")
	}
	return nil
}

func requireOneOf(field, v string, allowed []string) error {
	if v == "" {
		return cerr.NewValidationError(field, field+" is required")
	}
	if !slices.Contains(allowed, v) {
		return cerr.NewValidationError(field, "unknown "+field+" "+v)
	}
	return nil
}
