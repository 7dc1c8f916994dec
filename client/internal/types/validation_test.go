package types

import (
	"encoding/json"
	"strings"
	"testing"

	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
)

func validComplaint() SubmitComplaintRequest {
	return SubmitComplaintRequest{
		Type:        "card_service",
		Category:    "wrong_charges",
		Priority:    "high",
		Description: "Charged twice for the same purchase last week",
	}
}

func TestSubmitComplaintValidation(t *testing.T) {
	t.Parallel()
	pdf := &File{Name: "statement.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}
	img := File{Name: "a.png", ContentType: "image/png", Data: []byte{1}}

	cases := []struct {
		name    string
		mutate  func(*SubmitComplaintRequest)
		wantErr string
	}{
		{"valid", func(*SubmitComplaintRequest) {}, ""},
		{"missing type", func(r *SubmitComplaintRequest) { r.Type = "" }, "type"},
		{"unknown category", func(r *SubmitComplaintRequest) { r.Category = "weather" }, "category"},
		{"short description", func(r *SubmitComplaintRequest) { r.Description = "too short" }, "description"},
		{"no description no pdf", func(r *SubmitComplaintRequest) { r.Description = "  " }, "pdf"},
		{"pdf only", func(r *SubmitComplaintRequest) { r.Description = ""; r.PDF = pdf }, ""},
		{"pdf wrong type", func(r *SubmitComplaintRequest) { r.PDF = &File{Name: "x", ContentType: "text/plain"} }, "pdf"},
		{"four attachments", func(r *SubmitComplaintRequest) { r.Attachments = []File{img, img, img, img} }, ""},
		{"five attachments", func(r *SubmitComplaintRequest) { r.Attachments = []File{img, img, img, img, img} }, "attachments"},
		{"pdf as attachment", func(r *SubmitComplaintRequest) { r.Attachments = []File{*pdf} }, "attachments"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validComplaint()
			tc.mutate(&r)
			err := r.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %s validation error", tc.wantErr)
			}
			if !cerr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error about %s, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUpdatePasswordMismatch(t *testing.T) {
	t.Parallel()
	r := UpdatePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret", ConfirmPassword: "new-secreT"}
	err := r.Validate()
	if err == nil || !strings.Contains(err.Error(), "confirmPassword") {
		t.Fatalf("expected confirm mismatch error, got %v", err)
	}
	r.ConfirmPassword = r.NewPassword
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := json.Marshal(r)
	if strings.Contains(string(b), "new-secreT") || strings.Contains(string(b), "confirm") {
		t.Fatalf("confirmation must not be serialized: %s", b)
	}
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()
	if err := (LoginRequest{Email: "not-an-email", Password: "x"}).Validate(); err == nil {
		t.Fatal("expected invalid email")
	}
	if err := (LoginRequest{Email: "a@b.com"}).Validate(); err == nil {
		t.Fatal("expected missing password")
	}
	if err := (LoginRequest{Email: "a@b.com", Password: "x"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRoleJSON(t *testing.T) {
	t.Parallel()
	var p Profile
	if err := json.Unmarshal([]byte(`{"_id":"1","role":"bank_officer"}`), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Role != RoleBankOfficer {
		t.Fatalf("role = %v", p.Role)
	}
	if err := json.Unmarshal([]byte(`{"_id":"1","role":"auditor"}`), &p); err != nil {
		t.Fatalf("decode unknown role: %v", err)
	}
	if p.Role != RoleUnknown {
		t.Fatalf("role = %v, want unknown", p.Role)
	}
	if _, err := ParseRole("auditor"); err == nil {
		t.Fatal("ParseRole must reject unknown names")
	}
	b, _ := json.Marshal(RoleSBPAdmin)
	if string(b) != `"sbp_admin"` {
		t.Fatalf("marshal = %s", b)
	}
}

func TestComplaintDetailSanitizedKeys(t *testing.T) {
	t.Parallel()
	var d ComplaintDetail
	body := `{"sanitizedComplaint":{"_id":"c1","status":"closed"},"sanitizedRemark":{"_id":"r1","reason":"fixed"}}`
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Complaint == nil || d.Complaint.Status != StatusClosed {
		t.Fatalf("complaint = %+v", d.Complaint)
	}
	if d.Remark == nil || d.Complaint.Remark == nil || d.Complaint.Remark.Reason != "fixed" {
		t.Fatalf("remark not attached: %+v", d)
	}
}

func TestDashboardCounters(t *testing.T) {
	t.Parallel()
	var d Dashboard
	if err := json.Unmarshal([]byte(`{"total":12,"pending":3,"byBank":[{"bank":"X"}]}`), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Counters["total"] != 12 || d.Counters["pending"] != 3 {
		t.Fatalf("counters = %v", d.Counters)
	}
	if _, ok := d.Counters["byBank"]; ok {
		t.Fatal("non-numeric field must not be a counter")
	}
	out, _ := json.Marshal(d)
	if !strings.Contains(string(out), "byBank") {
		t.Fatalf("raw payload lost: %s", out)
	}
}
