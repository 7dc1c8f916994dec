package devserver

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

type complaintPayload struct {
	Complaint client.Complaint `json:"complaint"`
	Remark    *client.Remark   `json:"remark,omitempty"`
}

func (s *Server) listComplaints(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	page, limit := pageParams(r)
	q := r.URL.Query()
	f := ComplaintFilter{
		Status:   client.Status(q.Get("status")),
		Priority: q.Get("priority"),
	}
	if prof.Role == client.RoleSBPAdmin {
		f.BankCode = q.Get("bankCode")
	}
	if f.Status != "" && !f.Status.Valid() {
		writeFail(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", f.Status))
		return
	}
	items, total := s.store.Complaints(scopeOf(prof), f, page, limit)
	writeOK(w, http.StatusOK, "Complaints fetched", client.ComplaintPage{
		Page:       page,
		Limit:      limit,
		Count:      total,
		Filters:    client.ComplaintFilters{Status: string(f.Status), Priority: f.Priority, BankCode: f.BankCode},
		Complaints: items,
	})
}

func (s *Server) getComplaint(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	c, rm, err := s.store.Complaint(scopeOf(prof), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Complaint fetched", complaintPayload{Complaint: c, Remark: rm})
}

// submitComplaint accepts the multipart complaint form: type, category,
// priority, description, an optional "pdf" file and up to MaxAttachments
// "attachments" files.
func (s *Server) submitComplaint(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeFail(w, http.StatusBadRequest, "malformed multipart body")
		return
	}
	in := NewComplaint{
		Type:        strings.TrimSpace(r.FormValue("type")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Priority:    strings.TrimSpace(r.FormValue("priority")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if in.Type == "" || in.Category == "" || in.Priority == "" {
		writeFail(w, http.StatusBadRequest, "type, category and priority are required")
		return
	}
	pdfs := r.MultipartForm.File["pdf"]
	if in.Description == "" && len(pdfs) == 0 {
		writeFail(w, http.StatusBadRequest, "either a description or a PDF is required")
		return
	}
	if in.Description != "" && utf8.RuneCountInString(in.Description) < client.MinDescriptionLength {
		writeFail(w, http.StatusBadRequest, fmt.Sprintf("description must be at least %d characters", client.MinDescriptionLength))
		return
	}
	atts, err := assets(r.MultipartForm.File["attachments"])
	if err != nil {
		writeError(w, err)
		return
	}
	if len(pdfs) > 0 {
		if ct := pdfs[0].Header.Get("Content-Type"); ct != "" && ct != "application/pdf" {
			writeFail(w, http.StatusBadRequest, "pdf must be application/pdf")
			return
		}
		atts = append([]client.Asset{uploadAsset("complaints", pdfs[0].Filename)}, atts...)
	}
	in.Attachments = atts

	c, err := s.store.CreateComplaint(prof.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Debug().Str("complaint_no", c.ComplaintNo).Str("user_id", prof.ID).Msg("complaint submitted")
	writeOK(w, http.StatusCreated, "Complaint submitted", complaintPayload{Complaint: c})
}

func (s *Server) updateComplaint(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeFail(w, http.StatusBadRequest, "malformed multipart body")
		return
	}
	desc := strings.TrimSpace(r.FormValue("description"))
	if desc != "" && utf8.RuneCountInString(desc) < client.MinDescriptionLength {
		writeFail(w, http.StatusBadRequest, fmt.Sprintf("description must be at least %d characters", client.MinDescriptionLength))
		return
	}
	atts, err := assets(r.MultipartForm.File["attachments"])
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := s.store.UpdateComplaint(scopeOf(prof), mux.Vars(r)["id"], desc, atts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Complaint updated", complaintPayload{Complaint: c})
}

func (s *Server) deleteComplaint(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	if err := s.store.DeleteComplaint(scopeOf(prof), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Complaint deleted", nil)
}

// closeComplaint is the customer's status change; the only target is
// closed.
func (s *Server) closeComplaint(w http.ResponseWriter, r *http.Request) {
	var req client.CloseComplaintRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.changeStatus(w, r, client.StatusClosed, req.Reason)
}

func (s *Server) officerStatus(w http.ResponseWriter, r *http.Request) {
	var req client.OfficerStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.changeStatus(w, r, req.Status, req.Remark)
}

func (s *Server) changeStatus(w http.ResponseWriter, r *http.Request, next client.Status, reason string) {
	prof := principalFrom(r.Context())
	c, rm, err := s.store.ChangeStatus(scopeOf(prof), mux.Vars(r)["id"], next, reason)
	if err != nil {
		writeError(w, err)
		return
	}
	statusChangesTotal.WithLabelValues(prof.Role.String(), string(next)).Inc()
	writeOK(w, http.StatusOK, "Status updated", complaintPayload{Complaint: c, Remark: rm})
}

func (s *Server) listRemarks(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	status := client.Status(r.URL.Query().Get("status"))
	list, err := s.store.Remarks(scopeOf(prof), mux.Vars(r)["id"], status)
	if err != nil {
		writeError(w, err)
		return
	}
	if no := r.URL.Query().Get("complaintNo"); no != "" && no != list.ComplaintNo {
		writeError(w, errors.Wrapf(ErrNotFound, "complaint %s", no))
		return
	}
	writeOK(w, http.StatusOK, "Remarks fetched", list)
}

// assets checks image attachments and names them.
func assets(fhs []*multipart.FileHeader) ([]client.Asset, error) {
	if len(fhs) > client.MaxAttachments {
		return nil, errors.Wrapf(ErrInvalid, "at most %d attachments", client.MaxAttachments)
	}
	out := make([]client.Asset, 0, len(fhs))
	for _, fh := range fhs {
		if fh.Size == 0 {
			return nil, errors.Wrapf(ErrInvalid, "attachment %s is empty", fh.Filename)
		}
		if fh.Header.Get("Content-Type") == "application/pdf" {
			return nil, errors.Wrap(ErrInvalid, "attachments must be images; send the PDF as pdf")
		}
		out = append(out, uploadAsset("complaints", fh.Filename))
	}
	return out, nil
}
