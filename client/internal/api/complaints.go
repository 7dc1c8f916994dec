package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

const customerComplaints = "user/complaint"

const officerComplaints = "Bank_Officer/complaint"

// SubmitComplaint files a new customer complaint (multipart).
func SubmitComplaint(ctx context.Context, httpClient HTTPClient, baseURL string, req types.SubmitComplaintRequest) (*types.Complaint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	fields := []formField{
		{"type", req.Type},
		{"category", req.Category},
		{"priority", req.Priority},
		{"description", strings.TrimSpace(req.Description)},
	}
	var files []formFile
	if req.PDF != nil {
		files = append(files, formFile{field: "pdf", file: *req.PDF})
	}
	for _, f := range req.Attachments {
		files = append(files, formFile{field: "attachments", file: f})
	}
	httpReq, err := newMultipartRequest(ctx, http.MethodPost, endpoint(baseURL, customerComplaints, "submit"), fields, files)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "submit complaint")
	if err != nil {
		return nil, err
	}
	return decodeComplaint(data, "submit complaint")
}

// ListComplaints lists complaints under complaintBase with the filters the
// role supports. Zero-valued filters are omitted.
func ListComplaints(ctx context.Context, httpClient HTTPClient, baseURL, complaintBase string, q types.ComplaintQuery) (*types.ComplaintPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := url.Values{}
	setInt(params, "page", q.Page)
	setInt(params, "limit", q.Limit)
	setString(params, "status", string(q.Status))
	setString(params, "priority", q.Priority)
	setString(params, "bankCode", q.BankCode)
	httpReq, err := newJSONRequest(ctx, http.MethodGet, withQuery(endpoint(baseURL, complaintBase), params), nil)
	if err != nil {
		return nil, err
	}
	var page types.ComplaintPage
	if err := sendInto(httpClient, httpReq, "list complaints", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetComplaint fetches one complaint with its latest remark.
func GetComplaint(ctx context.Context, httpClient HTTPClient, baseURL, complaintBase, complaintID string) (*types.ComplaintDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if complaintID == "" {
		return nil, cerr.NewValidationError("complaintId", "complaint id is required")
	}
	httpReq, err := newJSONRequest(ctx, http.MethodGet, endpoint(baseURL, complaintBase, url.PathEscape(complaintID)), nil)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "get complaint")
	if err != nil {
		return nil, err
	}
	return decodeDetail(data, "get complaint")
}

// UpdateComplaint edits a pending customer complaint (multipart).
func UpdateComplaint(ctx context.Context, httpClient HTTPClient, baseURL, complaintID string, req types.UpdateComplaintRequest) (*types.Complaint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if complaintID == "" {
		return nil, cerr.NewValidationError("complaintId", "complaint id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	files := make([]formFile, 0, len(req.Attachments))
	for _, f := range req.Attachments {
		files = append(files, formFile{field: "attachments", file: f})
	}
	httpReq, err := newMultipartRequest(ctx, http.MethodPatch, endpoint(baseURL, customerComplaints, "update", url.PathEscape(complaintID)),
		[]formField{{"description", strings.TrimSpace(req.Description)}}, files)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "update complaint")
	if err != nil {
		return nil, err
	}
	return decodeComplaint(data, "update complaint")
}

// CloseComplaint is the customer's status transition to closed.
func CloseComplaint(ctx context.Context, httpClient HTTPClient, baseURL, complaintID string, req types.CloseComplaintRequest) (*types.ComplaintDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if complaintID == "" {
		return nil, cerr.NewValidationError("complaintId", "complaint id is required")
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPatch, endpoint(baseURL, customerComplaints, "updateStatus", url.PathEscape(complaintID)), req)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "close complaint")
	if err != nil {
		return nil, err
	}
	return decodeDetail(data, "close complaint")
}

// DeleteComplaint removes a pending customer complaint.
func DeleteComplaint(ctx context.Context, httpClient HTTPClient, baseURL, complaintID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if complaintID == "" {
		return cerr.NewValidationError("complaintId", "complaint id is required")
	}
	httpReq, err := newJSONRequest(ctx, http.MethodDelete, endpoint(baseURL, customerComplaints, "delete", url.PathEscape(complaintID)), nil)
	if err != nil {
		return err
	}
	_, _, err = send(httpClient, httpReq, "delete complaint")
	return err
}

// UpdateComplaintStatus is the bank officer's status transition.
func UpdateComplaintStatus(ctx context.Context, httpClient HTTPClient, baseURL, complaintID string, req types.OfficerStatusRequest) (*types.ComplaintDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if complaintID == "" {
		return nil, cerr.NewValidationError("complaintId", "complaint id is required")
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPatch, endpoint(baseURL, officerComplaints, "update", url.PathEscape(complaintID)), req)
	if err != nil {
		return nil, err
	}
	data, _, err := send(httpClient, httpReq, "update complaint status")
	if err != nil {
		return nil, err
	}
	return decodeDetail(data, "update complaint status")
}

func decodeDetail(data json.RawMessage, op string) (*types.ComplaintDetail, error) {
	var d types.ComplaintDetail
	if len(data) > 0 {
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("%s: decode data: %w", op, err)
		}
	}
	if d.Complaint == nil {
		c, err := decodeComplaint(data, op)
		if err != nil {
			return nil, err
		}
		d.Complaint = c
	}
	return &d, nil
}

// decodeComplaint accepts {"complaint": {...}} or a bare complaint.
func decodeComplaint(data json.RawMessage, op string) (*types.Complaint, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, fmt.Errorf("%s: empty complaint", op)
	}
	var d types.ComplaintDetail
	if err := json.Unmarshal(data, &d); err == nil && d.Complaint != nil {
		return d.Complaint, nil
	}
	var c types.Complaint
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%s: decode complaint: %w", op, err)
	}
	return &c, nil
}
