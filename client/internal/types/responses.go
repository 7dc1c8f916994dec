package types

import "encoding/json"

// ------------------------------
// Response Types
// ------------------------------

// Envelope is the wrapper every backend response uses.
type Envelope[T any] struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Data       T      `json:"data"`
}

// AuthResult is the payload of login and refresh. AccessToken is only
// present when the backend also hands the token out of band of cookies.
type AuthResult struct {
	User        *Profile `json:"user,omitempty"`
	AccessToken string   `json:"accessToken,omitempty"`
}

// ComplaintFilters echoes the filters applied to a listing.
type ComplaintFilters struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	BankCode string `json:"bankCode,omitempty"`
}

// ComplaintPage is a paginated complaint listing.
type ComplaintPage struct {
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Count      int              `json:"count"`
	Filters    ComplaintFilters `json:"filters"`
	Complaints []Complaint      `json:"complaints"`
}

// ComplaintDetail is returned by the single-complaint endpoints and by
// status transitions. Close responses use the "sanitized" keys.
type ComplaintDetail struct {
	Complaint *Complaint `json:"complaint"`
	Remark    *Remark    `json:"remark,omitempty"`
}

// UnmarshalJSON accepts both the plain and the sanitized key names.
func (d *ComplaintDetail) UnmarshalJSON(b []byte) error {
	var raw struct {
		Complaint          *Complaint `json:"complaint"`
		Remark             *Remark    `json:"remark"`
		SanitizedComplaint *Complaint `json:"sanitizedComplaint"`
		SanitizedRemark    *Remark    `json:"sanitizedRemark"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d.Complaint = raw.Complaint
	if d.Complaint == nil {
		d.Complaint = raw.SanitizedComplaint
	}
	d.Remark = raw.Remark
	if d.Remark == nil {
		d.Remark = raw.SanitizedRemark
	}
	if d.Complaint != nil && d.Complaint.Remark == nil {
		d.Complaint.Remark = d.Remark
	}
	return nil
}

// RemarkList is the remark history of one complaint.
type RemarkList struct {
	ComplaintNo   string   `json:"complaintNo"`
	CurrentStatus Status   `json:"currentStatus"`
	TotalRemarks  int      `json:"totalRemarks"`
	Remarks       []Remark `json:"remarks"`
}

// UserPage is a paginated user directory listing.
type UserPage struct {
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Total int       `json:"total"`
	Users []Profile `json:"users"`
}

// Dashboard keeps the role dashboard verbatim and exposes its top-level
// numeric fields as counters.
type Dashboard struct {
	Raw      json.RawMessage    `json:"-"`
	Counters map[string]float64 `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dashboard) UnmarshalJSON(b []byte) error {
	d.Raw = append(d.Raw[:0], b...)
	d.Counters = map[string]float64{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		// Non-object dashboards are kept raw only.
		return nil
	}
	for k, v := range fields {
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			d.Counters[k] = n
		}
	}
	return nil
}

// MarshalJSON returns the raw payload.
func (d Dashboard) MarshalJSON() ([]byte, error) {
	if len(d.Raw) == 0 {
		return []byte("null"), nil
	}
	return d.Raw, nil
}
