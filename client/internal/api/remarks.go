package api

import (
	"context"
	"net/http"
	"net/url"

	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// ListRemarks returns the remark history of a complaint. complaintNo and
// status are optional query filters.
func ListRemarks(ctx context.Context, httpClient HTTPClient, baseURL, remarkBase string, q types.RemarkQuery) (*types.RemarkList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.ComplaintID == "" {
		return nil, cerr.NewValidationError("complaintId", "complaintId is required to fetch remarks")
	}
	params := url.Values{}
	setString(params, "complaintNo", q.ComplaintNo)
	setString(params, "status", string(q.Status))
	httpReq, err := newJSONRequest(ctx, http.MethodGet, withQuery(endpoint(baseURL, remarkBase, url.PathEscape(q.ComplaintID)), params), nil)
	if err != nil {
		return nil, err
	}
	var out types.RemarkList
	if err := sendInto(httpClient, httpReq, "list remarks", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
