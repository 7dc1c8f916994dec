package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
)

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// envelope mirrors types.Envelope but keeps Success optional so that a
// payload without the flag is not mistaken for a failure.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func endpoint(baseURL string, segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, strings.TrimRight(baseURL, "/"))
	for _, s := range segments {
		parts = append(parts, strings.Trim(s, "/"))
	}
	return strings.Join(parts, "/")
}

func withQuery(raw string, q url.Values) string {
	if len(q) == 0 {
		return raw
	}
	return raw + "?" + q.Encode()
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

func newJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}

// send executes httpReq and unwraps the response envelope. The returned
// message is the server's human-readable message on success.
func send(httpClient HTTPClient, httpReq *http.Request, op string) (json.RawMessage, string, error) {
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, "", cerr.NewNetworkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "", cerr.NewHTTPError(resp.StatusCode, string(b), op)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, "", nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if err == io.EOF {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	if env.Success != nil && !*env.Success {
		return nil, "", cerr.NewEnvelopeError(resp.StatusCode, env.Message, op)
	}
	return env.Data, env.Message, nil
}

// sendInto executes httpReq and decodes the envelope data into out.
func sendInto(httpClient HTTPClient, httpReq *http.Request, op string, out any) error {
	data, _, err := send(httpClient, httpReq, op)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", op, err)
	}
	return nil
}
