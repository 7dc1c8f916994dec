package client

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// requestIDTransport stamps every request with an X-Request-ID so backend
// logs can be correlated with client debug output.
type requestIDTransport struct {
	base http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("X-Request-ID") != "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("X-Request-ID", uuid.NewString())
	return t.base.RoundTrip(cloned)
}

// rateLimitTransport blocks until the limiter admits the request or the
// request context ends.
type rateLimitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// bearerTransport adds the session's access token when the backend handed
// one out. Cookie-only sessions send no Authorization header.
type bearerTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok := t.token()
	if tok == "" || req.Header.Get("Authorization") != "" {
		return t.base.RoundTrip(req)
	}
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+tok)
	return t.base.RoundTrip(cloned)
}
