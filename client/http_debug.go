package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport logs full HTTP requests and responses.
//
// Enable it with COMPLAINTDESK_DEBUG=true or DEBUG=true, or with
// WithDebugLogging. Dumps include request bodies, so login passwords and
// session cookies end up in the log; keep it out of production.
//
// Example usage:
//
//	export COMPLAINTDESK_DEBUG=true
//	complaintctl customer complaints list  # logs all HTTP traffic
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_id", req.Header.Get("X-Request-ID")).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether COMPLAINTDESK_DEBUG or DEBUG is
// set to "true" (case-sensitive).
func debugLoggingRequested() bool {
	return os.Getenv("COMPLAINTDESK_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
