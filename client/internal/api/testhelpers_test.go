package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// errRT is an http.RoundTripper that always returns an error (simulates network failure).
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, fmt.Errorf("boom") }

// writeEnvelope writes a success envelope around data.
func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    status < 400,
		"message":    "ok",
		"statusCode": status,
		"data":       data,
	})
}

// writeFailure writes a failure envelope with msg.
func writeFailure(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    false,
		"message":    msg,
		"statusCode": status,
	})
}
