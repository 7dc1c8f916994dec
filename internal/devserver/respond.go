package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// envelope is the response shape of every API endpoint.
type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeOK wraps data in a success envelope.
func writeOK(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, envelope{Success: true, Message: message, StatusCode: statusCode, Data: data})
}

// writeFail writes a failure envelope.
func writeFail(w http.ResponseWriter, statusCode int, message string) {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	writeJSON(w, statusCode, envelope{Success: false, Message: message, StatusCode: statusCode})
}

// writeError maps store and token errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeFail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		writeFail(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrCredentials):
		writeFail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		writeFail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrNotEditable), errors.Is(err, ErrReasonNeeded):
		writeFail(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		writeFail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(ErrInvalid, "malformed JSON body")
	}
	return nil
}
