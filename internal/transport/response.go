package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/record"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeInvalidJSON      = "invalid_json"
	codeInvalidInput     = "invalid_input"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeConflict         = "conflict"
	codeWrongRecordType  = "wrong_record_type"
	codeFollowUpRejected = "follow_up_not_required"
	codeInternal         = "internal"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// mapError translates domain errors to an HTTP status and error code.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, record.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return http.StatusBadRequest, codeInvalidInput
	case errors.Is(err, record.ErrRecordNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, record.ErrConflict):
		return http.StatusConflict, codeConflict
	case errors.Is(err, record.ErrWrongRecordType):
		return http.StatusUnprocessableEntity, codeWrongRecordType
	case errors.Is(err, record.ErrFollowUpNotRequired):
		return http.StatusUnprocessableEntity, codeFollowUpRejected
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
