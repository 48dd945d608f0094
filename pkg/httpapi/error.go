// Package httpapi holds the JSON error contract shared by the reference-data API and the
// gateway that decodes it.
//
// Every non-2xx body is an ErrorEnvelope. Codes in use: NOT_FOUND (404), INVALID_BODY (400),
// CONFLICT (409, duplicate short code or name), VALIDATION_FAILED (422, one meta entry per
// field), METHOD_NOT_ALLOWED (405) and INTERNAL_SERVER_ERROR (500). Meta also carries the
// request_id when one is known.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/iota-uz/hradmin/pkg/serrors"
)

type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// WriteJSON encodes payload with status. A nil payload writes headers only, as for 204.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteValidationError answers 422 keyed by field. The gateway keeps the envelope on
// gateway.Error so callers can read the per-field messages.
func WriteValidationError(w http.ResponseWriter, code string, errs serrors.ValidationErrors) error {
	meta := make(map[string]string, len(errs))
	for field, msg := range errs {
		meta[field] = msg
	}
	return WriteError(w, http.StatusUnprocessableEntity, code, errs.Error(), meta)
}
