package gateway

import (
	"fmt"
	"net/http"

	"github.com/iota-uz/hradmin/pkg/httpapi"
	"github.com/iota-uz/hradmin/pkg/serrors"
)

var (
	ErrNotFound   = serrors.NewError("GATEWAY_NOT_FOUND", "resource not found", "Errors.NotFound")
	ErrValidation = serrors.NewError("GATEWAY_VALIDATION", "server rejected the request", "Errors.Validation")
	ErrNetwork    = serrors.NewError("GATEWAY_NETWORK", "network error", "Errors.Network")
	ErrServer     = serrors.NewError("GATEWAY_SERVER", "unexpected server response", "Errors.Server")
)

// Error describes one failed gateway call.
type Error struct {
	Op       string
	Resource string
	Status   int
	// Envelope is the decoded error body, when the server sent one.
	Envelope *httpapi.ErrorEnvelope
	Kind     *serrors.BaseError
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.Message
	if e.Envelope != nil && e.Envelope.Message != "" {
		msg = e.Envelope.Message
		if e.Envelope.Code != "" {
			msg = fmt.Sprintf("%s (%s)", msg, e.Envelope.Code)
		}
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status=%d: %s", e.Resource, e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Resource, e.Op, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// kindForStatus classifies a non-2xx response.
func kindForStatus(status int) *serrors.BaseError {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrServer
	}
}
