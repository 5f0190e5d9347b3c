// Package responder renders the JSON envelope used by every HTTP handler.
//
// Successful responses carry the payload under "data"; failures carry an
// "error" object with a stable machine-readable code, a human message, and
// optional per-field details for validation failures.
package responder

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dukaanhq/dukaan/pkg/binder"
)

// Envelope is the top-level JSON response shape.
type Envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// JSON writes v under the "data" key with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	write(w, status, Envelope{Data: v})
}

// Error writes an error envelope with the given status, code, and message.
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{Error: &ErrorDetail{Code: code, Message: message}})
}

// BindError maps a binder failure to the appropriate HTTP response:
// 415 for wrong media type, 422 with field details for validation
// failures, 400 for everything else.
func BindError(w http.ResponseWriter, err error) {
	var valErr binder.ValidationError
	switch {
	case errors.As(err, &valErr):
		write(w, http.StatusUnprocessableEntity, Envelope{Error: &ErrorDetail{
			Code:    "validation_error",
			Message: "request validation failed",
			Details: valErr.Fields,
		}})
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		Error(w, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
	default:
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())
	}
}

func write(w http.ResponseWriter, status int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope)
}
