// Package api owns the external response contract: the uniform
// {message, ...fields} JSON envelope, the HTTP status code for every
// outcome, and the error taxonomy the service layer reports in. It knows
// nothing about persistence.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Fields are the optional data members merged alongside "message" in the
// response body.
type Fields map[string]any

// Respond writes the envelope. The message is a string for every outcome
// except validation failures, where it is the ordered violation list. This
// function and RespondError are the only places a status code is chosen.
func Respond(w http.ResponseWriter, statusCode int, message any, fields Fields) {
	body := Fields{"message": message}
	for key, value := range fields {
		if key != "message" {
			body[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed to encode response envelope", slog.Any("error", err))
	}
}

// RespondError maps the error taxonomy onto the wire contract:
//
//	ValidationError -> 400 with the ordered violation list
//	ErrNotFound     -> 404
//	ErrDuplicate    -> 409
//	anything else   -> 500 with a generic message, details stay internal
func RespondError(w http.ResponseWriter, err error) {
	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		Respond(w, http.StatusBadRequest, validation.Violations, nil)
	case errors.Is(err, ErrNotFound):
		Respond(w, http.StatusNotFound, RecordNotFoundMessage, nil)
	case errors.Is(err, ErrDuplicate):
		Respond(w, http.StatusConflict, DuplicateMessage, nil)
	default:
		Respond(w, http.StatusInternalServerError, ServerErrorMessage, nil)
	}
}

// InvalidRoute is the catch-all handler for unmapped paths and methods.
func InvalidRoute(w http.ResponseWriter, _ *http.Request) {
	Respond(w, http.StatusNotFound, InvalidRouteMessage, nil)
}
