// This file implements JSON response writing and the mapping from domain
// errors to HTTP status codes.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Yordi314/lanomina/internal/core"
	applog "github.com/Yordi314/lanomina/internal/log"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", applog.FieldComponent, applog.ComponentHTTP, applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), errorBody{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

// statusForError maps domain sentinels to HTTP statuses. Validation
// sentinels become 422, missing entities 404, everything else 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyConcept),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidEnum),
		errors.Is(err, core.ErrInvalidDuration):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
