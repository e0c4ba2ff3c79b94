package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"
)

// Envelope is the fixed response shape of every API endpoint. The wire field
// names are kept for compatibility with existing clients of the service this
// one replaces.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, envelope *Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")

	if err := encoder.Encode(envelope); err != nil {
		slog.ErrorContext(r.Context(), "could not encode response", slog.Any("error", errors.WithStack(err)))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, &Envelope{
		Success: false,
		Message: message,
		Data:    nil,
	})
}
