package api

import (
	"net/http"
)

type HealthResponse struct {
	Status          string `json:"status"`
	BrowserRenderer bool   `json:"browserRenderer"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	browserAvailable := h.htmlRenderer != nil && h.htmlRenderer.Available(r.Context())

	respondJSON(w, r, http.StatusOK, &Envelope{
		Success: true,
		Message: "service is up",
		Data: &HealthResponse{
			Status:          "ok",
			BrowserRenderer: browserAvailable,
		},
	})
}
