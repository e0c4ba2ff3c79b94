package api

import (
	"net/http"
	"slices"

	"github.com/bornholm/transmute/internal/core/model"
)

type FormatsResponse struct {
	Conversions map[string][]string `json:"conversions"`
}

func (h *Handler) handleFormats(w http.ResponseWriter, r *http.Request) {
	conversions := map[string][]string{}
	for source, targets := range model.Capabilities() {
		names := make([]string, 0, len(targets))
		for _, t := range targets {
			names = append(names, string(t))
		}

		slices.Sort(names)

		conversions[string(source)] = names
	}

	respondJSON(w, r, http.StatusOK, &Envelope{
		Success: true,
		Message: "supported conversions",
		Data: &FormatsResponse{
			Conversions: conversions,
		},
	})
}
