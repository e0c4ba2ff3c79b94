// Package api exposes the conversion pipeline over a JSON HTTP API.
package api

import (
	"net/http"

	"github.com/bornholm/transmute/internal/core/port"
	"github.com/bornholm/transmute/internal/core/service"
	"github.com/bornholm/transmute/internal/http/middleware/authz"
)

type Handler struct {
	conversionManager *service.ConversionManager
	htmlRenderer      port.HTMLRenderer
	mux               *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(conversionManager *service.ConversionManager, htmlRenderer port.HTMLRenderer) *Handler {
	h := &Handler{
		conversionManager: conversionManager,
		htmlRenderer:      htmlRenderer,
		mux:               &http.ServeMux{},
	}

	assertReader := authz.Middleware(nil, authz.Has(authz.RoleReader))
	assertWriter := authz.Middleware(nil, authz.Has(authz.RoleWriter))

	h.mux.Handle("POST /convert", assertWriter(http.HandlerFunc(h.handleConvert)))
	h.mux.Handle("POST /render", assertWriter(http.HandlerFunc(h.handleRender)))
	h.mux.Handle("GET /formats", assertReader(http.HandlerFunc(h.handleFormats)))
	h.mux.Handle("GET /health", http.HandlerFunc(h.handleHealth))

	return h
}

var _ http.Handler = &Handler{}
