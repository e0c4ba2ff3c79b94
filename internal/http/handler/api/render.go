package api

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bornholm/transmute/internal/core/port"
	"github.com/bornholm/transmute/internal/metrics"
	"github.com/pkg/errors"
)

type RenderRequest struct {
	HTML     string         `json:"html"`
	FileName string         `json:"fileName"`
	Options  *RenderOptions `json:"options"`
}

type RenderOptions struct {
	Format            string        `json:"format"`
	PrintBackground   *bool         `json:"printBackground"`
	PreferCSSPageSize bool          `json:"preferCSSPageSize"`
	HeaderTemplate    string        `json:"headerTemplate"`
	FooterTemplate    string        `json:"footerTemplate"`
	Margin            *RenderMargin `json:"margin"`
}

type RenderMargin struct {
	Top    string `json:"top"`
	Right  string `json:"right"`
	Bottom string `json:"bottom"`
	Left   string `json:"left"`
}

type RenderedDocument struct {
	Content     string `json:"content"`
	FileName    string `json:"fileName"`
	Size        int    `json:"size"`
	GeneratedAt string `json:"generatedAt"`
	Method      string `json:"method"`
}

// handleRender prints caller-provided HTML straight to PDF through the
// headless browser, without going through format sniffing or extraction.
func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.ErrorContext(ctx, "could not decode render request", slog.Any("error", errors.WithStack(err)))
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !strings.Contains(strings.ToLower(req.HTML), "<html") {
		respondError(w, r, http.StatusBadRequest, "the 'html' field must contain an HTML document")
		return
	}

	if h.htmlRenderer == nil || !h.htmlRenderer.Available(ctx) {
		metrics.TotalRenderRequests.WithLabelValues(metrics.StatusFailure).Add(1)
		respondError(w, r, http.StatusServiceUnavailable, "no browser renderer available")
		return
	}

	data, err := h.htmlRenderer.RenderPDF(ctx, req.HTML, printOptions(req.Options))
	if err != nil {
		metrics.TotalRenderRequests.WithLabelValues(metrics.StatusFailure).Add(1)
		slog.ErrorContext(ctx, "could not render html", slog.Any("error", errors.WithStack(err)))
		respondError(w, r, http.StatusBadRequest, "render failed")
		return
	}

	metrics.TotalRenderRequests.WithLabelValues(metrics.StatusSuccess).Add(1)

	fileName := req.FileName
	if fileName == "" {
		fileName = "document.pdf"
	}

	respondJSON(w, r, http.StatusOK, &Envelope{
		Success: true,
		Message: "render completed",
		Data: &RenderedDocument{
			Content:     base64.StdEncoding.EncodeToString(data),
			FileName:    fileName,
			Size:        len(data),
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Method:      "chromium",
		},
	})
}

func printOptions(opts *RenderOptions) port.PrintOptions {
	printOpts := port.PrintOptions{
		Format:          "A4",
		PrintBackground: true,
		Margins: port.PrintMargins{
			Top:    "20mm",
			Right:  "20mm",
			Bottom: "20mm",
			Left:   "20mm",
		},
	}

	if opts == nil {
		return printOpts
	}

	if opts.Format != "" {
		printOpts.Format = opts.Format
	}

	if opts.PrintBackground != nil {
		printOpts.PrintBackground = *opts.PrintBackground
	}

	printOpts.PreferCSSPageSize = opts.PreferCSSPageSize
	printOpts.HeaderTemplate = opts.HeaderTemplate
	printOpts.FooterTemplate = opts.FooterTemplate

	if m := opts.Margin; m != nil {
		if m.Top != "" {
			printOpts.Margins.Top = m.Top
		}
		if m.Right != "" {
			printOpts.Margins.Right = m.Right
		}
		if m.Bottom != "" {
			printOpts.Margins.Bottom = m.Bottom
		}
		if m.Left != "" {
			printOpts.Margins.Left = m.Left
		}
	}

	return printOpts
}
