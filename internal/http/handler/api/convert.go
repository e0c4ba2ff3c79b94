package api

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/bornholm/transmute/internal/core/port"
	"github.com/pkg/errors"
)

// maxMultipartMemory bounds the in-memory part of multipart parsing; larger
// uploads spill to disk before the payload size check runs.
const maxMultipartMemory = 16 << 20

type ConvertedFile struct {
	Content  string `json:"contenido"`
	Filename string `json:"nombre_archivo"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"tamano"`
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		slog.ErrorContext(ctx, "could not parse multipart form", slog.Any("error", errors.WithStack(err)))
		respondError(w, r, http.StatusBadRequest, "could not parse upload")
		return
	}

	file, header, err := r.FormFile("archivo")
	if err != nil {
		slog.ErrorContext(ctx, "missing file field", slog.Any("error", errors.WithStack(err)))
		respondError(w, r, http.StatusBadRequest, "file field 'archivo' is required")
		return
	}

	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.ErrorContext(ctx, "could not read upload", slog.Any("error", errors.WithStack(err)))
		respondError(w, r, http.StatusBadRequest, "could not read upload")
		return
	}

	target, valid := model.ParseTargetFormat(r.FormValue("formato_destino"))
	if !valid {
		respondError(w, r, http.StatusBadRequest, "unknown target format")
		return
	}

	result, err := h.conversionManager.Convert(ctx, &model.ConversionRequest{
		Filename:         header.Filename,
		DeclaredMimeType: header.Header.Get("Content-Type"),
		Target:           target,
		Data:             data,
	})
	if err != nil {
		slog.ErrorContext(ctx, "could not convert document", slog.Any("error", errors.WithStack(err)))
		respondError(w, r, http.StatusBadRequest, convertErrorMessage(err))
		return
	}

	respondJSON(w, r, http.StatusOK, &Envelope{
		Success: true,
		Message: "conversion completed",
		Data: &ConvertedFile{
			Content:  base64.StdEncoding.EncodeToString(result.Data),
			Filename: result.Filename,
			MimeType: result.MimeType,
			Size:     result.Size(),
		},
	})
}

// convertErrorMessage maps pipeline errors to client-facing messages without
// leaking internals.
func convertErrorMessage(err error) string {
	switch {
	case errors.Is(err, port.ErrPayloadTooLarge):
		return "file exceeds the maximum allowed size"
	case errors.Is(err, port.ErrUnsupportedConversion):
		return "this source/target format pair is not supported"
	case errors.Is(err, port.ErrInvalidInput):
		return "invalid conversion request"
	default:
		return "conversion failed"
	}
}
