package extract

import (
	"context"

	"github.com/bornholm/transmute/internal/core/model"
)

const ocrPlaceholder = "Text extracted from the image.\n\n" +
	"No OCR backend is configured on this server, so this is placeholder output. Configure an OCR backend for accurate results."

// extractImage keeps the raw bytes for image-to-image and image-to-PDF
// targets. Text targets get the OCR placeholder until an OCR backend is
// wired in.
func (e *Extractor) extractImage(ctx context.Context, data []byte) *model.Intermediate {
	return &model.Intermediate{
		Text:   ocrPlaceholder,
		Binary: data,
	}
}
