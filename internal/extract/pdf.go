package extract

import (
	"bytes"
	"context"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

const pdfPlaceholder = "PDF content\n\n" +
	"The text layer of this document could not be extracted. The file was processed and is available for download."

// extractPDF delegates to the PDF library; anything it cannot parse degrades
// to the fixed placeholder. Quality of PDF text extraction is explicitly
// best-effort.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) *model.Intermediate {
	text := e.runLadder(ctx, model.FormatPDF, []attempt{
		{name: "pdf-library", fn: func() (string, error) {
			return pdfText(data)
		}},
	}, pdfPlaceholder)

	return &model.Intermediate{Text: text}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.WithStack(err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errors.WithStack(err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", errors.WithStack(err)
	}

	return buf.String(), nil
}
