package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"html"
	"log/slog"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/bornholm/transmute/internal/core/port"
	"github.com/bornholm/transmute/internal/render/rawpdf"
	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

// Backend identifiers reported in render results.
const (
	BackendChromium = "chromium"
	BackendGofpdf   = "gofpdf"
	BackendRawPDF   = "rawpdf"
	BackendVerbatim = "verbatim"
)

var defaultPrintOptions = port.PrintOptions{
	Format:          "A4",
	PrintBackground: true,
	Margins: port.PrintMargins{
		Top:    "20mm",
		Right:  "20mm",
		Bottom: "20mm",
		Left:   "20mm",
	},
}

type pdfTier struct {
	name string
	fn   func() ([]byte, error)
}

// renderPDF walks the backend chain: headless browser when configured and
// reachable, then the PDF library, then the raw byte-stream writer. The
// verbatim tier cannot fail, so a PDF render always produces output; it just
// stops being a real PDF at the very bottom.
func (r *Renderer) renderPDF(ctx context.Context, doc *model.Intermediate) ([]byte, string, error) {
	tiers := make([]pdfTier, 0, 4)

	if r.html != nil && r.html.Available(ctx) {
		tiers = append(tiers, pdfTier{name: BackendChromium, fn: func() ([]byte, error) {
			return r.html.RenderPDF(ctx, printableHTML(doc), defaultPrintOptions)
		}})
	}

	tiers = append(tiers,
		pdfTier{name: BackendGofpdf, fn: func() ([]byte, error) {
			return gofpdfRender(doc)
		}},
		pdfTier{name: BackendRawPDF, fn: func() ([]byte, error) {
			return rawpdf.Write(plainText(doc)), nil
		}},
		pdfTier{name: BackendVerbatim, fn: func() ([]byte, error) {
			return []byte(plainText(doc)), nil
		}},
	)

	for _, tier := range tiers {
		data, err := tier.fn()
		if err != nil {
			slog.WarnContext(ctx, "pdf backend failed, trying next tier",
				slog.String("backend", tier.name),
				slog.Any("error", errors.WithStack(err)),
			)
			continue
		}

		return data, tier.name, nil
	}

	return nil, "", errors.WithStack(port.ErrConversionFailed)
}

// printableHTML picks or builds the HTML the browser tier will print.
func printableHTML(doc *model.Intermediate) string {
	switch {
	case doc.IsRich():
		return doc.HTML
	case doc.IsTabular():
		return tableHTML(doc.Sheets)
	case len(doc.Binary) > 0:
		return imageHTML(doc.Binary)
	default:
		return textHTML(doc.Text)
	}
}

func tableHTML(sheets []model.Sheet) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>`)
	b.WriteString(`table { border-collapse: collapse; width: 100%; margin: 20px 0; }`)
	b.WriteString(`th, td { border: 1px solid #333; padding: 8px; text-align: left; }`)
	b.WriteString(`body { font-family: Arial, sans-serif; margin: 20px; }`)
	b.WriteString(`</style></head><body>`)

	for _, sheet := range sheets {
		b.WriteString(`<h2>`)
		b.WriteString(html.EscapeString(sheet.Name))
		b.WriteString(`</h2><table>`)
		for _, row := range sheet.Rows {
			b.WriteString(`<tr>`)
			for _, cell := range row {
				b.WriteString(`<td>`)
				b.WriteString(html.EscapeString(cell))
				b.WriteString(`</td>`)
			}
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</table>`)
	}

	b.WriteString(`</body></html>`)

	return b.String()
}

func imageHTML(data []byte) string {
	mime := "image/png"
	if bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}) {
		mime = "image/jpeg"
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>`)
	b.WriteString(`body { margin: 0; padding: 20px; text-align: center; }`)
	b.WriteString(`img { max-width: 100%; height: auto; }`)
	b.WriteString(`</style></head><body><img src="data:`)
	b.WriteString(mime)
	b.WriteString(`;base64,`)
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	b.WriteString(`" alt="converted image"></body></html>`)

	return b.String()
}

func textHTML(text string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>`)
	b.WriteString(`body { font-family: Arial, sans-serif; font-size: 12pt; line-height: 1.5; margin: 2cm; }`)
	b.WriteString(`</style></head><body>`)
	b.WriteString(strings.ReplaceAll(html.EscapeString(text), "\n", "<br/>"))
	b.WriteString(`</body></html>`)

	return b.String()
}

// gofpdfRender is the in-process library tier: embedded images for raster
// sources, wrapped text for everything else.
func gofpdfRender(doc *model.Intermediate) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("recovered: %v", r)
		}
	}()

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	if len(doc.Binary) > 0 {
		if err := embedImage(pdf, doc.Binary); err != nil {
			return nil, errors.WithStack(err)
		}
	} else {
		translate := pdf.UnicodeTranslatorFromDescriptor("")
		for _, line := range strings.Split(plainText(doc), "\n") {
			pdf.MultiCell(0, 15, translate(line), "", "L", false)
		}
	}

	if pdf.Err() {
		return nil, errors.WithStack(pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.WithStack(err)
	}

	return buf.Bytes(), nil
}

func embedImage(pdf *gofpdf.Fpdf, data []byte) error {
	imageType := "PNG"
	if bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}) {
		imageType = "JPEG"
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}

	info := pdf.RegisterImageOptionsReader("source", opts, bytes.NewReader(data))
	if pdf.Err() {
		return errors.WithStack(pdf.Error())
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	printable := pageWidth - left - right

	width := info.Width()
	if width > printable {
		width = printable
	}

	pdf.ImageOptions("source", left, pdf.GetY(), width, 0, false, opts, 0, "")

	return nil
}
