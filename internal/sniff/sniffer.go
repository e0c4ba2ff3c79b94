// Package sniff resolves the true format of uploaded files. Declared
// extensions are fast and usually right, MIME types catch renamed files and
// the binary signature is the authoritative but most expensive check, so the
// three run in that order.
package sniff

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/bornholm/transmute/internal/core/port"
	"github.com/gabriel-vasile/mimetype"
)

var extensions = map[string]model.Format{
	".docx": model.FormatDocx,
	".doc":  model.FormatDocx,
	".pdf":  model.FormatPDF,
	".xlsx": model.FormatXlsx,
	".xls":  model.FormatXlsx,
	".png":  model.FormatPNG,
	".jpg":  model.FormatJPG,
	".jpeg": model.FormatJPG,
	".txt":  model.FormatTxt,
	".csv":  model.FormatCSV,
}

var mimeFormats = map[string]model.Format{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": model.FormatDocx,
	"application/msword": model.FormatDocx,
	"application/pdf":    model.FormatPDF,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": model.FormatXlsx,
	"application/vnd.ms-excel": model.FormatXlsx,
	"image/png":                model.FormatPNG,
	"image/jpeg":               model.FormatJPG,
	"text/plain":               model.FormatTxt,
	"text/csv":                 model.FormatCSV,
}

type Sniffer struct {
}

// Sniff implements port.FormatSniffer.
//
// A .txt or .csv extension is only a weak claim: text is also the sniffing
// default, so a confident binary signature in the payload still wins over it.
// Extensions naming a binary format are trusted as-is.
func (s *Sniffer) Sniff(filename string, declaredMimeType string, data []byte) model.Format {
	weak := model.FormatUnknown

	ext := strings.ToLower(filepath.Ext(filename))
	if format, exists := extensions[ext]; exists {
		if format != model.FormatTxt && format != model.FormatCSV {
			return format
		}

		weak = format
	}

	if format, resolved := sniffMimeType(declaredMimeType, data); resolved {
		if weak == model.FormatUnknown || isBinary(format) {
			return format
		}
	}

	if format, resolved := sniffSignature(data); resolved {
		return format
	}

	if weak != model.FormatUnknown {
		return weak
	}

	return model.FormatTxt
}

func sniffMimeType(declared string, data []byte) (model.Format, bool) {
	if declared != "" {
		mime, _, _ := strings.Cut(declared, ";")
		if format, exists := mimeFormats[strings.TrimSpace(mime)]; exists {
			return format, true
		}
	}

	detected := mimetype.Detect(data)
	for mime, format := range mimeFormats {
		if detected.Is(mime) {
			return format, true
		}
	}

	return model.FormatUnknown, false
}

func sniffSignature(data []byte) (model.Format, bool) {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return model.FormatPDF, true

	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return sniffArchive(data), true

	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return model.FormatPNG, true

	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return model.FormatJPG, true
	}

	return model.FormatUnknown, false
}

// sniffArchive distinguishes Office packages from plain ZIP payloads. A ZIP
// that cannot be opened, or that carries neither marker entry, counts as an
// unidentified binary and falls back to text.
func sniffArchive(data []byte) model.Format {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return model.FormatTxt
	}

	for _, f := range archive.File {
		switch f.Name {
		case "word/document.xml":
			return model.FormatDocx
		case "xl/workbook.xml":
			return model.FormatXlsx
		}
	}

	return model.FormatTxt
}

func isBinary(f model.Format) bool {
	return f != model.FormatTxt && f != model.FormatCSV && f != model.FormatUnknown
}

func NewSniffer() *Sniffer {
	return &Sniffer{}
}

var _ port.FormatSniffer = &Sniffer{}
