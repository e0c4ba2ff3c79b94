package model

// Format identifies the true on-disk format of a file, independently of its
// declared extension or MIME type.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDocx    Format = "docx"
	FormatXlsx    Format = "xlsx"
	FormatPNG     Format = "png"
	FormatJPG     Format = "jpg"
	FormatTxt     Format = "txt"
	FormatCSV     Format = "csv"
	FormatUnknown Format = "unknown"
)

func (f Format) String() string {
	return string(f)
}

// IsImage reports whether the format is a raster image.
func (f Format) IsImage() bool {
	return f == FormatPNG || f == FormatJPG
}

// Extension returns the canonical file extension for the format, without the
// leading dot.
func (f Format) Extension() string {
	return string(f)
}

// TargetFormats is the set of formats a caller may request as conversion
// output.
var TargetFormats = []Format{
	FormatPDF,
	FormatDocx,
	FormatXlsx,
	FormatPNG,
	FormatJPG,
	FormatTxt,
	FormatCSV,
}

// ParseTargetFormat maps a raw form value to a target format.
func ParseTargetFormat(raw string) (Format, bool) {
	for _, f := range TargetFormats {
		if string(f) == raw {
			return f, true
		}
	}

	return FormatUnknown, false
}

// capabilities is the single source of truth for which conversions the
// pipeline supports. Pairs absent from this table are intentional scope
// limits, not omissions. The mapping is directional: docx supports pdf but
// pdf also lists docx on its own terms.
var capabilities = map[Format][]Format{
	FormatDocx: {FormatPDF, FormatTxt},
	FormatPDF:  {FormatDocx, FormatTxt, FormatPNG, FormatJPG},
	FormatXlsx: {FormatPDF, FormatCSV, FormatTxt},
	FormatPNG:  {FormatPDF, FormatJPG, FormatTxt},
	FormatJPG:  {FormatPDF, FormatPNG, FormatTxt},
	FormatTxt:  {FormatPDF, FormatDocx, FormatXlsx},
}

// Supports reports whether the source/target pair is present in the
// capability matrix.
func Supports(source, target Format) bool {
	targets, exists := capabilities[source]
	if !exists {
		return false
	}

	for _, t := range targets {
		if t == target {
			return true
		}
	}

	return false
}

// Capabilities returns a copy of the capability matrix.
func Capabilities() map[Format][]Format {
	matrix := make(map[Format][]Format, len(capabilities))
	for source, targets := range capabilities {
		matrix[source] = append([]Format{}, targets...)
	}

	return matrix
}

var mimeTypes = map[Format]string{
	FormatPDF:  "application/pdf",
	FormatDocx: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FormatXlsx: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPNG:  "image/png",
	FormatJPG:  "image/jpeg",
	FormatTxt:  "text/plain",
	FormatCSV:  "text/csv",
}

// MimeType returns the transport MIME type associated with a format.
func MimeType(f Format) string {
	if mime, exists := mimeTypes[f]; exists {
		return mime
	}

	return "application/octet-stream"
}
