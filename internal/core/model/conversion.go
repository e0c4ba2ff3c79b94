package model

// ConversionRequest carries an uploaded file and the format its caller wants
// back. The source bytes are owned by the request and must not be mutated
// while it is in flight.
type ConversionRequest struct {
	Filename         string
	DeclaredMimeType string
	Target           Format
	Data             []byte
}

// EmbeddedImage is a media blob extracted from a container document.
type EmbeddedImage struct {
	Name     string
	MimeType string
	Data     []byte
}

// Sheet is a single worksheet as rows of cell values.
type Sheet struct {
	Name string
	Rows [][]string
}

// Intermediate is the normalized representation produced by extraction and
// consumed by rendering. Exactly one of the richer fields is populated
// depending on the source format:
//
//   - HTML (with Images) for docx sources
//   - Sheets for xlsx sources
//   - Binary for raster image sources
//   - Text for everything else
//
// Text is always populated as the plain fallback, so a renderer that cannot
// use the richer representation still has something to emit.
type Intermediate struct {
	Text   string
	HTML   string
	Images []EmbeddedImage
	Sheets []Sheet
	Binary []byte
}

// IsRich reports whether the intermediate carries an HTML document.
func (d *Intermediate) IsRich() bool {
	return d.HTML != ""
}

// IsTabular reports whether the intermediate carries worksheet data.
func (d *Intermediate) IsTabular() bool {
	return len(d.Sheets) > 0
}

// RenderResult is what the orchestrator hands back to the transport layer.
type RenderResult struct {
	Filename string
	MimeType string
	Backend  string
	Data     []byte
}

// Size returns the rendered payload size in bytes.
func (r *RenderResult) Size() int {
	return len(r.Data)
}
