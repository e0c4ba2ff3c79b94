package port

import (
	"context"

	"github.com/bornholm/transmute/internal/core/model"
)

// FormatSniffer resolves a file's true format from its name, declared MIME
// type and leading bytes. Sniffing never fails: unresolvable inputs come
// back as plain text.
type FormatSniffer interface {
	Sniff(filename string, declaredMimeType string, data []byte) model.Format
}

// ContentExtractor pulls a normalized intermediate representation out of a
// source file. Extraction never fails either: every internal error degrades
// to a simpler strategy or a documented placeholder.
type ContentExtractor interface {
	Extract(ctx context.Context, source model.Format, data []byte) *model.Intermediate
}

// RenderBackend serializes an intermediate representation to the target
// format. The returned identifier names the tier that produced the bytes.
type RenderBackend interface {
	Render(ctx context.Context, doc *model.Intermediate, target model.Format) ([]byte, string, error)
}
