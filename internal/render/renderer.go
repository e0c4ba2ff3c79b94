// Package render serializes intermediate documents to their target format.
// PDF output runs through a priority-ordered chain of backends, from the
// headless browser down to a hand-rolled byte-stream writer, so a render
// request degrades instead of failing when the preferred engines are
// unavailable.
package render

import (
	"context"
	"regexp"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/bornholm/transmute/internal/core/port"
	"github.com/pkg/errors"
)

type Options struct {
	HTMLRenderer port.HTMLRenderer
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// WithHTMLRenderer enables the external headless-browser tier for PDF
// output.
func WithHTMLRenderer(renderer port.HTMLRenderer) OptionFunc {
	return func(opts *Options) {
		opts.HTMLRenderer = renderer
	}
}

type Renderer struct {
	html port.HTMLRenderer
}

// Render implements port.RenderBackend.
func (r *Renderer) Render(ctx context.Context, doc *model.Intermediate, target model.Format) ([]byte, string, error) {
	switch target {
	case model.FormatPDF:
		return r.renderPDF(ctx, doc)
	case model.FormatDocx:
		return renderDocx(doc)
	case model.FormatXlsx:
		return renderXlsx(doc)
	case model.FormatCSV:
		return renderCSV(doc)
	case model.FormatTxt:
		return []byte(plainText(doc)), "text", nil
	case model.FormatPNG, model.FormatJPG:
		return renderImage(doc, target)
	default:
		return nil, "", errors.Wrapf(port.ErrConversionFailed, "no backend for target '%s'", target)
	}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// plainText returns the best text-only rendition of the intermediate,
// stripping markup when plain text was never extracted separately.
func plainText(doc *model.Intermediate) string {
	if strings.TrimSpace(doc.Text) != "" {
		return doc.Text
	}

	if doc.HTML != "" {
		return strings.TrimSpace(tagPattern.ReplaceAllString(doc.HTML, " "))
	}

	return doc.Text
}

func NewRenderer(funcs ...OptionFunc) *Renderer {
	opts := NewOptions(funcs...)

	return &Renderer{
		html: opts.HTMLRenderer,
	}
}

var _ port.RenderBackend = &Renderer{}
