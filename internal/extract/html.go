package extract

import (
	"encoding/base64"
	"html"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
)

const documentHTMLHeader = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            margin: 40px;
            max-width: 100%;
        }
        .image {
            text-align: center;
            margin: 20px 0;
            page-break-inside: avoid;
        }
        .image img {
            max-width: 100%;
            height: auto;
            border: 1px solid #ddd;
        }
        .text {
            text-align: justify;
            margin: 20px 0;
        }
        h1, h2, h3 {
            color: #333;
            page-break-after: avoid;
        }
        @media print {
            body { margin: 20px; }
            .image { page-break-inside: avoid; }
        }
    </style>
</head>
<body>`

// documentHTML wraps extracted text and media in a self-contained document:
// images are inlined as base64 data URIs so the renderer needs no side
// files.
func documentHTML(text string, images []model.EmbeddedImage) string {
	var b strings.Builder
	b.WriteString(documentHTMLHeader)

	hasText := strings.TrimSpace(text) != ""

	if !hasText && len(images) > 0 {
		b.WriteString(`<h1>Converted Document</h1>`)
		b.WriteString(`<p class="text">Original document with visual content</p>`)
	}

	if hasText {
		b.WriteString(`<div class="text">`)
		b.WriteString(paragraphize(text))
		b.WriteString(`</div>`)
	}

	for _, img := range images {
		b.WriteString(`<div class="image"><img src="data:`)
		b.WriteString(img.MimeType)
		b.WriteString(`;base64,`)
		b.WriteString(base64.StdEncoding.EncodeToString(img.Data))
		b.WriteString(`" alt="`)
		b.WriteString(html.EscapeString(img.Name))
		b.WriteString(`" /></div>`)
	}

	if !hasText && len(images) == 0 {
		b.WriteString(`<div class="text">`)
		b.WriteString(`<p>Word document processed</p>`)
		b.WriteString(`<p>The original document contained no recognizable text or images.</p>`)
		b.WriteString(`</div>`)
	}

	b.WriteString(`</body></html>`)

	return b.String()
}

func paragraphize(text string) string {
	escaped := html.EscapeString(text)
	return strings.ReplaceAll(escaped, "\n", "<br/>")
}
