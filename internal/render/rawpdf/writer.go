// Package rawpdf writes a minimal, dependency-free PDF 1.4 byte stream:
// one Helvetica page tree with a hand-built content stream and cross
// reference table. It is the last render tier before giving up, so the
// only goal is a spec-valid file any PDF reader can open.
package rawpdf

import (
	"fmt"
	"strings"
)

const (
	pageWidth  = 612
	pageHeight = 792

	textOriginX = 50
	textOriginY = 750
	lineHeight  = 15
	bottomLimit = 50

	maxLineLength = 80
)

// Write renders plain text as a single-font PDF 1.4 document. Input is
// normalized, wrapped at 80 columns and escaped for PDF string literals; the
// result always parses, whatever the text contains.
func Write(text string) []byte {
	lines := prepareLines(text)
	stream := contentStream(lines)

	var b strings.Builder
	offsets := make([]int, 0, 5)

	b.WriteString("%PDF-1.4\n")

	appendObject := func(body string) {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	appendObject("<<\n/Type /Catalog\n/Pages 2 0 R\n>>")
	appendObject("<<\n/Type /Pages\n/Kids [3 0 R]\n/Count 1\n>>")
	appendObject(fmt.Sprintf("<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 %d %d]\n/Contents 4 0 R\n/Resources <<\n/Font <<\n/F1 5 0 R\n>>\n>>\n>>", pageWidth, pageHeight))
	appendObject(fmt.Sprintf("<<\n/Length %d\n>>\nstream\n%s\nendstream", len(stream), stream))
	appendObject("<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>")

	xrefStart := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", offset)
	}

	fmt.Fprintf(&b, "trailer\n<<\n/Size %d\n/Root 1 0 R\n>>\nstartxref\n%d\n%%%%EOF", len(offsets)+1, xrefStart)

	return []byte(b.String())
}

// prepareLines normalizes line endings, drops blank lines and hard-wraps at
// 80 columns.
func prepareLines(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for len(line) > maxLineLength {
			lines = append(lines, line[:maxLineLength])
			line = line[maxLineLength:]
		}
		lines = append(lines, line)
	}

	return lines
}

// contentStream emits the text operators for the page. The Y cursor starts
// at the top margin and steps down one line height per line; when it drops
// below the bottom limit the block restarts from the top inside a fresh BT
// so content keeps overprinting instead of vanishing off-page.
func contentStream(lines []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "BT\n/F1 12 Tf\n%d %d Td\n", textOriginX, textOriginY)

	y := textOriginY
	for _, line := range lines {
		if y < bottomLimit {
			fmt.Fprintf(&b, "ET\nBT\n/F1 12 Tf\n%d %d Td\n", textOriginX, textOriginY)
			y = textOriginY
		}

		fmt.Fprintf(&b, "(%s) Tj\n0 -%d Td\n", escapeText(line), lineHeight)
		y -= lineHeight
	}

	b.WriteString("ET")

	return b.String()
}

// escapeText protects the three characters with special meaning inside PDF
// string literals.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `(`, `\(`)
	text = strings.ReplaceAll(text, `)`, `\)`)
	return text
}
