package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"html"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/pkg/errors"
)

const wordMLNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Document parts scanned for text, in reading order. The main document is
// authoritative; headers, footers and notes only contribute when present.
var wordTextParts = []string{
	"word/document.xml",
	"word/header1.xml",
	"word/footer1.xml",
	"word/footnotes.xml",
	"word/endnotes.xml",
}

const docxPlaceholder = "Word document detected\n\n" +
	"The text could not be extracted automatically. The file was processed and is available for download."

// extractDocx pulls text and embedded media out of an OOXML package and
// wraps both in a self-contained HTML document, so downstream PDF rendering
// keeps the images.
func (e *Extractor) extractDocx(ctx context.Context, data []byte) *model.Intermediate {
	text := e.runLadder(ctx, model.FormatDocx, []attempt{
		{name: "document-xml", fn: func() (string, error) {
			return docxStructuredText(data)
		}},
		{name: "regex-text-runs", fn: func() (string, error) {
			return docxRegexText(data)
		}},
		{name: "tag-interstitial", fn: func() (string, error) {
			return docxInterstitialText(data)
		}},
		{name: "binary-scrape", fn: func() (string, error) {
			return scrapePrintable(data), nil
		}},
	}, docxPlaceholder)

	images := docxImages(data)

	return &model.Intermediate{
		Text:   text,
		HTML:   documentHTML(text, images),
		Images: images,
	}
}

// docxStructuredText opens the package and parses its XML parts with a
// namespace-aware token walk, collecting w:t runs found inside paragraphs
// and tables.
func docxStructuredText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.WithStack(err)
	}

	var parts []string
	for _, name := range wordTextParts {
		raw, err := readArchiveFile(archive, name)
		if err != nil {
			continue
		}

		text, err := wordXMLText(raw)
		if err != nil {
			continue
		}

		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}

func wordXMLText(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.Strict = false

	var texts []string
	blockDepth := 0
	textDepth := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.WithStack(err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if !isWordElement(t.Name) {
				continue
			}
			switch t.Name.Local {
			case "p", "tbl":
				blockDepth++
			case "t":
				if blockDepth > 0 {
					textDepth++
				}
			}
		case xml.EndElement:
			if !isWordElement(t.Name) {
				continue
			}
			switch t.Name.Local {
			case "p", "tbl":
				if blockDepth > 0 {
					blockDepth--
				}
			case "t":
				if textDepth > 0 {
					textDepth--
				}
			}
		case xml.CharData:
			if textDepth > 0 {
				texts = append(texts, string(t))
			}
		}
	}

	return collapseWhitespace(strings.Join(texts, " ")), nil
}

func isWordElement(name xml.Name) bool {
	return name.Space == "" || name.Space == wordMLNamespace
}

var (
	textRunPattern      = regexp.MustCompile(`(?is)<w:t[^>]*>([^<]*)</w:t>`)
	interstitialPattern = regexp.MustCompile(`>([^<]+)<`)
	mediaTargetPattern  = regexp.MustCompile(`Target="media/([^"]+)"`)
)

// docxRegexText matches w:t spans directly on the raw XML, for packages
// whose markup trips the structured parser.
func docxRegexText(data []byte) (string, error) {
	raw, err := rawDocumentXML(data)
	if err != nil {
		return "", err
	}

	matches := textRunPattern.FindAllSubmatch(raw, -1)
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, html.UnescapeString(string(m[1])))
	}

	return collapseWhitespace(strings.Join(texts, " ")), nil
}

// docxInterstitialText keeps any non-trivial text caught between tags.
func docxInterstitialText(data []byte) (string, error) {
	raw, err := rawDocumentXML(data)
	if err != nil {
		return "", err
	}

	var texts []string
	for _, m := range interstitialPattern.FindAllSubmatch(raw, -1) {
		candidate := strings.TrimSpace(string(m[1]))
		if len(candidate) > 1 {
			texts = append(texts, html.UnescapeString(candidate))
		}
	}

	return collapseWhitespace(strings.Join(texts, " ")), nil
}

func rawDocumentXML(data []byte) ([]byte, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	raw, err := readArchiveFile(archive, "word/document.xml")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return raw, nil
}

// scrapePrintable is the last-resort tier for files that cannot be opened as
// an archive at all: keep runs of printable ASCII longer than three
// characters that contain at least one letter.
func scrapePrintable(data []byte) string {
	var texts []string
	var run []byte

	flush := func() {
		candidate := strings.TrimSpace(string(run))
		run = run[:0]
		if len(candidate) > 3 && strings.ContainsFunc(candidate, isLetter) {
			texts = append(texts, candidate)
		}
	}

	for _, b := range data {
		if b >= 0x20 && b <= 0x7e {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()

	return strings.Join(texts, " ")
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

var mediaMimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
}

// docxImages enumerates the media entries reachable through the document
// relationships part. Best effort: a package without relationships, or one
// that cannot be opened, yields no images.
func docxImages(data []byte) []model.EmbeddedImage {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}

	rels, err := readArchiveFile(archive, "word/_rels/document.xml.rels")
	if err != nil {
		return nil
	}

	var images []model.EmbeddedImage
	for _, m := range mediaTargetPattern.FindAllSubmatch(rels, -1) {
		name := string(m[1])

		content, err := readArchiveFile(archive, "word/media/"+name)
		if err != nil {
			continue
		}

		mime, known := mediaMimeTypes[strings.ToLower(filepath.Ext(name))]
		if !known {
			mime = "image/png"
		}

		images = append(images, model.EmbeddedImage{
			Name:     name,
			MimeType: mime,
			Data:     content,
		})
	}

	return images
}

func readArchiveFile(archive *zip.Reader, name string) ([]byte, error) {
	f, err := archive.Open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return raw, nil
}

var whitespacePattern = regexp.MustCompile(`\s+`)

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
