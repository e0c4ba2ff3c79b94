package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/pkg/errors"
)

const (
	BackendOOXML = "ooxml"
	BackendRTF   = "rtf"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`

// renderDocx writes a minimal WordprocessingML package, one paragraph per
// source line. When the archive cannot be assembled it falls back to RTF,
// which most word processors still open when handed a .docx extension.
func renderDocx(doc *model.Intermediate) ([]byte, string, error) {
	data, err := writeOOXML(plainText(doc))
	if err == nil {
		return data, BackendOOXML, nil
	}

	return writeRTF(plainText(doc)), BackendRTF, nil
}

func writeOOXML(text string) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("recovered: %v", r)
		}
	}()

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", documentXML(text)},
	}

	for _, part := range parts {
		w, err := archive.Create(part.name)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if err := archive.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	return buf.Bytes(), nil
}

func documentXML(text string) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString("\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, line := range strings.Split(text, "\n") {
		b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		xml.EscapeText(&b, []byte(line))
		b.WriteString(`</w:t></w:r></w:p>`)
	}

	b.WriteString(`</w:body></w:document>`)

	return b.String()
}

var rtfEscaper = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)

func writeRTF(text string) []byte {
	var b strings.Builder

	b.WriteString(`{\rtf1\ansi\deff0{\fonttbl{\f0\fnil\fcharset0 Arial;}}\f0\fs24 `)

	for _, line := range strings.Split(text, "\n") {
		b.WriteString(rtfEscaper.Replace(line))
		b.WriteString(`\par `)
	}

	b.WriteString(`}`)

	return []byte(b.String())
}
