package sniff

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/pkg/errors"
)

func TestSniffer(t *testing.T) {
	type testCase struct {
		Name         string
		Filename     string
		DeclaredMime string
		Data         []byte
		Expected     model.Format
	}

	testCases := []testCase{
		{
			Name:     "pdf-extension",
			Filename: "report.pdf",
			Data:     []byte("%PDF-1.4\n"),
			Expected: model.FormatPDF,
		},
		{
			Name:     "docx-extension-wins-over-wrong-mime",
			Filename: "letter.docx",
			DeclaredMime: "application/octet-stream",
			Data:     wordArchive(t, "hello"),
			Expected: model.FormatDocx,
		},
		{
			Name:     "legacy-doc-extension",
			Filename: "letter.doc",
			Data:     []byte{0xd0, 0xcf, 0x11, 0xe0},
			Expected: model.FormatDocx,
		},
		{
			Name:     "xls-extension",
			Filename: "sheet.xls",
			Data:     []byte{0xd0, 0xcf, 0x11, 0xe0},
			Expected: model.FormatXlsx,
		},
		{
			Name:     "jpeg-extension-variant",
			Filename: "photo.jpeg",
			Data:     []byte{0xff, 0xd8, 0xff, 0xe0},
			Expected: model.FormatJPG,
		},
		{
			Name:     "png-signature-no-extension",
			Filename: "upload",
			Data:     []byte("\x89PNG\r\n\x1a\nrest"),
			Expected: model.FormatPNG,
		},
		{
			Name:     "jpg-signature-no-extension-no-mime",
			Filename: "upload.bin",
			Data:     []byte{0xff, 0xd8, 0xff, 0xdb, 0x00},
			Expected: model.FormatJPG,
		},
		{
			Name:     "declared-mime-resolves-unknown-extension",
			Filename: "upload.dat",
			DeclaredMime: "application/vnd.ms-excel",
			Data:     []byte{0xd0, 0xcf, 0x11, 0xe0},
			Expected: model.FormatXlsx,
		},
		{
			Name:     "declared-mime-with-parameters",
			Filename: "upload.dat",
			DeclaredMime: "text/csv; charset=utf-8",
			Data:     []byte("a,b,c\n1,2,3\n"),
			Expected: model.FormatCSV,
		},
		{
			Name:     "misleading-txt-extension-pdf-magic",
			Filename: "renamed.txt",
			Data:     []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"),
			Expected: model.FormatPDF,
		},
		{
			Name:     "honest-txt-extension",
			Filename: "notes.txt",
			Data:     []byte("plain old notes\n"),
			Expected: model.FormatTxt,
		},
		{
			Name:     "zip-with-word-member",
			Filename: "blob",
			Data:     wordArchive(t, "content"),
			Expected: model.FormatDocx,
		},
		{
			Name:     "zip-with-workbook-member",
			Filename: "blob",
			Data:     workbookArchive(t),
			Expected: model.FormatXlsx,
		},
		{
			Name:     "zip-without-office-members",
			Filename: "blob.weird",
			Data:     plainArchive(t),
			Expected: model.FormatTxt,
		},
		{
			Name:     "corrupt-zip-falls-back-to-text",
			Filename: "blob.weird",
			Data:     []byte("PK\x03\x04garbage"),
			Expected: model.FormatTxt,
		},
		{
			Name:     "empty-input-defaults-to-text",
			Filename: "",
			Data:     nil,
			Expected: model.FormatTxt,
		},
	}

	sniffer := NewSniffer()

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			if e, g := tc.Expected, sniffer.Sniff(tc.Filename, tc.DeclaredMime, tc.Data); e != g {
				t.Errorf("sniff(%q): expected '%s', got '%s'", tc.Filename, e, g)
			}
		})
	}
}

func wordArchive(t *testing.T, text string) []byte {
	t.Helper()
	return archiveWith(t, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`,
	})
}

func workbookArchive(t *testing.T) []byte {
	t.Helper()
	return archiveWith(t, map[string]string{
		"xl/workbook.xml": `<workbook/>`,
	})
}

func plainArchive(t *testing.T) []byte {
	t.Helper()
	return archiveWith(t, map[string]string{
		"readme.txt": "nothing office-shaped here",
	})
}

func archiveWith(t *testing.T, members map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for name, content := range members {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	return buf.Bytes()
}
