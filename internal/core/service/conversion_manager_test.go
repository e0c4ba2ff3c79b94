package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/bornholm/transmute/internal/core/port"
	"github.com/pkg/errors"
)

type stubSniffer struct {
	format model.Format
}

func (s *stubSniffer) Sniff(filename string, declaredMimeType string, data []byte) model.Format {
	return s.format
}

type stubExtractor struct {
	calls int
	doc   *model.Intermediate
}

func (s *stubExtractor) Extract(ctx context.Context, source model.Format, data []byte) *model.Intermediate {
	s.calls++

	if s.doc != nil {
		return s.doc
	}

	return &model.Intermediate{Text: string(data)}
}

type stubRenderer struct {
	calls int
	data  []byte
	err   error
}

func (s *stubRenderer) Render(ctx context.Context, doc *model.Intermediate, target model.Format) ([]byte, string, error) {
	s.calls++

	if s.err != nil {
		return nil, "", s.err
	}

	return s.data, "stub", nil
}

func newTestManager(sniffed model.Format, renderer *stubRenderer, extractor *stubExtractor) *ConversionManager {
	return NewConversionManager(
		WithConversionManagerSniffer(&stubSniffer{format: sniffed}),
		WithConversionManagerExtractor(extractor),
		WithConversionManagerRenderer(renderer),
	)
}

func TestConvert(t *testing.T) {
	renderer := &stubRenderer{data: []byte("%PDF-1.4 fake")}
	extractor := &stubExtractor{}
	manager := newTestManager(model.FormatTxt, renderer, extractor)

	result, err := manager.Convert(context.Background(), &model.ConversionRequest{
		Filename: "informe.txt",
		Target:   model.FormatPDF,
		Data:     []byte("contenido"),
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "informe_converted.pdf", result.Filename; e != g {
		t.Errorf("filename: expected '%s', got '%s'", e, g)
	}

	if e, g := "application/pdf", result.MimeType; e != g {
		t.Errorf("mime type: expected '%s', got '%s'", e, g)
	}

	if e, g := "stub", result.Backend; e != g {
		t.Errorf("backend: expected '%s', got '%s'", e, g)
	}

	if !bytes.Equal(renderer.data, result.Data) {
		t.Errorf("expected rendered bytes to round-trip unchanged")
	}

	if e, g := 1, extractor.calls; e != g {
		t.Errorf("extractor calls: expected %d, got %d", e, g)
	}
}

func TestConvertUnsupportedPair(t *testing.T) {
	renderer := &stubRenderer{data: []byte("x")}
	extractor := &stubExtractor{}
	manager := newTestManager(model.FormatDocx, renderer, extractor)

	// docx -> xlsx is not in the capability matrix.
	_, err := manager.Convert(context.Background(), &model.ConversionRequest{
		Filename: "doc.docx",
		Target:   model.FormatXlsx,
		Data:     []byte("payload"),
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, port.ErrUnsupportedConversion) {
		t.Errorf("expected port.ErrUnsupportedConversion, got %+v", err)
	}

	if e, g := 0, extractor.calls; e != g {
		t.Errorf("extractor calls: expected %d, got %d", e, g)
	}

	if e, g := 0, renderer.calls; e != g {
		t.Errorf("renderer calls: expected %d, got %d", e, g)
	}
}

func TestConvertPayloadTooLarge(t *testing.T) {
	renderer := &stubRenderer{data: []byte("x")}
	extractor := &stubExtractor{}

	manager := NewConversionManager(
		WithConversionManagerSniffer(&stubSniffer{format: model.FormatTxt}),
		WithConversionManagerExtractor(extractor),
		WithConversionManagerRenderer(renderer),
		WithConversionManagerMaxPayloadSize(1024),
	)

	_, err := manager.Convert(context.Background(), &model.ConversionRequest{
		Filename: "big.txt",
		Target:   model.FormatPDF,
		Data:     bytes.Repeat([]byte("a"), 1025),
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, port.ErrPayloadTooLarge) {
		t.Errorf("expected port.ErrPayloadTooLarge, got %+v", err)
	}
}

func TestConvertInvalidInput(t *testing.T) {
	manager := newTestManager(model.FormatTxt, &stubRenderer{data: []byte("x")}, &stubExtractor{})

	type testCase struct {
		Name    string
		Request *model.ConversionRequest
	}

	testCases := []testCase{
		{Name: "nil request", Request: nil},
		{Name: "empty data", Request: &model.ConversionRequest{Filename: "a.txt", Target: model.FormatPDF}},
		{Name: "blank filename", Request: &model.ConversionRequest{Filename: "  ", Target: model.FormatPDF, Data: []byte("x")}},
		{Name: "unknown target", Request: &model.ConversionRequest{Filename: "a.txt", Target: model.FormatUnknown, Data: []byte("x")}},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := manager.Convert(context.Background(), tc.Request)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, port.ErrInvalidInput) {
				t.Errorf("expected port.ErrInvalidInput, got %+v", err)
			}
		})
	}
}

func TestConvertCleansUpWorkspace(t *testing.T) {
	before := tempDirEntries(t)

	renderer := &stubRenderer{data: []byte("output")}
	manager := newTestManager(model.FormatTxt, renderer, &stubExtractor{})

	if _, err := manager.Convert(context.Background(), &model.ConversionRequest{
		Filename: "note.txt",
		Target:   model.FormatPDF,
		Data:     []byte("hello"),
	}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := before, tempDirEntries(t); e != g {
		t.Errorf("scratch directories: expected %d, got %d", e, g)
	}
}

func TestConvertCleansUpWorkspaceOnFailure(t *testing.T) {
	before := tempDirEntries(t)

	renderer := &stubRenderer{err: errors.New("backend exploded")}
	manager := newTestManager(model.FormatTxt, renderer, &stubExtractor{})

	if _, err := manager.Convert(context.Background(), &model.ConversionRequest{
		Filename: "note.txt",
		Target:   model.FormatPDF,
		Data:     []byte("hello"),
	}); err == nil {
		t.Fatal("expected error")
	}

	if e, g := before, tempDirEntries(t); e != g {
		t.Errorf("scratch directories: expected %d, got %d", e, g)
	}
}

func tempDirEntries(t *testing.T) int {
	t.Helper()

	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	count := 0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "transmute-") {
			count++
		}
	}

	return count
}

func TestConvertedFilename(t *testing.T) {
	type testCase struct {
		Filename string
		Target   model.Format
		Expected string
	}

	testCases := []testCase{
		{Filename: "report.docx", Target: model.FormatPDF, Expected: "report_converted.pdf"},
		{Filename: filepath.Join("nested", "dir", "data.xlsx"), Target: model.FormatCSV, Expected: "data_converted.csv"},
		{Filename: ".hidden", Target: model.FormatTxt, Expected: "document_converted.txt"},
		{Filename: "no-extension", Target: model.FormatPDF, Expected: "no-extension_converted.pdf"},
	}

	for _, tc := range testCases {
		t.Run(tc.Filename, func(t *testing.T) {
			if e, g := tc.Expected, convertedFilename(tc.Filename, tc.Target); e != g {
				t.Errorf("expected '%s', got '%s'", e, g)
			}
		})
	}
}
