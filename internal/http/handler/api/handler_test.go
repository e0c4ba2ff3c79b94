package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/bornholm/transmute/internal/core/service"
	"github.com/bornholm/transmute/internal/extract"
	httpCtx "github.com/bornholm/transmute/internal/http/context"
	"github.com/bornholm/transmute/internal/http/middleware/authz"
	"github.com/bornholm/transmute/internal/render"
	"github.com/bornholm/transmute/internal/sniff"
	"github.com/pkg/errors"
)

func newTestHandler() *Handler {
	manager := service.NewConversionManager(
		service.WithConversionManagerSniffer(sniff.NewSniffer()),
		service.WithConversionManagerExtractor(extract.NewExtractor()),
		service.WithConversionManagerRenderer(render.NewRenderer()),
	)

	return NewHandler(manager, nil)
}

func authenticated(req *http.Request) *http.Request {
	user := model.NewUser("basic-auth", "test", "test", authz.RoleReader, authz.RoleWriter)

	return req.WithContext(httpCtx.SetUser(req.Context(), user))
}

func multipartUpload(t *testing.T, filename, target string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("archivo", filename)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := part.Write(data); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := writer.WriteField("formato_destino", target); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	return &body, writer.FormDataContentType()
}

func decodeEnvelope(t *testing.T, body io.Reader) (*Envelope, map[string]any) {
	t.Helper()

	var envelope Envelope
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	data, _ := envelope.Data.(map[string]any)

	return &envelope, data
}

func TestHandleConvert(t *testing.T) {
	handler := newTestHandler()

	body, contentType := multipartUpload(t, "nota.txt", "pdf", []byte("hola mundo"))

	req := authenticated(httptest.NewRequest(http.MethodPost, "/convert", body))
	req.Header.Set("Content-Type", contentType)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("status: expected %d, got %d (%s)", e, g, res.Body.String())
	}

	envelope, data := decodeEnvelope(t, res.Body)

	if !envelope.Success {
		t.Errorf("expected success envelope, got message %q", envelope.Message)
	}

	if e, g := "nota_converted.pdf", data["nombre_archivo"]; e != g {
		t.Errorf("filename: expected '%s', got '%v'", e, g)
	}

	if e, g := "application/pdf", data["mime_type"]; e != g {
		t.Errorf("mime type: expected '%s', got '%v'", e, g)
	}

	content, err := base64.StdEncoding.DecodeString(data["contenido"].(string))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Errorf("expected decoded content to be a PDF")
	}

	if e, g := float64(len(content)), data["tamano"]; e != g {
		t.Errorf("size: expected %v, got %v", e, g)
	}
}

func TestHandleConvertUnsupportedPair(t *testing.T) {
	handler := newTestHandler()

	// txt -> jpg is outside the capability matrix
	body, contentType := multipartUpload(t, "nota.txt", "jpg", []byte("hola"))

	req := authenticated(httptest.NewRequest(http.MethodPost, "/convert", body))
	req.Header.Set("Content-Type", contentType)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if e, g := http.StatusBadRequest, res.Code; e != g {
		t.Fatalf("status: expected %d, got %d", e, g)
	}

	envelope, _ := decodeEnvelope(t, res.Body)

	if envelope.Success {
		t.Error("expected failure envelope")
	}

	if envelope.Data != nil {
		t.Errorf("expected null data, got %v", envelope.Data)
	}
}

func TestHandleConvertMissingFile(t *testing.T) {
	handler := newTestHandler()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("formato_destino", "pdf"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	req := authenticated(httptest.NewRequest(http.MethodPost, "/convert", &body))
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if e, g := http.StatusBadRequest, res.Code; e != g {
		t.Fatalf("status: expected %d, got %d", e, g)
	}
}

func TestHandleConvertRequiresWriterRole(t *testing.T) {
	handler := newTestHandler()

	body, contentType := multipartUpload(t, "nota.txt", "pdf", []byte("hola"))

	user := model.NewUser("basic-auth", "reader", "reader", authz.RoleReader)
	req := httptest.NewRequest(http.MethodPost, "/convert", body)
	req = req.WithContext(httpCtx.SetUser(req.Context(), user))
	req.Header.Set("Content-Type", contentType)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if e, g := http.StatusForbidden, res.Code; e != g {
		t.Fatalf("status: expected %d, got %d", e, g)
	}
}

func TestHandleFormats(t *testing.T) {
	handler := newTestHandler()

	req := authenticated(httptest.NewRequest(http.MethodGet, "/formats", nil))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("status: expected %d, got %d", e, g)
	}

	_, data := decodeEnvelope(t, res.Body)

	conversions, ok := data["conversions"].(map[string]any)
	if !ok {
		t.Fatalf("expected conversions map, got %v", data)
	}

	targets, ok := conversions["txt"].([]any)
	if !ok {
		t.Fatalf("expected txt targets, got %v", conversions)
	}

	found := false
	for _, target := range targets {
		if target == "pdf" {
			found = true
		}
	}

	if !found {
		t.Errorf("expected txt -> pdf in %v", targets)
	}
}

func TestHandleHealth(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("status: expected %d, got %d", e, g)
	}

	envelope, data := decodeEnvelope(t, res.Body)

	if !envelope.Success {
		t.Error("expected success envelope")
	}

	if e, g := "ok", data["status"]; e != g {
		t.Errorf("status: expected '%s', got '%v'", e, g)
	}

	if e, g := false, data["browserRenderer"]; e != g {
		t.Errorf("browserRenderer: expected %v, got %v", e, g)
	}
}

func TestHandleRenderRejectsNonHTML(t *testing.T) {
	handler := newTestHandler()

	payload := `{"html": "just some text", "fileName": "out.pdf"}`

	req := authenticated(httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(payload)))
	req.Header.Set("Content-Type", "application/json")

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if e, g := http.StatusBadRequest, res.Code; e != g {
		t.Fatalf("status: expected %d, got %d", e, g)
	}
}

func TestHandleRenderWithoutBrowser(t *testing.T) {
	handler := newTestHandler()

	payload := `{"html": "<html><body>hi</body></html>"}`

	req := authenticated(httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(payload)))
	req.Header.Set("Content-Type", "application/json")

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if e, g := http.StatusServiceUnavailable, res.Code; e != g {
		t.Fatalf("status: expected %d, got %d", e, g)
	}
}

func TestPrintOptionsDefaults(t *testing.T) {
	opts := printOptions(nil)

	if e, g := "A4", opts.Format; e != g {
		t.Errorf("format: expected '%s', got '%s'", e, g)
	}

	if e, g := "20mm", opts.Margins.Top; e != g {
		t.Errorf("top margin: expected '%s', got '%s'", e, g)
	}

	disabled := false
	opts = printOptions(&RenderOptions{
		Format:          "Letter",
		PrintBackground: &disabled,
		Margin:          &RenderMargin{Top: "10mm"},
	})

	if e, g := "Letter", opts.Format; e != g {
		t.Errorf("format: expected '%s', got '%s'", e, g)
	}

	if opts.PrintBackground {
		t.Error("expected print background to be disabled")
	}

	if e, g := "10mm", opts.Margins.Top; e != g {
		t.Errorf("top margin: expected '%s', got '%s'", e, g)
	}

	if e, g := "20mm", opts.Margins.Left; e != g {
		t.Errorf("left margin: expected default '%s', got '%s'", e, g)
	}
}
