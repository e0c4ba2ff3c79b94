package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/bornholm/transmute/internal/core/port"
	"github.com/bornholm/transmute/internal/metrics"
	"github.com/bornholm/transmute/internal/workspace"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

const DefaultMaxPayloadSize int64 = 50 << 20

type ConversionManagerOptions struct {
	Sniffer        port.FormatSniffer
	Extractor      port.ContentExtractor
	Renderer       port.RenderBackend
	MaxPayloadSize int64
}

type ConversionManagerOptionFunc func(opts *ConversionManagerOptions)

func WithConversionManagerSniffer(sniffer port.FormatSniffer) ConversionManagerOptionFunc {
	return func(opts *ConversionManagerOptions) {
		opts.Sniffer = sniffer
	}
}

func WithConversionManagerExtractor(extractor port.ContentExtractor) ConversionManagerOptionFunc {
	return func(opts *ConversionManagerOptions) {
		opts.Extractor = extractor
	}
}

func WithConversionManagerRenderer(renderer port.RenderBackend) ConversionManagerOptionFunc {
	return func(opts *ConversionManagerOptions) {
		opts.Renderer = renderer
	}
}

func WithConversionManagerMaxPayloadSize(size int64) ConversionManagerOptionFunc {
	return func(opts *ConversionManagerOptions) {
		if size > 0 {
			opts.MaxPayloadSize = size
		}
	}
}

func NewConversionManagerOptions(funcs ...ConversionManagerOptionFunc) *ConversionManagerOptions {
	opts := &ConversionManagerOptions{
		MaxPayloadSize: DefaultMaxPayloadSize,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// ConversionManager orchestrates a single document conversion: detect the
// source format, check the conversion is supported, extract an intermediate
// representation, then serialize it to the target. Every request gets a
// private scratch directory that is removed no matter how the conversion
// ends.
type ConversionManager struct {
	sniffer        port.FormatSniffer
	extractor      port.ContentExtractor
	renderer       port.RenderBackend
	maxPayloadSize int64
}

func (m *ConversionManager) Convert(ctx context.Context, req *model.ConversionRequest) (*model.RenderResult, error) {
	if req == nil || len(req.Data) == 0 || strings.TrimSpace(req.Filename) == "" {
		return nil, errors.Wrap(port.ErrInvalidInput, "a non-empty file and filename are required")
	}

	// Size is checked before anything touches the filesystem.
	if int64(len(req.Data)) > m.maxPayloadSize {
		return nil, errors.Wrapf(port.ErrPayloadTooLarge,
			"payload of %s exceeds the %s limit",
			humanize.IBytes(uint64(len(req.Data))),
			humanize.IBytes(uint64(m.maxPayloadSize)),
		)
	}

	metrics.PayloadBytes.Observe(float64(len(req.Data)))

	target, valid := model.ParseTargetFormat(string(req.Target))
	if !valid {
		return nil, errors.Wrapf(port.ErrInvalidInput, "unknown target format '%s'", req.Target)
	}

	ws, err := workspace.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer func() {
		if err := ws.Close(); err != nil {
			slog.ErrorContext(ctx, "could not clean up conversion workspace",
				slog.String("dir", ws.Dir()),
				slog.Any("error", errors.WithStack(err)),
			)
		}
	}()

	if _, err := ws.WriteFile(req.Filename, req.Data); err != nil {
		return nil, errors.WithStack(err)
	}

	source := m.sniffer.Sniff(req.Filename, req.DeclaredMimeType, req.Data)

	start := time.Now()

	result, err := m.convert(ctx, ws, req, source, target)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusFailure
	}

	metrics.TotalConversions.WithLabelValues(string(source), string(target), status).Add(1)
	metrics.ConversionDuration.WithLabelValues(string(source), string(target)).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, errors.WithStack(err)
	}

	slog.InfoContext(ctx, "conversion completed",
		slog.String("source", string(source)),
		slog.String("target", string(target)),
		slog.String("backend", result.Backend),
		slog.String("size", humanize.IBytes(uint64(result.Size()))),
	)

	return result, nil
}

func (m *ConversionManager) convert(ctx context.Context, ws *workspace.Workspace, req *model.ConversionRequest, source, target model.Format) (*model.RenderResult, error) {
	if !model.Supports(source, target) {
		return nil, errors.Wrapf(port.ErrUnsupportedConversion, "'%s' to '%s'", source, target)
	}

	doc := m.extractor.Extract(ctx, source, req.Data)

	data, backend, err := m.renderer.Render(ctx, doc, target)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	metrics.RenderBackendUses.WithLabelValues(backend).Add(1)

	outputName := convertedFilename(req.Filename, target)

	// The output makes a round-trip through the workspace so a render
	// backend handing us a path-backed buffer cannot outlive the cleanup.
	if _, err := ws.WriteFile(outputName, data); err != nil {
		return nil, errors.WithStack(err)
	}

	output, err := ws.ReadFile(outputName)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &model.RenderResult{
		Filename: outputName,
		MimeType: model.MimeType(target),
		Backend:  backend,
		Data:     output,
	}, nil
}

func convertedFilename(filename string, target model.Format) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "document"
	}

	return fmt.Sprintf("%s_converted.%s", base, target.Extension())
}

func NewConversionManager(funcs ...ConversionManagerOptionFunc) *ConversionManager {
	opts := NewConversionManagerOptions(funcs...)

	return &ConversionManager{
		sniffer:        opts.Sniffer,
		extractor:      opts.Extractor,
		renderer:       opts.Renderer,
		maxPayloadSize: opts.MaxPayloadSize,
	}
}
