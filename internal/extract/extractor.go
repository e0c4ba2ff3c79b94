// Package extract turns source files into the normalized intermediate
// representation consumed by rendering. Every per-format strategy is an
// ordered ladder of attempts: structured parsing first, then regex scraping,
// then raw binary scraping, and finally a fixed placeholder. Extraction
// never fails outward; producing something readable is the contract.
package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/bornholm/transmute/internal/core/port"
	"github.com/pkg/errors"
)

type Extractor struct {
}

// Extract implements port.ContentExtractor.
func (e *Extractor) Extract(ctx context.Context, source model.Format, data []byte) *model.Intermediate {
	switch source {
	case model.FormatDocx:
		return e.extractDocx(ctx, data)
	case model.FormatXlsx:
		return e.extractXlsx(ctx, data)
	case model.FormatPDF:
		return e.extractPDF(ctx, data)
	case model.FormatPNG, model.FormatJPG:
		return e.extractImage(ctx, data)
	default:
		// Plain text and CSV pass through unmodified.
		return &model.Intermediate{Text: string(data)}
	}
}

type attempt struct {
	name string
	fn   func() (string, error)
}

// runLadder tries each attempt in order and returns the first non-empty
// result. Failed or empty tiers are logged as degradations, never raised;
// when the ladder is exhausted the placeholder wins.
func (e *Extractor) runLadder(ctx context.Context, source model.Format, attempts []attempt, placeholder string) string {
	for _, a := range attempts {
		text, err := guard(a.fn)
		if err != nil {
			slog.DebugContext(ctx, "extraction tier failed",
				slog.String("source", source.String()),
				slog.String("tier", a.name),
				slog.Any("error", errors.WithStack(err)),
			)
			continue
		}

		if strings.TrimSpace(text) == "" {
			slog.DebugContext(ctx, "extraction tier yielded nothing",
				slog.String("source", source.String()),
				slog.String("tier", a.name),
			)
			continue
		}

		return text
	}

	return placeholder
}

// guard converts panics from third-party parsers into plain errors so a
// malformed file can only ever cost us one ladder tier.
func guard(fn func() (string, error)) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("recovered: %v", r)
		}
	}()

	return fn()
}

func NewExtractor() *Extractor {
	return &Extractor{}
}

var _ port.ContentExtractor = &Extractor{}
