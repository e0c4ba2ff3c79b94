// Package chromium drives a headless browser over the DevTools protocol to
// print HTML to PDF.
package chromium

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/bornholm/transmute/internal/core/port"
	"github.com/bornholm/transmute/internal/workspace"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

const DefaultTimeout = 30 * time.Second

// Paper sizes in inches.
var paperSizes = map[string][2]float64{
	"A4":     {8.27, 11.69},
	"A3":     {11.69, 16.54},
	"Letter": {8.5, 11},
	"Legal":  {8.5, 14},
}

var binaryCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

type Options struct {
	BinaryPath string
	Timeout    time.Duration
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Timeout: DefaultTimeout,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// WithBinaryPath forces a specific browser executable instead of probing
// well-known names on PATH.
func WithBinaryPath(path string) OptionFunc {
	return func(opts *Options) {
		opts.BinaryPath = path
	}
}

func WithTimeout(timeout time.Duration) OptionFunc {
	return func(opts *Options) {
		if timeout > 0 {
			opts.Timeout = timeout
		}
	}
}

type Renderer struct {
	binaryPath string
	timeout    time.Duration
}

// Available implements port.HTMLRenderer.
func (r *Renderer) Available(ctx context.Context) bool {
	return r.findBinary() != ""
}

func (r *Renderer) findBinary() string {
	if r.binaryPath != "" {
		if _, err := exec.LookPath(r.binaryPath); err == nil {
			return r.binaryPath
		}

		return ""
	}

	for _, name := range binaryCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// RenderPDF implements port.HTMLRenderer. The page is written to a scratch
// file and loaded over file:// so relative-free documents with inline assets
// print without a web server.
func (r *Renderer) RenderPDF(ctx context.Context, html string, opts port.PrintOptions) ([]byte, error) {
	binary := r.findBinary()
	if binary == "" {
		return nil, errors.Wrap(port.ErrExternalRender, "no browser executable found")
	}

	ws, err := workspace.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer func() {
		if err := ws.Close(); err != nil {
			slog.ErrorContext(ctx, "could not clean up render workspace", slog.Any("error", errors.WithStack(err)))
		}
	}()

	pagePath, err := ws.WriteFile("page.html", []byte(html))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(binary),
			chromedp.NoSandbox,
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte

	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+pagePath),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := printParams(opts).Do(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			pdf = data

			return nil
		}),
	)
	if err != nil {
		return nil, errors.Wrap(port.ErrExternalRender, err.Error())
	}

	return pdf, nil
}

func printParams(opts port.PrintOptions) *page.PrintToPDFParams {
	width, height := paperSize(opts.Format)

	params := page.PrintToPDF().
		WithPrintBackground(opts.PrintBackground).
		WithPreferCSSPageSize(opts.PreferCSSPageSize).
		WithPaperWidth(width).
		WithPaperHeight(height).
		WithMarginTop(marginInches(opts.Margins.Top)).
		WithMarginRight(marginInches(opts.Margins.Right)).
		WithMarginBottom(marginInches(opts.Margins.Bottom)).
		WithMarginLeft(marginInches(opts.Margins.Left))

	if opts.HeaderTemplate != "" || opts.FooterTemplate != "" {
		params = params.WithDisplayHeaderFooter(true).
			WithHeaderTemplate(opts.HeaderTemplate).
			WithFooterTemplate(opts.FooterTemplate)
	}

	return params
}

func paperSize(format string) (float64, float64) {
	if size, ok := paperSizes[format]; ok {
		return size[0], size[1]
	}

	size := paperSizes["A4"]

	return size[0], size[1]
}

// marginInches parses CSS-style lengths ("20mm", "1.5cm", "0.5in", "96px").
// Unparseable values fall back to zero, which matches the browser default.
func marginInches(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	unit := "in"
	number := raw

	for _, suffix := range []string{"mm", "cm", "in", "px"} {
		if strings.HasSuffix(raw, suffix) {
			unit = suffix
			number = strings.TrimSuffix(raw, suffix)
			break
		}
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil {
		return 0
	}

	switch unit {
	case "mm":
		return value / 25.4
	case "cm":
		return value / 2.54
	case "px":
		return value / 96
	default:
		return value
	}
}

func NewRenderer(funcs ...OptionFunc) *Renderer {
	opts := NewOptions(funcs...)

	return &Renderer{
		binaryPath: opts.BinaryPath,
		timeout:    opts.Timeout,
	}
}

var _ port.HTMLRenderer = &Renderer{}
