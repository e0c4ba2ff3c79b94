package port

import "context"

// PrintMargins are CSS-style lengths ("20mm", "1in", ...).
type PrintMargins struct {
	Top    string
	Right  string
	Bottom string
	Left   string
}

// PrintOptions mirror the print-to-PDF options of a headless browser.
type PrintOptions struct {
	Format            string
	PrintBackground   bool
	PreferCSSPageSize bool
	HeaderTemplate    string
	FooterTemplate    string
	Margins           PrintMargins
}

// HTMLRenderer is an out-of-process HTML to PDF renderer. The real
// implementation drives a sandboxed headless browser with a bounded timeout;
// failures surface as ErrExternalRender so callers can fall back to the
// in-process render tiers.
type HTMLRenderer interface {
	Available(ctx context.Context) bool
	RenderPDF(ctx context.Context, html string, opts PrintOptions) ([]byte, error)
}
