package port

import "errors"

var (
	// ErrInvalidInput covers missing uploads, bad methods and unknown target
	// formats.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPayloadTooLarge is raised before any temp file is written.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUnsupportedConversion marks a source/target pair absent from the
	// capability matrix.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrExternalRender marks a failed or timed-out headless browser call.
	// Recoverable: the in-process render tiers take over.
	ErrExternalRender = errors.New("external render failed")

	// ErrConversionFailed is the catch-all for unexpected render failures
	// after every tier has been exhausted.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrUnsupportedImageFormat is raised when image bytes cannot be decoded.
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
)
