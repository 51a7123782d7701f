package coloration

import "errors"

var (
	// ErrResourceUnavailable means the overlay shader could not be found.
	// Generate returns it and leaves all state untouched.
	ErrResourceUnavailable = errors.New("coloration: overlay shader unavailable")

	// ErrStaleReference marks a cached group, renderer or transform that was
	// destroyed. The element is skipped; the pass continues.
	ErrStaleReference = errors.New("coloration: stale scene reference")

	// ErrPaletteIndex marks a band index with no palette entry. Tagging or
	// drawing for that instance is skipped.
	ErrPaletteIndex = errors.New("coloration: band index outside palette")

	// ErrMalformedColor marks a persisted color that failed to parse. It
	// decodes to transparent black.
	ErrMalformedColor = errors.New("coloration: malformed persisted color")

	// ErrInvalidMode is returned for an unknown mode value.
	ErrInvalidMode = errors.New("coloration: invalid mode")
)
