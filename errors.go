package toolbox

import (
	"errors"

	"github.com/alnah/go-toolbox/internal/calendar"
	"github.com/alnah/go-toolbox/internal/upstream"
)

// Sentinel errors for library operations.
var (
	// ErrUnsupportedFormat reports a conversion direction and extension pair
	// that cannot be synthesized. It is returned before any work starts.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDecode reports input bytes that are malformed for their declared kind.
	ErrDecode = errors.New("decode failed")

	// ErrUpstreamFetch reports an unreachable or non-2xx holiday or rate source.
	ErrUpstreamFetch = upstream.ErrFetch

	ErrPDFGeneration = errors.New("PDF generation failed")

	// ErrSuperseded is returned by Session.Convert when the selection changed
	// while the conversion was running.
	ErrSuperseded = errors.New("conversion superseded by a newer selection")

	ErrNoSelection = errors.New("no file selected")

	ErrInvalidMonth = calendar.ErrInvalidMonth
)
