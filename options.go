package toolbox

import (
	"fmt"
	"time"

	"github.com/alnah/go-toolbox/internal/layout"
)

// DefaultFontSize is the text font size in points.
const DefaultFontSize = 16.0

// Page is the geometry of a synthesized page in millimetres.
type Page = layout.Page

// NewPage builds a Page for a named size (a4, letter, legal) and orientation
// (portrait, landscape). Zero margin and line height select the defaults.
func NewPage(size, orientation string, margin, lineHeight float64) (Page, error) {
	if margin == 0 {
		margin = layout.DefaultMargin
	}
	if lineHeight == 0 {
		lineHeight = layout.DefaultLineHeight
	}
	return layout.NewPage(size, orientation, margin, lineHeight)
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// synthConfig holds internal configuration for Synthesizer.
type synthConfig struct {
	page     Page
	fontSize float64
	clock    func() time.Time
	validate bool
	timeout  time.Duration
}

// WithPage sets the page geometry.
// Panics if p is invalid (programmer error; build pages with NewPage).
func WithPage(p Page) Option {
	if err := p.Validate(); err != nil {
		panic(fmt.Sprintf("toolbox: WithPage: %v", err))
	}
	return func(s *Synthesizer) {
		s.cfg.page = p
	}
}

// WithFontSize sets the text font size in points.
// Panics if size <= 0.
func WithFontSize(size float64) Option {
	if size <= 0 {
		panic("toolbox: WithFontSize size must be positive")
	}
	return func(s *Synthesizer) {
		s.cfg.fontSize = size
	}
}

// WithClock fixes the document creation date, making output reproducible.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		if now != nil {
			s.cfg.clock = now
		}
	}
}

// WithValidation re-parses every produced PDF with pdfcpu before returning it.
func WithValidation(on bool) Option {
	return func(s *Synthesizer) {
		s.cfg.validate = on
	}
}

// WithTimeout bounds each Synthesize call.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("toolbox: WithTimeout duration must be positive")
	}
	return func(s *Synthesizer) {
		s.cfg.timeout = d
	}
}
