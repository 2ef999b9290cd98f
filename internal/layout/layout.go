// Package layout computes page geometry for synthesized documents:
// word wrapping, line pagination and image scale-to-fit.
//
// All values are in the page unit of the PDF document (millimetres by
// default). The package never touches a PDF library; text measurement is
// injected as a MeasureFunc so wrapping follows the real font metrics.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Default layout constants.
const (
	DefaultMargin     = 10.0
	DefaultLineHeight = 7.0
)

// Sentinel errors for layout validation.
var (
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidLineHeight  = errors.New("invalid line height")
)

// Page sizes in millimetres, portrait.
var pageSizes = map[string][2]float64{
	"a4":     {210, 297},
	"letter": {215.9, 279.4},
	"legal":  {215.9, 355.6},
}

// PageSizes returns the supported page size names.
func PageSizes() []string {
	return []string{"a4", "letter", "legal"}
}

// Page is the derived geometry of one page.
type Page struct {
	Width      float64
	Height     float64
	Margin     float64
	LineHeight float64
}

// NewPage builds a Page for a named size and orientation.
// Empty size means "a4", empty orientation means "portrait".
func NewPage(size, orientation string, margin, lineHeight float64) (Page, error) {
	if size == "" {
		size = "a4"
	}
	dims, ok := pageSizes[strings.ToLower(size)]
	if !ok {
		return Page{}, fmt.Errorf("%w: %q (must be a4, letter, or legal)", ErrInvalidPageSize, size)
	}

	w, h := dims[0], dims[1]
	switch strings.ToLower(orientation) {
	case "", "portrait":
	case "landscape":
		w, h = h, w
	default:
		return Page{}, fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, orientation)
	}

	p := Page{Width: w, Height: h, Margin: margin, LineHeight: lineHeight}
	if err := p.Validate(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// Validate checks that at least one line fits inside the margins.
func (p Page) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %.1fx%.1f", ErrInvalidPageSize, p.Width, p.Height)
	}
	if p.Margin < 0 || 2*p.Margin >= p.Width || 2*p.Margin >= p.Height {
		return fmt.Errorf("%w: %.1f", ErrInvalidMargin, p.Margin)
	}
	if p.LineHeight <= 0 || p.LineHeight > p.Height-2*p.Margin {
		return fmt.Errorf("%w: %.1f", ErrInvalidLineHeight, p.LineHeight)
	}
	return nil
}

// UsableWidth is the text column width between the side margins.
func (p Page) UsableWidth() float64 {
	return p.Width - 2*p.Margin
}

// LinesPerPage is the number of text lines a page can hold.
func (p Page) LinesPerPage() int {
	n := int(math.Floor((p.Height - 2*p.Margin) / p.LineHeight))
	return max(n, 1)
}

// Line is a text line placed on a page. Y is the top of the line box.
type Line struct {
	Text string
	Y    float64
}

// Paginate places lines top to bottom, starting a new page whenever the
// next line box would cross the bottom margin. It always returns at least
// one page, so empty input yields a single blank page.
func Paginate(lines []string, p Page) [][]Line {
	pages := [][]Line{{}}
	bottom := p.Height - p.Margin
	y := p.Margin

	for _, text := range lines {
		// Tolerance absorbs float drift from repeated additions.
		if y+p.LineHeight > bottom+1e-9 {
			pages = append(pages, []Line{})
			y = p.Margin
		}
		last := len(pages) - 1
		pages[last] = append(pages[last], Line{Text: text, Y: y})
		y += p.LineHeight
	}
	return pages
}

// Rect is a placed rectangle.
type Rect struct {
	X, Y, W, H float64
}

// FitImage scales an image of imgW x imgH uniformly so that it fits the
// page, then centres it. Aspect ratio is always preserved.
func FitImage(p Page, imgW, imgH float64) Rect {
	if imgW <= 0 || imgH <= 0 {
		return Rect{}
	}
	ratio := math.Min(p.Width/imgW, p.Height/imgH)
	w, h := imgW*ratio, imgH*ratio
	return Rect{
		X: (p.Width - w) / 2,
		Y: (p.Height - h) / 2,
		W: w,
		H: h,
	}
}
