package toolbox

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/alnah/go-toolbox/internal/layout"
	"github.com/alnah/go-toolbox/internal/pdfcheck"
)

const textFont = "Helvetica"

// Synthesizer turns a Source into a PDF. Every call builds its own document
// and cursor, so one Synthesizer is safe for concurrent use.
type Synthesizer struct {
	cfg synthConfig
}

// NewSynthesizer creates a Synthesizer with an A4 portrait page, 10 mm
// margin, 7 mm line height and 16 pt text unless options say otherwise.
func NewSynthesizer(opts ...Option) *Synthesizer {
	page, _ := NewPage("a4", "portrait", 0, 0)
	s := &Synthesizer{
		cfg: synthConfig{
			page:     page,
			fontSize: DefaultFontSize,
			clock:    time.Now,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page returns the configured page geometry.
func (s *Synthesizer) Page() Page { return s.cfg.page }

// Convert resolves f in direction dir and synthesizes it.
func (s *Synthesizer) Convert(ctx context.Context, f ConvertibleFile, dir Direction) (*ConvertedDocument, error) {
	src, err := Resolve(f, dir)
	if err != nil {
		return nil, err
	}
	return s.Synthesize(ctx, src)
}

// Synthesize renders src into a ConvertedDocument.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (s *Synthesizer) Synthesize(ctx context.Context, src Source) (doc *ConvertedDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: internal error: %v", ErrPDFGeneration, r)
		}
	}()

	if s.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := s.newDocument()

	switch src.Kind {
	case KindText:
		err = s.renderText(ctx, pdf, src.Payload)
	case KindImage:
		err = s.renderImage(pdf, src.Payload)
	default:
		err = fmt.Errorf("%w: kind %q", ErrUnsupportedFormat, src.Kind)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	if s.cfg.validate {
		if err := pdfcheck.Validate(buf.Bytes()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
		}
	}

	return &ConvertedDocument{
		Name:    OutputName(src.Name),
		Payload: buf.Bytes(),
		Pages:   pdf.PageCount(),
	}, nil
}

func (s *Synthesizer) newDocument() *fpdf.Fpdf {
	p := s.cfg.page
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: p.Width, Ht: p.Height},
	})
	pdf.SetMargins(p.Margin, p.Margin, p.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetCreationDate(s.cfg.clock())
	pdf.SetCatalogSort(true)
	pdf.SetFont(textFont, "", s.cfg.fontSize)
	return pdf
}

// renderText wraps and paginates payload. Empty text yields one blank page.
func (s *Synthesizer) renderText(ctx context.Context, pdf *fpdf.Fpdf, payload []byte) error {
	if !utf8.Valid(payload) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrDecode)
	}
	text := strings.TrimPrefix(string(payload), "\ufeff")

	// Core fonts are cp1252; unmappable runes become the translator's
	// substitution byte, and measurement happens on the translated text.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	measure := func(str string) float64 { return pdf.GetStringWidth(tr(str)) }

	page := s.cfg.page
	lines := layout.Wrap(text, page.UsableWidth(), measure)

	for _, pageLines := range layout.Paginate(lines, page) {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPage()
		for _, ln := range pageLines {
			if ln.Text == "" {
				continue
			}
			pdf.SetXY(page.Margin, ln.Y)
			pdf.CellFormat(page.UsableWidth(), page.LineHeight, tr(ln.Text), "", 0, "LM", false, 0, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return nil
}
