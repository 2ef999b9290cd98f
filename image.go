package toolbox

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	"image/png"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/alnah/go-toolbox/internal/layout"
)

// maxImagePixels bounds decoded images (about 400 MB as NRGBA).
const maxImagePixels = 100_000_000

const imageName = "source"

// renderImage places payload scaled to fit and centred on a single page.
func (s *Synthesizer) renderImage(pdf *fpdf.Fpdf, payload []byte) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxImagePixels {
		return fmt.Errorf("%w: unusable image size %dx%d", ErrDecode, cfg.Width, cfg.Height)
	}

	data, imageType, err := embeddable(payload, format)
	if err != nil {
		return err
	}

	pdf.AddPage()
	pdf.RegisterImageOptionsReader(imageName, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	r := layout.FitImage(s.cfg.page, float64(cfg.Width), float64(cfg.Height))
	pdf.ImageOptions(imageName, r.X, r.Y, r.W, r.H, false, fpdf.ImageOptions{ImageType: imageType}, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return nil
}

// embeddable returns bytes fpdf can embed. Baseline JPEG passes through;
// everything else is decoded and re-encoded as 8-bit non-interlaced PNG,
// the only PNG variant fpdf parses.
func embeddable(payload []byte, format string) ([]byte, string, error) {
	if format == "jpeg" {
		// Full decode catches truncated files DecodeConfig accepts.
		if _, err := jpeg.Decode(bytes.NewReader(payload)); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return payload, "JPG", nil
	}

	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, rgba); err != nil {
		return nil, "", fmt.Errorf("%w: re-encoding image: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), "PNG", nil
}
