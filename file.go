package toolbox

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alnah/go-toolbox/internal/fileutil"
)

// ConvertibleFile is an input file. Replace it wholesale on re-selection.
type ConvertibleFile struct {
	Name    string
	Content []byte
}

// Extension returns the lowercased extension derived from Name.
func (f ConvertibleFile) Extension() string {
	return fileutil.Ext(f.Name)
}

// Direction is the requested conversion direction.
type Direction string

const (
	ToPDF   Direction = "to-pdf"
	FromPDF Direction = "from-pdf"
)

// ParseDirection accepts "to-pdf" or "from-pdf"; empty means ToPDF.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return ToPDF, nil
	case ToPDF, FromPDF:
		return d, nil
	default:
		return "", fmt.Errorf("%w: direction %q (must be to-pdf or from-pdf)", ErrUnsupportedFormat, s)
	}
}

// Kind tags what a Source holds.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Source is an input resolved once at selection time. Synthesize dispatches
// on Kind and never looks at file names.
type Source struct {
	Kind    Kind
	Name    string
	Payload []byte
}

var (
	textExtensions  = []string{"txt"}
	imageExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "tif", "tiff", "webp"}
	// Recognised but needing a converter this package does not have.
	externalExtensions = []string{"pdf", "doc", "docx"}
)

// SupportedExtensions lists the extensions Resolve accepts for ToPDF.
func SupportedExtensions() []string {
	return slices.Concat(textExtensions, imageExtensions)
}

// Resolve turns a file and direction into a Source, or fails with
// ErrUnsupportedFormat. FromPDF always fails without inspecting the file.
func Resolve(f ConvertibleFile, dir Direction) (Source, error) {
	if dir == FromPDF {
		return Source{}, fmt.Errorf("%w: PDF to other formats not supported", ErrUnsupportedFormat)
	}
	if dir != ToPDF {
		return Source{}, fmt.Errorf("%w: direction %q", ErrUnsupportedFormat, dir)
	}

	ext := f.Extension()
	switch {
	case slices.Contains(textExtensions, ext):
		return SourceOf(f, KindText)
	case slices.Contains(imageExtensions, ext):
		return SourceOf(f, KindImage)
	case slices.Contains(externalExtensions, ext):
		return Source{}, fmt.Errorf("%w: .%s to PDF requires external processing", ErrUnsupportedFormat, ext)
	case ext == "":
		return Source{}, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, f.Name)
	default:
		return Source{}, fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
}

// SourceOf builds a Source of an explicit kind, checking that the file's
// extension belongs to it.
func SourceOf(f ConvertibleFile, kind Kind) (Source, error) {
	ext := f.Extension()
	var ok bool
	switch kind {
	case KindText:
		ok = slices.Contains(textExtensions, ext)
	case KindImage:
		ok = slices.Contains(imageExtensions, ext)
	default:
		return Source{}, fmt.Errorf("%w: kind %q", ErrUnsupportedFormat, kind)
	}
	if !ok {
		return Source{}, fmt.Errorf("%w: .%s is not %s", ErrUnsupportedFormat, ext, kind)
	}
	return Source{Kind: kind, Name: f.Name, Payload: f.Content}, nil
}

// OutputName derives the document name: the trailing extension becomes
// ".pdf", or ".pdf" is appended.
func OutputName(name string) string {
	return fileutil.PDFName(name)
}
