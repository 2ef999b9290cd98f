package toolbox

// Notes:
// - PDFs are checked structurally with pdfcpu through internal/pdfcheck;
//   page geometry itself is covered by internal/layout tests.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-toolbox/internal/pdfcheck"
)

var fixedClock = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

func newTestSynth(opts ...Option) *Synthesizer {
	return NewSynthesizer(append([]Option{WithClock(fixedClock)}, opts...)...)
}

func assertPDF(t *testing.T, doc *ConvertedDocument, wantPages int) {
	t.Helper()
	if err := pdfcheck.Validate(doc.Payload); err != nil {
		t.Fatalf("produced PDF is invalid: %v", err)
	}
	got, err := pdfcheck.PageCount(doc.Payload)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if got != wantPages || doc.Pages != wantPages {
		t.Errorf("pages = %d (doc.Pages %d), want %d", got, doc.Pages, wantPages)
	}
}

func numberedLines(n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "line %d\n", i+1)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Text path
// ---------------------------------------------------------------------------

func TestSynthesize_Text(t *testing.T) {
	t.Parallel()

	// A4 portrait, 10 mm margin, 7 mm line height: 39 lines per page.
	// Wrapped inputs are only held to a lower bound on pages.
	tests := []struct {
		name      string
		text      string
		wantPages int
		atLeast   bool
	}{
		{name: "empty input yields one blank page", text: "", wantPages: 1},
		{name: "single line", text: "hello world", wantPages: 1},
		{name: "exactly one page", text: numberedLines(39), wantPages: 1},
		{name: "one line over", text: numberedLines(40), wantPages: 2},
		{name: "three pages", text: numberedLines(83), wantPages: 3},
		{name: "blank lines count", text: strings.Repeat("\n", 45) + "end", wantPages: 2},
		{name: "long paragraph wraps", text: strings.Repeat("lorem ipsum dolor sit amet ", 400), wantPages: 2, atLeast: true},
		{name: "unbroken word is kept", text: strings.Repeat("x", 5000), wantPages: 2, atLeast: true},
		{name: "outside code page", text: "\u65e5\u672c\u8a9e \u041f\u0440\u0438\u0432\u0435\u0442 caf\u00e9", wantPages: 1},
		{name: "byte order mark", text: "\ufeffhello", wantPages: 1},
	}

	synth := newTestSynth()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := synth.Synthesize(context.Background(), Source{Kind: KindText, Name: "notes.txt", Payload: []byte(tt.text)})
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			if doc.Name != "notes.pdf" {
				t.Errorf("Name = %q, want notes.pdf", doc.Name)
			}
			if !tt.atLeast {
				assertPDF(t, doc, tt.wantPages)
				return
			}
			if doc.Pages < tt.wantPages {
				t.Errorf("Pages = %d, want >= %d", doc.Pages, tt.wantPages)
			}
			if err := pdfcheck.Validate(doc.Payload); err != nil {
				t.Errorf("produced PDF is invalid: %v", err)
			}
		})
	}
}

func TestSynthesize_InvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := newTestSynth().Synthesize(context.Background(), Source{Kind: KindText, Name: "a.txt", Payload: []byte{0xff, 0xfe, 0x41}})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Synthesize() error = %v, want ErrDecode", err)
	}
}

func TestSynthesize_LandscapeHoldsFewerLines(t *testing.T) {
	t.Parallel()

	page, err := NewPage("a4", "landscape", 0, 0)
	if err != nil {
		t.Fatalf("NewPage() error = %v", err)
	}
	// 210 mm tall: floor(190/7) = 27 lines per page.
	doc, err := newTestSynth(WithPage(page)).Synthesize(context.Background(), Source{Kind: KindText, Name: "a.txt", Payload: []byte(numberedLines(28))})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	assertPDF(t, doc, 2)
}

func TestSynthesize_Reproducible(t *testing.T) {
	t.Parallel()

	src := Source{Kind: KindText, Name: "a.txt", Payload: []byte(numberedLines(50))}
	a, errA := newTestSynth().Synthesize(context.Background(), src)
	b, errB := newTestSynth().Synthesize(context.Background(), src)
	if errA != nil || errB != nil {
		t.Fatalf("Synthesize() errors: %v, %v", errA, errB)
	}
	if !bytes.Equal(a.Payload, b.Payload) {
		t.Error("same input and clock produced different bytes")
	}
}

func TestSynthesize_Concurrent(t *testing.T) {
	t.Parallel()

	synth := newTestSynth()
	var wg sync.WaitGroup
	pages := make([]int, 8)
	errs := make([]error, 8)
	for i := range pages {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := synth.Synthesize(context.Background(), Source{Kind: KindText, Name: "a.txt", Payload: []byte(numberedLines(39 * (i + 1)))})
			errs[i] = err
			if doc != nil {
				pages[i] = doc.Pages
			}
		}()
	}
	wg.Wait()

	for i := range pages {
		if errs[i] != nil {
			t.Errorf("run %d: %v", i, errs[i])
		}
		if pages[i] != i+1 {
			t.Errorf("run %d: Pages = %d, want %d", i, pages[i], i+1)
		}
	}
}

func TestSynthesize_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestSynth().Synthesize(ctx, Source{Kind: KindText, Name: "a.txt", Payload: []byte("x")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Synthesize() error = %v, want context.Canceled", err)
	}
}

func TestSynthesize_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := newTestSynth().Synthesize(context.Background(), Source{Kind: "audio", Name: "a.mp3"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Synthesize() error = %v, want ErrUnsupportedFormat", err)
	}
}

// ---------------------------------------------------------------------------
// Image path
// ---------------------------------------------------------------------------

func testImage(w, h int, alpha bool) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			a := uint8(255)
			if alpha && x < w/2 {
				a = 128
			}
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: a})
		}
	}
	return img
}

func encode(t *testing.T, format string, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encoding %s fixture: %v", format, err)
	}
	return buf.Bytes()
}

func TestSynthesize_Image(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		payload func(t *testing.T) []byte
	}{
		{name: "wide png", file: "wide.png", payload: func(t *testing.T) []byte { return encode(t, "png", testImage(1200, 300, false)) }},
		{name: "png with alpha", file: "alpha.png", payload: func(t *testing.T) []byte { return encode(t, "png", testImage(64, 64, true)) }},
		{name: "tall jpeg", file: "tall.jpg", payload: func(t *testing.T) []byte { return encode(t, "jpeg", testImage(200, 900, false)) }},
		{name: "gif", file: "anim.gif", payload: func(t *testing.T) []byte { return encode(t, "gif", testImage(50, 40, false)) }},
	}

	synth := newTestSynth()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := Resolve(ConvertibleFile{Name: tt.file, Content: tt.payload(t)}, ToPDF)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			doc, err := synth.Synthesize(context.Background(), src)
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			assertPDF(t, doc, 1)
		})
	}
}

func TestSynthesize_ImageDecodeError(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"garbage":        []byte("definitely not an image"),
		"empty":          nil,
		"truncated jpeg": []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"),
	}
	synth := newTestSynth()
	for name, payload := range tests {
		_, err := synth.Synthesize(context.Background(), Source{Kind: KindImage, Name: "x.png", Payload: payload})
		if !errors.Is(err, ErrDecode) {
			t.Errorf("%s: Synthesize() error = %v, want ErrDecode", name, err)
		}
	}
}

func TestSynthesize_Validation(t *testing.T) {
	t.Parallel()

	doc, err := newTestSynth(WithValidation(true)).Convert(context.Background(), ConvertibleFile{Name: "a.txt", Content: []byte("checked")}, ToPDF)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	assertPDF(t, doc, 1)
}

// ---------------------------------------------------------------------------
// ConvertedDocument
// ---------------------------------------------------------------------------

func TestConvertedDocument_RepeatableDownloads(t *testing.T) {
	t.Parallel()

	doc := &ConvertedDocument{Name: "a.pdf", Payload: []byte("%PDF-payload")}
	for i := range 3 {
		rc := doc.Open()
		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("download %d: %v", i, err)
		}
		if err := rc.Close(); err != nil {
			t.Fatalf("download %d: Close() = %v", i, err)
		}
		if string(got) != "%PDF-payload" {
			t.Errorf("download %d = %q", i, got)
		}
	}

	var buf bytes.Buffer
	if n, err := doc.WriteTo(&buf); err != nil || n != int64(doc.Size()) {
		t.Errorf("WriteTo() = %d, %v", n, err)
	}
}

func TestOptions_Panics(t *testing.T) {
	t.Parallel()

	for name, fn := range map[string]func(){
		"font size": func() { WithFontSize(0) },
		"timeout":   func() { WithTimeout(-time.Second) },
		"page":      func() { WithPage(Page{}) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", name)
				}
			}()
			fn()
		}()
	}
}
