// Package toolbox converts plain text and raster images to PDF and builds
// calendar month grids with a holiday overlay.
//
// # Quick Start
//
// Resolve a file into a Source, then synthesize it:
//
//	synth := toolbox.NewSynthesizer()
//	src, err := toolbox.Resolve(toolbox.ConvertibleFile{
//	    Name:    "notes.txt",
//	    Content: data,
//	}, toolbox.ToPDF)
//	if err != nil {
//	    log.Fatal(err) // errors.Is(err, toolbox.ErrUnsupportedFormat)
//	}
//	doc, err := synth.Synthesize(ctx, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(doc.Name, doc.Payload, 0644) // "notes.pdf"
//
// # Text and Images
//
// Text is word-wrapped to the usable page width with the font's own metrics
// and laid out from the top margin at a fixed line height, starting a new
// page when a line would cross the bottom margin. Images (JPEG, PNG, GIF,
// BMP, TIFF, WebP) are scaled to fit the page, aspect preserved, and
// centred on a single page.
//
// Use functional options to change the geometry:
//
//	page, _ := toolbox.NewPage("letter", "landscape", 0, 0)
//	synth := toolbox.NewSynthesizer(
//	    toolbox.WithPage(page),
//	    toolbox.WithFontSize(12),
//	    toolbox.WithValidation(true),
//	)
//
// # Latest Selection Wins
//
// Session holds the current file and direction for interactive callers.
// Selecting another file cancels the conversion in flight, and a conversion
// that completes for a stale selection returns ErrSuperseded.
//
// # Calendar
//
// BuildMonth is pure and total for months 1-12. Calendar adds holidays from
// a HolidaySource after the grid is built; a failed fetch leaves the grid
// without overlay and records the error in MonthView.HolidayErr.
package toolbox
