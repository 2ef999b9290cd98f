// Package pdfcheck validates produced PDF bytes and counts their pages.
package pdfcheck

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrInvalidPDF is returned when the payload is not a well-formed PDF.
var ErrInvalidPDF = errors.New("invalid PDF")

var disableConfigDir sync.Once

func config() *model.Configuration {
	// pdfcpu otherwise writes a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// Validate checks that payload parses as a PDF.
func Validate(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidPDF)
	}
	if err := api.Validate(bytes.NewReader(payload), config()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return nil
}

// PageCount returns the number of pages in payload.
func PageCount(payload []byte) (int, error) {
	if len(payload) == 0 {
		return 0, fmt.Errorf("%w: empty payload", ErrInvalidPDF)
	}
	n, err := api.PageCount(bytes.NewReader(payload), config())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return n, nil
}
