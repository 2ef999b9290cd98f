package toolbox

import (
	"bytes"
	"io"
)

// ConvertedDocument is a finished PDF. It is never mutated after creation,
// so downloads can be repeated.
type ConvertedDocument struct {
	Name    string
	Payload []byte
	Pages   int
}

// Open returns a fresh reader over the payload. Each download gets its own
// reader; closing it does not affect the document.
func (d *ConvertedDocument) Open() io.ReadSeekCloser {
	return readSeekNopCloser{bytes.NewReader(d.Payload)}
}

// WriteTo writes the payload to w.
func (d *ConvertedDocument) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Payload)
	return int64(n), err
}

// Size returns the payload length in bytes.
func (d *ConvertedDocument) Size() int { return len(d.Payload) }

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }
