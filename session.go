package toolbox

import (
	"context"
	"sync"
)

// Converter converts one file. *Synthesizer implements it.
type Converter interface {
	Convert(ctx context.Context, f ConvertibleFile, dir Direction) (*ConvertedDocument, error)
}

var _ Converter = (*Synthesizer)(nil)

// Session owns a mutable selection (file and direction) and its latest
// result. Any change to the selection discards the stored result and cancels
// the conversion in flight; a conversion that finishes after its selection
// changed returns ErrSuperseded and is not stored.
type Session struct {
	conv Converter

	mu     sync.Mutex
	run    uint64 // bumped on every selection change and every Convert
	file   *ConvertibleFile
	dir    Direction
	result *ConvertedDocument
	cancel context.CancelFunc
}

// NewSession returns an empty session with direction ToPDF.
func NewSession(conv Converter) *Session {
	return &Session{conv: conv, dir: ToPDF}
}

// Select replaces the selected file.
func (s *Session) Select(f ConvertibleFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = &f
	s.resetLocked()
}

// SetDirection changes the conversion direction.
func (s *Session) SetDirection(d Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = d
	s.resetLocked()
}

// Clear drops the selection.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = nil
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.run++
	s.result = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Selection returns the current file (nil when none) and direction.
func (s *Session) Selection() (*ConvertibleFile, Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil, s.dir
	}
	f := *s.file
	return &f, s.dir
}

// Result returns the stored document for the current selection.
func (s *Session) Result() (*ConvertedDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result != nil
}

// Convert converts the current selection and stores the result unless the
// selection changed or a newer Convert started in the meantime.
func (s *Session) Convert(ctx context.Context) (*ConvertedDocument, error) {
	s.mu.Lock()
	if s.file == nil {
		s.mu.Unlock()
		return nil, ErrNoSelection
	}
	s.resetLocked()
	run := s.run
	f, dir := *s.file, s.dir
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer cancel()
	doc, err := s.conv.Convert(ctx, f, dir)

	s.mu.Lock()
	defer s.mu.Unlock()
	if run != s.run {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	s.result = doc
	return doc, nil
}
