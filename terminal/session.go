package terminal

import (
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// heldResource is a scoped resource released during teardown
type heldResource interface {
	release() error
}

// openStderrHold is replaced in tests
var openStderrHold = holdStderr

// noCopy flags accidental copies of a Session under go vet's copylocks check
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Session is the single live owner of the terminal surface.
// At most one Session exists per process; Open fails with ErrAlreadyOpen
// while another is live. A Session is not safe for concurrent use.
type Session struct {
	noCopy noCopy

	surface Surface
	stderr  heldResource
	guard   *runningGuard

	surfaceUp bool
	closed    bool
}

// Init opens a session on the default tcell surface
func Init(opts InitOptions) (*Session, error) {
	return Open(NewTcellSurface(), opts)
}

// Open acquires the process-wide session and initializes surface.
// On failure every resource acquired so far is released before returning
func Open(surface Surface, opts InitOptions) (*Session, error) {
	guard, ok := acquireRunning()
	if !ok {
		return nil, &InitError{Kind: InitAlreadyOpen}
	}

	s := &Session{surface: surface, guard: guard}

	if opts.BufferStderr {
		hold, err := openStderrHold()
		if err != nil {
			s.teardown()
			return nil, &InitError{Kind: InitBufferStderrFailed, Err: err}
		}
		s.stderr = hold
	}

	if code := surface.Init(); code != CodeOK {
		s.teardown()
		ierr := initErrorFromCode(code)
		if c, ok := surface.(initCauser); ok {
			ierr.Err = c.InitCause()
		}
		return nil, ierr
	}
	s.surfaceUp = true

	if opts.InputMode != InputCurrent {
		s.surface.SelectInputMode(int(opts.InputMode))
	}
	return s, nil
}

// teardown releases resources in fixed order: stderr hold, surface, guard.
// The guard goes last so nothing released earlier observes Running() == false
func (s *Session) teardown() error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"stderr", func() error {
			if s.stderr == nil {
				return nil
			}
			err := s.stderr.release()
			s.stderr = nil
			return err
		}},
		{"surface", func() error {
			if s.surfaceUp {
				s.surface.Shutdown()
				s.surfaceUp = false
			}
			return nil
		}},
		{"guard", func() error {
			s.guard.release()
			return nil
		}},
	}

	var errs []error
	for _, step := range steps {
		if err := step.run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close restores the terminal and releases the session.
// Safe to call multiple times; only the first call does work
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.teardown()
}

// Width returns the terminal width in cells
func (s *Session) Width() int {
	if s.closed {
		return 0
	}
	return s.surface.Width()
}

// Height returns the terminal height in cells
func (s *Session) Height() int {
	if s.closed {
		return 0
	}
	return s.surface.Height()
}

// Clear resets the back buffer
func (s *Session) Clear() {
	if s.closed {
		return
	}
	s.surface.Clear()
}

// Present writes all buffered changes to the terminal at once
func (s *Session) Present() {
	if s.closed {
		return
	}
	s.surface.Present()
}

// SetCursor moves the cursor to (x, y)
func (s *Session) SetCursor(x, y int) {
	if s.closed {
		return
	}
	s.surface.SetCursor(x, y)
}

// HideCursor hides the cursor
func (s *Session) HideCursor() {
	s.SetCursor(-1, -1)
}

// ChangeCell sets a single cell with raw Style words
func (s *Session) ChangeCell(x, y int, ch rune, fg, bg Style) {
	if s.closed {
		return
	}
	s.surface.ChangeCell(x, y, ch, uint16(fg), uint16(bg))
}

// Print writes str starting at (x, y); wide runes advance two cells
func (s *Session) Print(x, y int, sty Style, fg, bg Color, str string) {
	if s.closed {
		return
	}
	fgw, bgw := sty.Compose(fg), StyleFromColor(bg)
	for _, ch := range str {
		s.surface.ChangeCell(x, y, ch, uint16(fgw), uint16(bgw))
		x += max(1, runewidth.RuneWidth(ch))
	}
}

// PrintChar writes a single rune at (x, y)
func (s *Session) PrintChar(x, y int, sty Style, fg, bg Color, ch rune) {
	if s.closed {
		return
	}
	s.surface.ChangeCell(x, y, ch, uint16(sty.Compose(fg)), uint16(StyleFromColor(bg)))
}

// SetInputMode changes how ESC and mouse input are reported
func (s *Session) SetInputMode(mode InputMode) {
	if s.closed {
		return
	}
	s.surface.SelectInputMode(int(mode))
}

// PollEvent blocks until the surface reports an event and decodes it.
// There is no way to interrupt a pending poll; use PeekEvent for a bounded wait
func (s *Session) PollEvent(raw bool) (Event, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var ev RawEvent
	tag := s.surface.PollEvent(&ev)
	return Decode(tag, &ev, raw)
}

// PeekEvent waits up to timeout for an event and decodes it.
// Returns NoEvent when the timeout expires
func (s *Session) PeekEvent(timeout time.Duration, raw bool) (Event, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var ev RawEvent
	tag := s.surface.PeekEvent(&ev, int(max(timeout, 0)/time.Millisecond))
	return Decode(tag, &ev, raw)
}
