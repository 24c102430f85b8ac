package terminal

import (
	"bufio"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	ansiOutputBuffer = 64 * 1024
	ansiEventBuffer  = 256
	// ansiStopWait bounds Shutdown when the reader is stuck in a blocking read
	ansiStopWait = 200 * time.Millisecond
)

// AnsiOption configures an AnsiSurface
type AnsiOption func(*AnsiSurface)

// WithAnsiTTY drives the terminal device at path instead of stdin/stdout
func WithAnsiTTY(path string) AnsiOption {
	return func(a *AnsiSurface) {
		a.ttyPath = path
	}
}

// ansiCell is one back or front buffer entry
type ansiCell struct {
	ch     rune
	fg, bg Style
}

var blankCell = ansiCell{ch: ' '}

// ansiEvent carries a surface tag with its record from the reader goroutine
type ansiEvent struct {
	tag int
	ev  RawEvent
}

type ansiSize struct {
	width, height int
}

// AnsiSurface implements Surface by writing ANSI sequences directly to a
// raw-mode terminal, without a terminfo database.
// Output is double-buffered: Present writes only the cells that differ
// from what the terminal already shows
type AnsiSurface struct {
	ttyPath string
	fixed   ttyBackend

	backend ttyBackend
	initErr error
	out     *bufio.Writer

	width, height int
	back, front   []ansiCell
	frontValid    bool

	cursorX, cursorY int
	cursorShown      bool

	mode   InputMode
	parser *inputParser

	events   chan ansiEvent
	resizeCh chan ansiSize
	stopCh   chan struct{}
	doneCh   chan struct{}
}

var _ Surface = (*AnsiSurface)(nil)

// NewAnsiSurface creates an uninitialized surface
func NewAnsiSurface(opts ...AnsiOption) *AnsiSurface {
	a := &AnsiSurface{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// newAnsiSurfaceWithBackend creates a surface over an already constructed backend
func newAnsiSurfaceWithBackend(b ttyBackend) *AnsiSurface {
	return &AnsiSurface{fixed: b}
}

// backendWriter adapts a ttyBackend to io.Writer for the output buffer
type backendWriter struct {
	b ttyBackend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Init enters raw mode and the alternate screen, then starts the reader
func (a *AnsiSurface) Init() int {
	a.initErr = nil

	b := a.fixed
	if b == nil {
		b = newTTYBackend(a.ttyPath)
	}
	if err := b.Init(); err != nil {
		a.initErr = err
		return classifyInitErr(err)
	}

	a.backend = b
	a.out = bufio.NewWriterSize(backendWriter{b}, ansiOutputBuffer)
	a.resize(b.Size())
	a.cursorX, a.cursorY = -1, -1
	a.cursorShown = false

	a.mode = InputEsc
	a.parser = newInputParser(InputEsc)

	a.events = make(chan ansiEvent, ansiEventBuffer)
	a.resizeCh = make(chan ansiSize, 1)
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})

	b.SetResizeHandler(a.postResize)

	a.out.Write(csiAltScreenEnter)
	a.out.Write(csiCursorHide)
	a.out.Write(csiAutoWrapOff)
	a.out.Write(csiSGR0)
	a.out.Write(csiClear)
	a.out.Flush()

	go ansiReader{
		backend: b,
		parser:  a.parser,
		events:  a.events,
		stop:    a.stopCh,
		done:    a.doneCh,
	}.run()
	return CodeOK
}

// InitCause returns the error behind the last failed Init
func (a *AnsiSurface) InitCause() error {
	return a.initErr
}

// Shutdown stops the reader and restores the terminal
func (a *AnsiSurface) Shutdown() {
	if a.backend == nil {
		return
	}

	close(a.stopCh)
	select {
	case <-a.doneCh:
	case <-time.After(ansiStopWait):
	}

	if a.mode.Mouse() {
		a.out.Write(csiMouseOff)
	}
	a.out.Write(csiCursorShow)
	a.out.Write(csiAltScreenExit)
	// Wrap is re-enabled after leaving the alternate screen so the main buffer gets it
	a.out.Write(csiAutoWrapOn)
	a.out.Write(csiSGR0)
	a.out.Flush()

	a.backend.Fini()
	a.backend = nil
}

// postResize keeps only the latest size pending
func (a *AnsiSurface) postResize(w, h int) {
	sz := ansiSize{w, h}
	select {
	case a.resizeCh <- sz:
		return
	default:
	}
	select {
	case <-a.resizeCh:
	default:
	}
	select {
	case a.resizeCh <- sz:
	default:
	}
}

// resize reallocates both buffers; the next Present redraws everything
func (a *AnsiSurface) resize(w, h int) {
	a.width, a.height = w, h
	size := w * h
	a.back = make([]ansiCell, size)
	a.front = make([]ansiCell, size)
	for i := range a.back {
		a.back[i] = blankCell
	}
	a.frontValid = false
}

func (a *AnsiSurface) Width() int  { return a.width }
func (a *AnsiSurface) Height() int { return a.height }

// Clear blanks the back buffer
func (a *AnsiSurface) Clear() {
	for i := range a.back {
		a.back[i] = blankCell
	}
}

func (a *AnsiSurface) ChangeCell(x, y int, ch rune, fg, bg uint16) {
	if x < 0 || y < 0 || x >= a.width || y >= a.height {
		return
	}
	a.back[y*a.width+x] = ansiCell{ch: ch, fg: Style(fg), bg: Style(bg)}
}

func (a *AnsiSurface) SetCursor(x, y int) {
	if x < 0 || y < 0 {
		a.cursorX, a.cursorY = -1, -1
		return
	}
	a.cursorX, a.cursorY = x, y
}

// Present writes the cells that differ from the front buffer, then places
// the cursor
func (a *AnsiSurface) Present() {
	w := a.out
	if !a.frontValid {
		w.Write(csiSGR0)
		w.Write(csiClear)
	}

	curX, curY := -1, -1
	var lastFg, lastBg Style
	styleValid := false

	for y := 0; y < a.height; y++ {
		row := y * a.width
		for x := 0; x < a.width; {
			idx := row + x
			c := a.back[idx]
			if a.frontValid && c == a.front[idx] {
				x++
				continue
			}

			if curY == y && x > curX && curX >= 0 {
				writeCursorForward(w, x-curX)
			} else if curX != x || curY != y {
				writeCursorPos(w, x, y)
			}

			if !styleValid || c.fg != lastFg || c.bg != lastBg {
				writeSGR(w, c.fg, c.bg)
				lastFg, lastBg, styleValid = c.fg, c.bg, true
			}

			ch := c.ch
			if ch == 0 {
				ch = ' '
			}
			w.WriteRune(ch)
			a.front[idx] = c

			adv := runewidth.RuneWidth(ch)
			if adv == 2 && x+1 < a.width {
				// The terminal draws over the right half itself
				a.front[idx+1] = a.back[idx+1]
			} else if adv < 1 {
				adv = 1
			}
			x += adv
			curX, curY = x, y
		}
	}
	a.frontValid = true

	if styleValid {
		w.Write(csiSGR0)
	}
	if a.cursorX >= 0 && a.cursorX < a.width && a.cursorY < a.height {
		writeCursorPos(w, a.cursorX, a.cursorY)
		if !a.cursorShown {
			w.Write(csiCursorShow)
			a.cursorShown = true
		}
	} else if a.cursorShown {
		w.Write(csiCursorHide)
		a.cursorShown = false
	}
	w.Flush()
}

// SelectInputMode applies mode; InputCurrent leaves the mode unchanged
// A mode with neither Esc nor Alt set gets Esc
func (a *AnsiSurface) SelectInputMode(mode int) {
	m := InputMode(mode)
	if m == InputCurrent {
		return
	}
	if m&(InputEsc|InputAlt) == 0 {
		m |= InputEsc
	}

	switch {
	case m.Mouse() && !a.mode.Mouse():
		a.out.Write(csiMouseOn)
	case !m.Mouse() && a.mode.Mouse():
		a.out.Write(csiMouseOff)
	}
	a.out.Flush()

	a.mode = m
	a.parser.setMode(m)
}

// ansiReader is the state owned by one reader goroutine
type ansiReader struct {
	backend ttyBackend
	parser  *inputParser
	events  chan<- ansiEvent
	stop    <-chan struct{}
	done    chan<- struct{}
}

// run feeds terminal input through the parser until stopped
func (r ansiReader) run() {
	defer close(r.done)

	for {
		data, err := r.backend.Read(r.stop)
		if err != nil {
			r.send(ansiEvent{tag: CodeEventError})
			return
		}

		var evs []RawEvent
		if len(data) == 0 {
			select {
			case <-r.stop:
				return
			default:
			}
			evs = r.parser.flush()
		} else {
			evs = r.parser.feed(data)
		}

		for _, ev := range evs {
			if !r.send(ansiEvent{tag: int(ev.Type), ev: ev}) {
				return
			}
		}
	}
}

func (r ansiReader) send(e ansiEvent) bool {
	select {
	case r.events <- e:
		return true
	case <-r.stop:
		return false
	}
}

// PollEvent blocks until an event is available
func (a *AnsiSurface) PollEvent(ev *RawEvent) int {
	return a.wait(ev, nil)
}

// PeekEvent waits at most timeoutMs for an event
func (a *AnsiSurface) PeekEvent(ev *RawEvent, timeoutMs int) int {
	timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer timer.Stop()
	return a.wait(ev, timer.C)
}

// wait delivers the next input or resize event; a nil timeout blocks
func (a *AnsiSurface) wait(ev *RawEvent, timeout <-chan time.Time) int {
	select {
	case e := <-a.events:
		*ev = e.ev
		return e.tag
	case sz := <-a.resizeCh:
		return a.deliverResize(ev, sz)
	case <-a.doneCh:
		// Reader gone; hand out anything it queued before exiting
		select {
		case e := <-a.events:
			*ev = e.ev
			return e.tag
		default:
		}
		*ev = RawEvent{}
		return CodeEventError
	case <-timeout:
		*ev = RawEvent{}
		return TagNone
	}
}

func (a *AnsiSurface) deliverResize(ev *RawEvent, sz ansiSize) int {
	if sz.width != a.width || sz.height != a.height {
		a.resize(sz.width, sz.height)
	}
	*ev = RawEvent{Type: TagResize, W: int32(sz.width), H: int32(sz.height)}
	return TagResize
}
