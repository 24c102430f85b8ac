package terminal

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeTTY is an in-memory ttyBackend
type fakeTTY struct {
	mu       sync.Mutex
	out      bytes.Buffer
	initErr  error
	readErr  error
	inited   bool
	finished bool
	width    int
	height   int

	input  chan []byte
	resize func(w, h int)
}

func newFakeTTY(w, h int) *fakeTTY {
	return &fakeTTY{width: w, height: h, input: make(chan []byte, 16)}
}

func (f *fakeTTY) Init() error {
	if f.initErr != nil {
		return f.initErr
	}
	f.inited = true
	return nil
}

func (f *fakeTTY) Fini() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = true
}

func (f *fakeTTY) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *fakeTTY) Write(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.Write(p)
	return nil
}

func (f *fakeTTY) Read(stop <-chan struct{}) ([]byte, error) {
	select {
	case data := <-f.input:
		return data, nil
	case <-stop:
		return nil, nil
	case <-time.After(10 * time.Millisecond):
		f.mu.Lock()
		err := f.readErr
		f.mu.Unlock()
		return nil, err
	}
}

func (f *fakeTTY) SetResizeHandler(handler func(w, h int)) {
	f.resize = handler
}

// drain returns and clears everything written so far
func (f *fakeTTY) drain() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.out.String()
	f.out.Reset()
	return s
}

func newFakeAnsi(t *testing.T, w, h int) (*AnsiSurface, *fakeTTY) {
	t.Helper()
	tty := newFakeTTY(w, h)
	surf := newAnsiSurfaceWithBackend(tty)
	if code := surf.Init(); code != CodeOK {
		t.Fatalf("Init failed with code %d: %v", code, surf.InitCause())
	}
	t.Cleanup(surf.Shutdown)
	return surf, tty
}

func peekAnsi(t *testing.T, surf *AnsiSurface) (int, RawEvent) {
	t.Helper()
	var ev RawEvent
	tag := surf.PeekEvent(&ev, 2000)
	if tag == TagNone {
		t.Fatal("Timed out waiting for event")
	}
	return tag, ev
}

// TestAnsiSurfaceLifecycle verifies setup and restore sequences
func TestAnsiSurfaceLifecycle(t *testing.T) {
	tty := newFakeTTY(40, 10)
	surf := newAnsiSurfaceWithBackend(tty)

	if code := surf.Init(); code != CodeOK {
		t.Fatalf("Init failed with code %d", code)
	}
	if surf.Width() != 40 || surf.Height() != 10 {
		t.Errorf("Expected 40x10, got %dx%d", surf.Width(), surf.Height())
	}

	setup := tty.drain()
	for _, seq := range [][]byte{csiAltScreenEnter, csiCursorHide, csiAutoWrapOff} {
		if !strings.Contains(setup, string(seq)) {
			t.Errorf("Expected setup output to contain %q, got %q", seq, setup)
		}
	}

	surf.SelectInputMode(int(InputAltMouse))
	surf.Shutdown()

	teardown := tty.drain()
	for _, seq := range [][]byte{csiMouseOn, csiMouseOff, csiCursorShow, csiAltScreenExit, csiAutoWrapOn} {
		if !strings.Contains(teardown, string(seq)) {
			t.Errorf("Expected output to contain %q, got %q", seq, teardown)
		}
	}
	if !strings.HasSuffix(teardown, string(csiSGR0)) {
		t.Errorf("Expected teardown to end with an attribute reset, got %q", teardown)
	}
	if !tty.finished {
		t.Error("Expected backend Fini on Shutdown")
	}

	// Second shutdown is a no-op
	surf.Shutdown()
	if out := tty.drain(); out != "" {
		t.Errorf("Expected no output from repeated Shutdown, got %q", out)
	}
}

// TestAnsiSurfaceInitErrors verifies backend errors map to init codes
func TestAnsiSurfaceInitErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errDumbTerminal, CodeUnsupportedTerminal},
		{errNoBackend, CodeUnsupportedTerminal},
		{errNotTerminal, CodeFailedToOpenTTY},
	}
	for _, tt := range tests {
		tty := newFakeTTY(80, 24)
		tty.initErr = tt.err
		surf := newAnsiSurfaceWithBackend(tty)

		if code := surf.Init(); code != tt.want {
			t.Errorf("Init with %v: expected code %d, got %d", tt.err, tt.want, code)
		}
		if surf.InitCause() != tt.err {
			t.Errorf("Expected InitCause %v, got %v", tt.err, surf.InitCause())
		}
		// Shutdown after a failed Init must not touch the backend
		surf.Shutdown()
		if tty.finished {
			t.Error("Expected no Fini after failed Init")
		}
	}
}

// TestAnsiSurfacePresentDiff verifies only changed cells are written
func TestAnsiSurfacePresentDiff(t *testing.T) {
	surf, tty := newFakeAnsi(t, 10, 3)

	surf.Present()
	tty.drain()

	fg := StyleBold | StyleFromColor(ColorRed)
	surf.ChangeCell(2, 1, 'A', uint16(fg), uint16(StyleFromColor(ColorDefault)))
	surf.ChangeCell(3, 1, 'B', uint16(fg), uint16(StyleFromColor(ColorDefault)))
	surf.Present()

	want := "\x1b[2;3H" + "\x1b[0;1;31;49m" + "AB" + "\x1b[0m"
	if got := tty.drain(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	// Nothing changed
	surf.Present()
	if got := tty.drain(); got != "" {
		t.Errorf("Expected no output for an unchanged frame, got %q", got)
	}

	// Skipping an unchanged cell moves forward instead of repositioning
	surf.ChangeCell(0, 2, 'x', 0, 0)
	surf.ChangeCell(2, 2, 'y', 0, 0)
	surf.Present()
	want = "\x1b[3;1H" + "\x1b[0;39;49m" + "x" + "\x1b[C" + "y" + "\x1b[0m"
	if got := tty.drain(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	// Clear only rewrites what was drawn
	surf.Clear()
	surf.Present()
	got := tty.drain()
	if strings.Contains(got, "A") || strings.Count(got, " ") != 4 {
		t.Errorf("Expected four blanked cells after Clear, got %q", got)
	}
}

// TestAnsiSurfaceCursor verifies cursor placement and hiding
func TestAnsiSurfaceCursor(t *testing.T) {
	surf, tty := newFakeAnsi(t, 10, 3)
	surf.Present()
	tty.drain()

	surf.SetCursor(4, 2)
	surf.Present()
	if got, want := tty.drain(), "\x1b[3;5H"+string(csiCursorShow); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	surf.SetCursor(-1, -1)
	surf.Present()
	if got, want := tty.drain(), string(csiCursorHide); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

// TestAnsiSurfaceOutOfBounds verifies cells outside the grid are ignored
func TestAnsiSurfaceOutOfBounds(t *testing.T) {
	surf, _ := newFakeAnsi(t, 4, 2)
	surf.ChangeCell(-1, 0, 'x', 0, 0)
	surf.ChangeCell(4, 0, 'x', 0, 0)
	surf.ChangeCell(0, 2, 'x', 0, 0)
	for i, c := range surf.back {
		if c != blankCell {
			t.Errorf("Expected cell %d blank, got %+v", i, c)
		}
	}
}

// TestAnsiSurfaceInput verifies bytes from the backend arrive as events
func TestAnsiSurfaceInput(t *testing.T) {
	surf, tty := newFakeAnsi(t, 80, 24)

	tty.input <- []byte("\x1b[Aq")
	var got []RawEvent
	for i := 0; i < 2; i++ {
		_, ev := peekAnsi(t, surf)
		got = append(got, ev)
	}
	want := []RawEvent{
		{Type: TagKey, Key: CodeArrowUp},
		{Type: TagKey, Ch: 'q'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Events mismatch (-want +got):\n%s", diff)
	}

	// A lone ESC is delivered after the read times out
	tty.input <- []byte("\x1b")
	if _, ev := peekAnsi(t, surf); ev.Key != CodeEsc {
		t.Errorf("Expected Esc, got %+v", ev)
	}

	surf.SelectInputMode(int(InputEscMouse))
	tty.input <- []byte("\x1b[<0;3;2M")
	tag, ev := peekAnsi(t, surf)
	if tag != TagMouse || ev.Key != CodeMouseLeft || ev.X != 2 || ev.Y != 1 {
		t.Errorf("Expected left click at 2,1, got tag %d %+v", tag, ev)
	}
}

// TestAnsiSurfacePeekTimeout verifies an idle peek returns TagNone
func TestAnsiSurfacePeekTimeout(t *testing.T) {
	surf, _ := newFakeAnsi(t, 80, 24)

	var ev RawEvent
	if tag := surf.PeekEvent(&ev, 30); tag != TagNone {
		t.Errorf("Expected TagNone, got %d", tag)
	}
}

// TestAnsiSurfaceResize verifies resize events coalesce and resize the buffers
func TestAnsiSurfaceResize(t *testing.T) {
	surf, tty := newFakeAnsi(t, 80, 24)

	tty.resize(100, 30)
	tty.resize(120, 40)

	tag, ev := peekAnsi(t, surf)
	if tag != TagResize {
		t.Fatalf("Expected resize tag, got %d", tag)
	}
	if ev.W != 120 || ev.H != 40 {
		t.Errorf("Expected latest size 120x40, got %dx%d", ev.W, ev.H)
	}
	if surf.Width() != 120 || surf.Height() != 40 || len(surf.back) != 120*40 {
		t.Errorf("Expected buffers resized to 120x40, got %dx%d (%d cells)", surf.Width(), surf.Height(), len(surf.back))
	}

	var next RawEvent
	if tag := surf.PeekEvent(&next, 30); tag != TagNone {
		t.Errorf("Expected coalesced resizes, got extra tag %d", tag)
	}
}

// TestAnsiSurfaceReadError verifies a dead input stream reports an event error
func TestAnsiSurfaceReadError(t *testing.T) {
	surf, tty := newFakeAnsi(t, 80, 24)

	tty.mu.Lock()
	tty.readErr = errNotTerminal
	tty.mu.Unlock()

	tag, _ := peekAnsi(t, surf)
	if tag != CodeEventError {
		t.Errorf("Expected event error tag, got %d", tag)
	}
	// Later calls keep reporting the error instead of blocking
	var ev RawEvent
	if tag := surf.PollEvent(&ev); tag != CodeEventError {
		t.Errorf("Expected event error tag after reader exit, got %d", tag)
	}
}

// TestAnsiSurfaceSession verifies a Session drives the ANSI surface end to end
func TestAnsiSurfaceSession(t *testing.T) {
	tty := newFakeTTY(20, 5)
	sess, err := Open(newAnsiSurfaceWithBackend(tty), InitOptions{InputMode: InputEsc})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	sess.Print(0, 0, 0, ColorDefault, ColorDefault, "hi")
	sess.Present()
	if out := tty.drain(); !strings.Contains(out, "hi") {
		t.Errorf("Expected printed text in output, got %q", out)
	}

	tty.input <- []byte("z")
	ev, err := sess.PeekEvent(2*time.Second, false)
	if err != nil {
		t.Fatalf("PeekEvent failed: %v", err)
	}
	if ke, ok := ev.(KeyEvent); !ok || ke.Rune != 'z' {
		t.Errorf("Expected key event 'z', got %#v", ev)
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !tty.finished {
		t.Error("Expected backend restored on Close")
	}
}
