package terminal

import (
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
)

// tcellEventBuffer sizes the channel fed by tcell's event loop
const tcellEventBuffer = 64

// TcellOption configures a TcellSurface
type TcellOption func(*TcellSurface)

// WithScreen uses screen instead of opening the controlling terminal.
// The screen is re-initialized on every Init, which suits tcell.SimulationScreen
func WithScreen(screen tcell.Screen) TcellOption {
	return func(t *TcellSurface) {
		t.fixed = screen
	}
}

// WithTTY opens the terminal device at path instead of /dev/tty
func WithTTY(path string) TcellOption {
	return func(t *TcellSurface) {
		t.ttyPath = path
	}
}

// TcellSurface implements Surface on top of a tcell.Screen
type TcellSurface struct {
	fixed   tcell.Screen
	ttyPath string

	screen  tcell.Screen
	initErr error

	events chan tcell.Event
	quit   chan struct{}

	mode        InputMode
	lastButtons tcell.ButtonMask
	pending     []RawEvent
}

var _ Surface = (*TcellSurface)(nil)

// NewTcellSurface creates an uninitialized surface
func NewTcellSurface(opts ...TcellOption) *TcellSurface {
	t := &TcellSurface{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init opens and initializes the screen and starts event delivery
func (t *TcellSurface) Init() int {
	t.initErr = nil

	screen := t.fixed
	if screen == nil {
		s, err := t.openScreen()
		if err != nil {
			t.initErr = err
			return classifyInitErr(err)
		}
		screen = s
	}

	if err := screen.Init(); err != nil {
		t.initErr = err
		return classifyInitErr(err)
	}

	t.screen = screen
	t.events = make(chan tcell.Event, tcellEventBuffer)
	t.quit = make(chan struct{})
	t.mode = InputEsc
	t.lastButtons = tcell.ButtonNone
	t.pending = nil

	go screen.ChannelEvents(t.events, t.quit)
	return CodeOK
}

func (t *TcellSurface) openScreen() (tcell.Screen, error) {
	if t.ttyPath == "" {
		return tcell.NewScreen()
	}
	tty, err := tcell.NewDevTtyFromDev(t.ttyPath)
	if err != nil {
		// tcell reports a non-terminal device with a bare error
		return nil, &os.PathError{Op: "open tty", Path: t.ttyPath, Err: err}
	}
	return tcell.NewTerminfoScreenFromTty(tty)
}

// InitCause returns the error behind the last failed Init
func (t *TcellSurface) InitCause() error {
	return t.initErr
}

// Shutdown stops event delivery and restores the terminal
func (t *TcellSurface) Shutdown() {
	if t.screen == nil {
		return
	}
	close(t.quit)
	t.screen.Fini()
	t.screen = nil
}

func (t *TcellSurface) Width() int {
	w, _ := t.screen.Size()
	return w
}

func (t *TcellSurface) Height() int {
	_, h := t.screen.Size()
	return h
}

func (t *TcellSurface) Clear() {
	t.screen.Clear()
}

func (t *TcellSurface) Present() {
	t.screen.Show()
}

func (t *TcellSurface) SetCursor(x, y int) {
	if x < 0 || y < 0 {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(x, y)
}

func (t *TcellSurface) ChangeCell(x, y int, ch rune, fg, bg uint16) {
	t.screen.SetContent(x, y, ch, nil, tcellStyle(Style(fg), Style(bg)))
}

// tcellStyle converts Style words into a tcell.Style
// Attribute bits are honored on either word
func tcellStyle(fg, bg Style) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(tcellColor(fg.Color())).
		Background(tcellColor(bg.Color()))

	attrs := (fg | bg).Attribs()
	if attrs.Has(StyleBold) {
		st = st.Bold(true)
	}
	if attrs.Has(StyleUnderline) {
		st = st.Underline(true)
	}
	if attrs.Has(StyleReverse) {
		st = st.Reverse(true)
	}
	return st
}

func tcellColor(c Color) tcell.Color {
	if c == ColorDefault || c > ColorWhite {
		return tcell.ColorDefault
	}
	// Black is palette entry 0
	return tcell.PaletteColor(int(c) - 1)
}

// SelectInputMode applies mode; InputCurrent leaves the mode unchanged
// A mode with neither Esc nor Alt set gets Esc
func (t *TcellSurface) SelectInputMode(mode int) {
	m := InputMode(mode)
	if m == InputCurrent {
		return
	}
	if m&(InputEsc|InputAlt) == 0 {
		m |= InputEsc
	}
	t.mode = m

	if m.Mouse() {
		t.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	} else {
		t.screen.DisableMouse()
	}
}

// PollEvent blocks until a translatable event arrives
func (t *TcellSurface) PollEvent(ev *RawEvent) int {
	if tag, ok := t.popPending(ev); ok {
		return tag
	}
	for tev := range t.events {
		if tag, ok := t.translate(tev, ev); ok {
			return tag
		}
	}
	// Event loop ended underneath us
	*ev = RawEvent{}
	return CodeEventError
}

// PeekEvent waits at most timeoutMs for a translatable event
func (t *TcellSurface) PeekEvent(ev *RawEvent, timeoutMs int) int {
	if tag, ok := t.popPending(ev); ok {
		return tag
	}

	timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer timer.Stop()

	for {
		select {
		case tev, ok := <-t.events:
			if !ok {
				*ev = RawEvent{}
				return CodeEventError
			}
			if tag, ok := t.translate(tev, ev); ok {
				return tag
			}
		case <-timer.C:
			*ev = RawEvent{}
			return TagNone
		}
	}
}

func (t *TcellSurface) popPending(ev *RawEvent) (int, bool) {
	if len(t.pending) == 0 {
		return 0, false
	}
	*ev = t.pending[0]
	t.pending = t.pending[1:]
	return int(ev.Type), true
}

// translate fills ev from a tcell event
// Returns false for events with no raw representation (focus, paste, interrupts)
func (t *TcellSurface) translate(tev tcell.Event, ev *RawEvent) (int, bool) {
	*ev = RawEvent{}

	switch e := tev.(type) {
	case *tcell.EventKey:
		code, ch, ok := rawKey(e)
		if !ok {
			return 0, false
		}
		if e.Modifiers()&tcell.ModAlt != 0 {
			if t.mode&InputAlt == 0 {
				// Esc mode reports the prefix as its own key
				*ev = RawEvent{Type: TagKey, Key: CodeEsc}
				t.pending = append(t.pending, RawEvent{Type: TagKey, Key: code, Ch: ch})
				return TagKey, true
			}
			ev.Mod = ModAlt
		}
		ev.Type, ev.Key, ev.Ch = TagKey, code, ch
		return TagKey, true

	case *tcell.EventResize:
		w, h := e.Size()
		ev.Type, ev.W, ev.H = TagResize, int32(w), int32(h)
		return TagResize, true

	case *tcell.EventMouse:
		// Wheel notches are one-shot; only held buttons carry over between events
		wheel := e.Buttons() & tcellWheelMask
		btn := e.Buttons() &^ tcellWheelMask
		prev := t.lastButtons
		t.lastButtons = btn
		x, y := e.Position()
		if wheel != 0 {
			ev.Type, ev.Key, ev.X, ev.Y = TagMouse, rawMouse(wheel), int32(x), int32(y)
			return TagMouse, true
		}
		if btn == tcell.ButtonNone && prev == tcell.ButtonNone {
			// Bare motion; not reported in the supported modes
			return 0, false
		}
		ev.Type, ev.Key, ev.X, ev.Y = TagMouse, rawMouse(btn), int32(x), int32(y)
		if btn != tcell.ButtonNone && btn == prev {
			ev.Mod = ModMotion
		}
		return TagMouse, true

	case *tcell.EventError:
		return CodeEventError, true

	default:
		return 0, false
	}
}

// tcellSpecialKeys maps tcell named keys to raw codes
var tcellSpecialKeys = map[tcell.Key]uint16{
	tcell.KeyUp:     CodeArrowUp,
	tcell.KeyDown:   CodeArrowDown,
	tcell.KeyLeft:   CodeArrowLeft,
	tcell.KeyRight:  CodeArrowRight,
	tcell.KeyInsert: CodeInsert,
	tcell.KeyDelete: CodeDelete,
	tcell.KeyHome:   CodeHome,
	tcell.KeyEnd:    CodeEnd,
	tcell.KeyPgUp:   CodePgUp,
	tcell.KeyPgDn:   CodePgDn,
}

func init() {
	for i := 0; i < 12; i++ {
		tcellSpecialKeys[tcell.KeyF1+tcell.Key(i)] = CodeF1 - uint16(i)
	}
}

// rawKey converts a tcell key event to (keycode, char)
// Characters travel with keycode 0; space is the exception
func rawKey(e *tcell.EventKey) (uint16, uint32, bool) {
	k := e.Key()
	switch {
	case k == tcell.KeyRune:
		if e.Rune() == ' ' {
			return CodeSpace, 0, true
		}
		return 0, uint32(e.Rune()), true
	case k >= tcell.KeyCtrlSpace && k <= tcell.KeyCtrlUnderscore:
		return uint16(k - tcell.KeyCtrlSpace), 0, true
	case k == tcell.KeyDEL:
		return CodeBackspace2, 0, true
	case k >= tcell.KeyNUL && k < tcell.KeyDEL:
		return uint16(k), 0, true
	}
	code, ok := tcellSpecialKeys[k]
	return code, 0, ok
}

const tcellWheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

// rawMouse converts a tcell button mask to a raw mouse code
// The lowest set button wins when several are held
func rawMouse(btn tcell.ButtonMask) uint16 {
	switch {
	case btn&tcell.Button1 != 0:
		return CodeMouseLeft
	case btn&tcell.Button2 != 0:
		return CodeMouseRight
	case btn&tcell.Button3 != 0:
		return CodeMouseMiddle
	case btn&tcell.WheelUp != 0:
		return CodeMouseWheelUp
	case btn&tcell.WheelDown != 0:
		return CodeMouseWheelDown
	case btn == tcell.ButtonNone:
		return CodeMouseRelease
	default:
		// Side buttons have no raw code; reported as an undecodable mouse code
		return 0
	}
}
