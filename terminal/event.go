package terminal

import "unicode/utf8"

// Event type tags as returned by Surface.PollEvent and Surface.PeekEvent
// Negative tags are error codes
const (
	TagNone   = 0
	TagKey    = 1
	TagResize = 2
	TagMouse  = 3
)

// RawEvent is the fixed-width record filled by the surface
type RawEvent struct {
	Type uint8
	Mod  uint8
	Key  uint16
	Ch   uint32
	W    int32
	H    int32
	X    int32
	Y    int32
}

// Event is a decoded input event
// Concrete types: NoEvent, KeyEventRaw, KeyEvent, ResizeEvent, MouseEvent
type Event interface {
	isEvent()
}

// NoEvent reports that no input was pending
type NoEvent struct{}

// KeyEventRaw is an untranslated key record, produced only in raw mode
type KeyEventRaw struct {
	Mod uint8
	Key uint16
	Ch  uint32
}

// KeyEvent is a translated key
// Key is KeyNone when neither a known keycode nor a valid character was present
type KeyEvent struct {
	Key  Key
	Rune rune // Set when Key == KeyRune
}

// ResizeEvent reports new terminal dimensions
type ResizeEvent struct {
	Width  int32
	Height int32
}

// MouseEvent reports a mouse button at a cell position
type MouseEvent struct {
	Button MouseButton
	X      int32
	Y      int32
}

func (NoEvent) isEvent()     {}
func (KeyEventRaw) isEvent() {}
func (KeyEvent) isEvent()    {}
func (ResizeEvent) isEvent() {}
func (MouseEvent) isEvent()  {}

// Valid reports whether the event carries a key
func (e KeyEvent) Valid() bool {
	return e.Key != KeyNone
}

// Char returns the rune if this is a KeyRune event, or 0 otherwise
func (e KeyEvent) Char() rune {
	if e.Key == KeyRune {
		return e.Rune
	}
	return 0
}

// Decode classifies a raw record by its type tag
// With raw set, key records are returned verbatim as KeyEventRaw
// Never blocks; errors only for tags outside the known set
func Decode(tag int, ev *RawEvent, raw bool) (Event, error) {
	switch tag {
	case TagNone:
		return NoEvent{}, nil

	case TagKey:
		if raw {
			return KeyEventRaw{Mod: ev.Mod, Key: ev.Key, Ch: ev.Ch}, nil
		}
		if ev.Key == 0 {
			// Code points above MaxInt32 wrap negative and fail ValidRune
			r := rune(ev.Ch)
			if !utf8.ValidRune(r) {
				return KeyEvent{}, nil
			}
			return KeyEvent{Key: KeyRune, Rune: r}, nil
		}
		k, r := keyFromCode(ev.Key)
		return KeyEvent{Key: k, Rune: r}, nil

	case TagResize:
		return ResizeEvent{Width: ev.W, Height: ev.H}, nil

	case TagMouse:
		// Unrecognized codes degrade to Left rather than failing
		btn, _ := mouseFromCode(ev.Key)
		return MouseEvent{Button: btn, X: ev.X, Y: ev.Y}, nil

	default:
		return nil, eventErrorFromCode(tag)
	}
}
