package terminal

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseRelease
	MouseWheelUp
	MouseWheelDown
)

// Raw mouse keycodes as reported in RawEvent.Key for mouse records
const (
	CodeMouseLeft      uint16 = 0xFFFF - 22
	CodeMouseRight     uint16 = 0xFFFF - 23
	CodeMouseMiddle    uint16 = 0xFFFF - 24
	CodeMouseRelease   uint16 = 0xFFFF - 25
	CodeMouseWheelUp   uint16 = 0xFFFF - 26
	CodeMouseWheelDown uint16 = 0xFFFF - 27
)

// mouseFromCode maps a raw mouse keycode to its button
// Returns false for codes outside the table
func mouseFromCode(code uint16) (MouseButton, bool) {
	switch code {
	case CodeMouseLeft:
		return MouseLeft, true
	case CodeMouseRight:
		return MouseRight, true
	case CodeMouseMiddle:
		return MouseMiddle, true
	case CodeMouseRelease:
		return MouseRelease, true
	case CodeMouseWheelUp:
		return MouseWheelUp, true
	case CodeMouseWheelDown:
		return MouseWheelDown, true
	default:
		return MouseLeft, false
	}
}

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "Left"
	case MouseRight:
		return "Right"
	case MouseMiddle:
		return "Middle"
	case MouseRelease:
		return "Release"
	case MouseWheelUp:
		return "WheelUp"
	case MouseWheelDown:
		return "WheelDown"
	default:
		return "Unknown"
	}
}
