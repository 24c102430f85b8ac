package terminal

// Key represents a translated input key
type Key uint16

// Key constants
const (
	KeyNone Key = iota
	KeyRune     // Printable character (check KeyEvent.Rune)

	// Control keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Ctrl+letter (Ctrl+A = 0x01, Ctrl+Z = 0x1A)
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH // Never decoded, 0x08 is Backspace
	KeyCtrlI // Never decoded, 0x09 is Tab
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM // Never decoded, 0x0D is Enter
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ

	// Ctrl+special
	KeyCtrlBackslash
	KeyCtrlBracketRight
	KeyCtrlCaret
	KeyCtrlUnderscore
)

// Raw keycodes as reported in RawEvent.Key
// Values below 0x80 are ASCII, special keys count down from 0xFFFF
const (
	CodeCtrlA          uint16 = 0x01
	CodeCtrlC          uint16 = 0x03
	CodeCtrlG          uint16 = 0x07
	CodeCtrlZ          uint16 = 0x1A
	CodeBackspace      uint16 = 0x08
	CodeTab            uint16 = 0x09
	CodeEnter          uint16 = 0x0D
	CodeEsc            uint16 = 0x1B
	CodeCtrlBackslash  uint16 = 0x1C
	CodeCtrlRsqBracket uint16 = 0x1D
	CodeCtrl6          uint16 = 0x1E
	CodeCtrlSlash      uint16 = 0x1F
	CodeSpace          uint16 = 0x20
	CodeBackspace2     uint16 = 0x7F

	CodeF1         uint16 = 0xFFFF - 0
	CodeF12        uint16 = 0xFFFF - 11
	CodeInsert     uint16 = 0xFFFF - 12
	CodeDelete     uint16 = 0xFFFF - 13
	CodeHome       uint16 = 0xFFFF - 14
	CodeEnd        uint16 = 0xFFFF - 15
	CodePgUp       uint16 = 0xFFFF - 16
	CodePgDn       uint16 = 0xFFFF - 17
	CodeArrowUp    uint16 = 0xFFFF - 18
	CodeArrowDown  uint16 = 0xFFFF - 19
	CodeArrowLeft  uint16 = 0xFFFF - 20
	CodeArrowRight uint16 = 0xFFFF - 21
)

// Modifier flags as reported in RawEvent.Mod
const (
	ModAlt    uint8 = 0x01
	ModMotion uint8 = 0x02
)

var codeToKey = map[uint16]Key{
	CodeBackspace:      KeyBackspace,
	CodeBackspace2:     KeyBackspace,
	CodeTab:            KeyTab,
	CodeEnter:          KeyEnter,
	CodeEsc:            KeyEscape,
	CodeCtrlBackslash:  KeyCtrlBackslash,
	CodeCtrlRsqBracket: KeyCtrlBracketRight,
	CodeCtrl6:          KeyCtrlCaret,
	CodeCtrlSlash:      KeyCtrlUnderscore,

	CodeInsert:     KeyInsert,
	CodeDelete:     KeyDelete,
	CodeHome:       KeyHome,
	CodeEnd:        KeyEnd,
	CodePgUp:       KeyPageUp,
	CodePgDn:       KeyPageDown,
	CodeArrowUp:    KeyUp,
	CodeArrowDown:  KeyDown,
	CodeArrowLeft:  KeyLeft,
	CodeArrowRight: KeyRight,
}

func init() {
	for c := CodeCtrlA; c <= CodeCtrlZ; c++ {
		if _, taken := codeToKey[c]; taken {
			continue
		}
		codeToKey[c] = KeyCtrlA + Key(c-CodeCtrlA)
	}
	for i := uint16(0); i < 12; i++ {
		codeToKey[CodeF1-i] = KeyF1 + Key(i)
	}
}

// keyFromCode translates a non-zero raw keycode
// Space arrives as a keycode rather than a character
func keyFromCode(code uint16) (Key, rune) {
	if code == CodeSpace {
		return KeyRune, ' '
	}
	if k, ok := codeToKey[code]; ok {
		return k, 0
	}
	return KeyNone, 0
}
