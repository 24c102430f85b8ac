package terminal

import (
	"fmt"
	"strings"
)

// InputMode selects how ESC and mouse input are reported
type InputMode uint8

const (
	// InputCurrent leaves the surface's mode unchanged
	InputCurrent InputMode = 0x00
	// InputEsc: an unmatched ESC sequence reports ESC as KeyEscape
	InputEsc InputMode = 0x01
	// InputAlt: an unmatched ESC sequence sets ModAlt on the next key
	InputAlt InputMode = 0x02
	// InputEscMouse is InputEsc with mouse reporting
	InputEscMouse InputMode = 0x05
	// InputAltMouse is InputAlt with mouse reporting
	InputAltMouse InputMode = 0x06
)

// InputMouse is the mouse reporting bit of an InputMode
const InputMouse InputMode = 0x04

var inputModeNames = map[InputMode]string{
	InputCurrent:  "current",
	InputEsc:      "esc",
	InputAlt:      "alt",
	InputEscMouse: "esc_mouse",
	InputAltMouse: "alt_mouse",
}

// String returns the config name of the mode
func (m InputMode) String() string {
	if name, ok := inputModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("input_mode(%d)", uint8(m))
}

// Mouse reports whether mouse events are enabled by m
func (m InputMode) Mouse() bool {
	return m&InputMouse != 0
}

// ParseInputMode resolves a config name, case-insensitive
// Accepts "-" in place of "_"
func ParseInputMode(s string) (InputMode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if name == "" {
		return InputCurrent, nil
	}
	for m, n := range inputModeNames {
		if n == name {
			return m, nil
		}
	}
	return InputCurrent, fmt.Errorf("unknown input mode %q", s)
}

// InitOptions configure Open and Init
type InitOptions struct {
	// InputMode is applied right after the surface initializes
	// InputCurrent leaves the surface default in place
	InputMode InputMode

	// BufferStderr holds everything written to file descriptor 2 while the
	// session is open and writes it to the real stderr on Close. Output
	// written by child processes that inherited fd 2 is held as well.
	// Close does not wait for such children; what they write afterwards is lost
	BufferStderr bool
}

// DefaultInitOptions returns {InputCurrent, no stderr buffering}
func DefaultInitOptions() InitOptions {
	return InitOptions{InputMode: InputCurrent}
}
