package terminal

import "testing"

// TestParseInputMode verifies config names round-trip and reject junk
func TestParseInputMode(t *testing.T) {
	for _, m := range []InputMode{InputCurrent, InputEsc, InputAlt, InputEscMouse, InputAltMouse} {
		got, err := ParseInputMode(m.String())
		if err != nil {
			t.Errorf("ParseInputMode(%q) failed: %v", m.String(), err)
		}
		if got != m {
			t.Errorf("ParseInputMode(%q) = %v, want %v", m.String(), got, m)
		}
	}

	aliases := map[string]InputMode{
		"":            InputCurrent,
		"ESC":         InputEsc,
		" Alt-Mouse ": InputAltMouse,
		"esc-mouse":   InputEscMouse,
	}
	for in, want := range aliases {
		got, err := ParseInputMode(in)
		if err != nil || got != want {
			t.Errorf("ParseInputMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseInputMode("vim"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

// TestInputModeBits verifies the mouse bit composes the mouse modes
func TestInputModeBits(t *testing.T) {
	if InputEsc|InputMouse != InputEscMouse || InputAlt|InputMouse != InputAltMouse {
		t.Error("Mouse modes must be base modes with the mouse bit")
	}
	if InputEsc.Mouse() || !InputAltMouse.Mouse() {
		t.Error("Mouse() reports the wrong bit")
	}
	if got := InputMode(0x40).String(); got != "input_mode(64)" {
		t.Errorf("Unexpected name for unknown mode: %q", got)
	}
}

// TestDefaultInitOptions verifies the defaults leave the terminal untouched
func TestDefaultInitOptions(t *testing.T) {
	opts := DefaultInitOptions()
	if opts.InputMode != InputCurrent || opts.BufferStderr {
		t.Errorf("Unexpected defaults: %+v", opts)
	}
}

// TestStyleBits verifies color and attribute bits never overlap
func TestStyleBits(t *testing.T) {
	if NormalColorMask&AttribMask != 0 {
		t.Fatal("Color and attribute masks overlap")
	}
	attrs := []Style{StyleBold, StyleUnderline, StyleReverse}
	for i, a := range attrs {
		for j, b := range attrs {
			if i != j && a&b != 0 {
				t.Errorf("Attributes %#x and %#x overlap", a, b)
			}
		}
	}
	for c := ColorDefault; c <= ColorWhite; c++ {
		if StyleFromColor(c).Color() != c {
			t.Errorf("%v does not survive StyleFromColor", c)
		}
	}

	s := (StyleBold | StyleFromColor(ColorCyan)).Compose(ColorRed)
	if s.Color() != ColorRed || !s.Has(StyleBold) || s.Has(StyleReverse) {
		t.Errorf("Compose kept wrong bits: %#x", s)
	}
}

// TestKeyNames verifies name lookup and aliases
func TestKeyNames(t *testing.T) {
	for _, k := range []Key{KeyEnter, KeyF7, KeyCtrlW, KeyPageDown, KeyCtrlUnderscore} {
		name := KeyName(k)
		if name == "" {
			t.Errorf("Key %d has no name", k)
			continue
		}
		got, ok := KeyByName(name)
		if !ok || got != k {
			t.Errorf("KeyByName(%q) = %v, %v; want %v", name, got, ok, k)
		}
	}
	if k, ok := KeyByName("esc"); !ok || k != KeyEscape {
		t.Errorf("Expected esc alias for Escape, got %v, %v", k, ok)
	}
	if KeyNone.String() != "none" || KeyRune.String() != "rune" {
		t.Error("Unexpected names for KeyNone/KeyRune")
	}
}
