package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments
var (
	csi      = []byte("\x1b[")
	csiSGR0  = []byte("\x1b[0m")
	csiClear = []byte("\x1b[2J\x1b[H")

	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// ?7l keeps the cursor at the right edge so writing the bottom-right cell does not scroll
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Button press/release plus drag reporting, SGR encoded
	csiMouseOn  = []byte("\x1b[?1000h\x1b[?1002h\x1b[?1006h")
	csiMouseOff = []byte("\x1b[?1006l\x1b[?1002l\x1b[?1000l")
)

// SGR parameters for the eight base colors start at these offsets
const (
	sgrFgBase    = 30
	sgrBgBase    = 40
	sgrFgDefault = 39
	sgrBgDefault = 49
	sgrBold      = 1
	sgrUnderline = 4
	sgrReverse   = 7
)

// writeInt writes a non-negative integer without allocation
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// writeCursorPos writes a cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csi)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeCursorForward moves the cursor right n cells
func writeCursorForward(w *bufio.Writer, n int) {
	if n <= 0 {
		return
	}
	w.Write(csi)
	if n > 1 {
		writeInt(w, n)
	}
	w.WriteByte('C')
}

// writeSGR emits one complete SGR sequence for a pair of Style words.
// The sequence starts from a reset so no earlier attribute leaks through
func writeSGR(w *bufio.Writer, fg, bg Style) {
	w.Write(csi)
	w.WriteByte('0')

	attrs := (fg | bg).Attribs()
	if attrs.Has(StyleBold) {
		w.WriteByte(';')
		writeInt(w, sgrBold)
	}
	if attrs.Has(StyleUnderline) {
		w.WriteByte(';')
		writeInt(w, sgrUnderline)
	}
	if attrs.Has(StyleReverse) {
		w.WriteByte(';')
		writeInt(w, sgrReverse)
	}

	w.WriteByte(';')
	if c := fg.Color(); c == ColorDefault || c > ColorWhite {
		writeInt(w, sgrFgDefault)
	} else {
		writeInt(w, sgrFgBase+int(c)-1)
	}
	w.WriteByte(';')
	if c := bg.Color(); c == ColorDefault || c > ColorWhite {
		writeInt(w, sgrBgDefault)
	} else {
		writeInt(w, sgrBgBase+int(c)-1)
	}
	w.WriteByte('m')
}
