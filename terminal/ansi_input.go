package terminal

import (
	"sync/atomic"
	"unicode/utf8"
)

// csiLetterKeys maps CSI/SS3 final letters to raw codes
var csiLetterKeys = map[byte]uint16{
	'A': CodeArrowUp,
	'B': CodeArrowDown,
	'C': CodeArrowRight,
	'D': CodeArrowLeft,
	'H': CodeHome,
	'F': CodeEnd,
	'P': CodeF1,
	'Q': CodeF1 - 1,
	'R': CodeF1 - 2,
	'S': CodeF1 - 3,
}

// csiTildeKeys maps the first parameter of ESC [ n ~ to raw codes
var csiTildeKeys = map[int]uint16{
	1:  CodeHome,
	2:  CodeInsert,
	3:  CodeDelete,
	4:  CodeEnd,
	5:  CodePgUp,
	6:  CodePgDn,
	7:  CodeHome,
	8:  CodeEnd,
	11: CodeF1,
	12: CodeF1 - 1,
	13: CodeF1 - 2,
	14: CodeF1 - 3,
	15: CodeF1 - 4,
	17: CodeF1 - 5,
	18: CodeF1 - 6,
	19: CodeF1 - 7,
	20: CodeF1 - 8,
	21: CodeF1 - 9,
	23: CodeF1 - 10,
	24: CodeF12,
}

// Longest CSI body scanned before the bytes are discarded as garbage
const maxCSILen = 32

// inputParser assembles terminal input bytes into raw event records.
// The mode is read atomically so SelectInputMode may run while a reader
// goroutine is feeding
type inputParser struct {
	mode atomic.Uint32
	buf  []byte
	out  []RawEvent
}

func newInputParser(mode InputMode) *inputParser {
	p := &inputParser{buf: make([]byte, 0, 256)}
	p.setMode(mode)
	return p
}

func (p *inputParser) setMode(mode InputMode) {
	p.mode.Store(uint32(mode))
}

func (p *inputParser) inputMode() InputMode {
	return InputMode(p.mode.Load())
}

// feed appends data and returns every event that is now complete.
// Incomplete sequences stay buffered for the next feed or flush
func (p *inputParser) feed(data []byte) []RawEvent {
	p.buf = append(p.buf, data...)
	p.consume()
	return p.take()
}

// flush runs after a read timeout: a pending ESC becomes the Esc key
// and whatever follows it is parsed on its own
func (p *inputParser) flush() []RawEvent {
	for len(p.buf) > 0 {
		if p.buf[0] == 0x1b {
			p.emit(RawEvent{Type: TagKey, Key: CodeEsc})
		}
		// Otherwise a truncated UTF-8 sequence; drop the lead byte
		p.compact(1)
		p.consume()
	}
	return p.take()
}

func (p *inputParser) take() []RawEvent {
	out := p.out
	p.out = nil
	return out
}

func (p *inputParser) emit(ev RawEvent) {
	p.out = append(p.out, ev)
}

// emitAlt reports ev as Alt-modified according to the input mode
func (p *inputParser) emitAlt(ev RawEvent) {
	if p.inputMode()&InputAlt != 0 {
		ev.Mod |= ModAlt
		p.emit(ev)
		return
	}
	p.emit(RawEvent{Type: TagKey, Key: CodeEsc})
	p.emit(ev)
}

func (p *inputParser) compact(n int) {
	if n >= len(p.buf) {
		p.buf = p.buf[:0]
		return
	}
	copy(p.buf, p.buf[n:])
	p.buf = p.buf[:len(p.buf)-n]
}

// consume parses as much of buf as possible
func (p *inputParser) consume() {
	i := p.parse(p.buf)
	if i > 0 {
		p.compact(i)
	}
}

// parse returns the number of bytes consumed, stopping at an incomplete sequence
func (p *inputParser) parse(data []byte) int {
	i := 0
	for i < len(data) {
		b := data[i]

		if b == 0x1b {
			n := p.parseEscape(data[i:])
			if n == 0 {
				return i
			}
			i += n
			continue
		}

		if b < 0x80 {
			p.emit(keyFromByte(b))
			i++
			continue
		}

		if !utf8.FullRune(data[i:]) {
			return i
		}
		r, size := utf8.DecodeRune(data[i:])
		if r != utf8.RuneError || size > 1 {
			p.emit(RawEvent{Type: TagKey, Ch: uint32(r)})
		}
		i += size
	}
	return i
}

// keyFromByte converts a single ASCII byte to a key record.
// Control bytes keep their value as the keycode
func keyFromByte(b byte) RawEvent {
	switch {
	case b == ' ':
		return RawEvent{Type: TagKey, Key: CodeSpace}
	case b < 0x20 || b == 0x7f:
		return RawEvent{Type: TagKey, Key: uint16(b)}
	default:
		return RawEvent{Type: TagKey, Ch: uint32(b)}
	}
}

// parseEscape handles input starting with ESC; returns 0 when more bytes are needed
func (p *inputParser) parseEscape(data []byte) int {
	if len(data) < 2 {
		return 0
	}

	switch b := data[1]; {
	case b == '[':
		return p.parseCSI(data)
	case b == 'O':
		return p.parseSS3(data)
	case b < 0x80:
		// ESC ESC, ESC <ctrl> and ESC <printable> are Alt chords
		p.emitAlt(keyFromByte(b))
		return 2
	default:
		if !utf8.FullRune(data[1:]) {
			return 0
		}
		r, size := utf8.DecodeRune(data[1:])
		if r == utf8.RuneError && size == 1 {
			p.emit(RawEvent{Type: TagKey, Key: CodeEsc})
			return 1
		}
		p.emitAlt(RawEvent{Type: TagKey, Ch: uint32(r)})
		return 1 + size
	}
}

// parseCSI handles ESC [ sequences. Unknown sequences are consumed silently
func (p *inputParser) parseCSI(data []byte) int {
	if len(data) < 3 {
		return 0
	}

	if data[2] == '<' {
		return p.parseSGRMouse(data)
	}

	// Linux console F1-F5: ESC [ [ A..E
	if data[2] == '[' {
		if len(data) < 4 {
			return 0
		}
		if data[3] >= 'A' && data[3] <= 'E' {
			p.emit(RawEvent{Type: TagKey, Key: CodeF1 - uint16(data[3]-'A')})
		}
		return 4
	}

	end := 2
	for ; end < len(data) && end < maxCSILen; end++ {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Not a CSI parameter byte; drop what was scanned
			return end
		}
	}
	if end >= len(data) {
		if end >= maxCSILen {
			return end
		}
		return 0
	}
	if end == maxCSILen {
		return end
	}

	params := parseParams(data[2:end])
	final := data[end]
	n := end + 1

	var code uint16
	var ok bool
	if final == '~' {
		if len(params) > 0 {
			code, ok = csiTildeKeys[params[0]]
		}
	} else {
		code, ok = csiLetterKeys[final]
	}
	if !ok {
		return n
	}

	ev := RawEvent{Type: TagKey, Key: code}
	// xterm modifier parameter: 1 + (shift=1 | alt=2 | ctrl=4)
	if len(params) > 1 && (params[1]-1)&2 != 0 {
		p.emitAlt(ev)
	} else {
		p.emit(ev)
	}
	return n
}

// parseSS3 handles ESC O <letter>
func (p *inputParser) parseSS3(data []byte) int {
	if len(data) < 3 {
		return 0
	}
	if code, ok := csiLetterKeys[data[2]]; ok {
		p.emit(RawEvent{Type: TagKey, Key: code})
	}
	return 3
}

// parseSGRMouse handles ESC [ < Btn ; X ; Y M/m
// Mouse reports are dropped unless the input mode enables the mouse
func (p *inputParser) parseSGRMouse(data []byte) int {
	end := 3
	for end < len(data) && end < maxCSILen {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		if end >= maxCSILen {
			return end
		}
		return 0
	}
	if end == maxCSILen {
		return end
	}
	n := end + 1

	params := parseParams(data[3:end])
	if len(params) != 3 || !p.inputMode().Mouse() {
		return n
	}
	btn, x, y := params[0], params[1]-1, params[2]-1

	ev := RawEvent{Type: TagMouse, X: int32(x), Y: int32(y)}

	// Bits 0-1: button, bit 5: motion, bit 6: wheel
	id := btn & 0x03
	switch {
	case btn&64 != 0:
		if id == 0 {
			ev.Key = CodeMouseWheelUp
		} else {
			ev.Key = CodeMouseWheelDown
		}
	case data[end] == 'm' || id == 3:
		if btn&32 != 0 {
			// Motion with no button held
			return n
		}
		ev.Key = CodeMouseRelease
	default:
		switch id {
		case 0:
			ev.Key = CodeMouseLeft
		case 1:
			ev.Key = CodeMouseMiddle
		case 2:
			ev.Key = CodeMouseRight
		}
		if btn&32 != 0 {
			ev.Mod = ModMotion
		}
	}

	p.emit(ev)
	return n
}

// parseParams splits "n;m;..." into integers; empty fields are 0
func parseParams(data []byte) []int {
	params := make([]int, 0, 4)
	val := 0
	for _, b := range data {
		switch {
		case b == ';':
			params = append(params, val)
			val = 0
		case b >= '0' && b <= '9':
			if val < 9999 {
				val = val*10 + int(b-'0')
			}
		}
	}
	return append(params, val)
}
