package terminal

// Color selects one of the eight base terminal colors or the default
type Color uint16

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// String returns human-readable color name
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "Default"
	case ColorBlack:
		return "Black"
	case ColorRed:
		return "Red"
	case ColorGreen:
		return "Green"
	case ColorYellow:
		return "Yellow"
	case ColorBlue:
		return "Blue"
	case ColorMagenta:
		return "Magenta"
	case ColorCyan:
		return "Cyan"
	case ColorWhite:
		return "White"
	default:
		return "Unknown"
	}
}

// Style is a 16-bit attribute word (bitmask)
// Bits 0-3 carry a Color, bits 8-10 carry text attributes
type Style uint16

const (
	StyleNormal    Style = 0x0000
	StyleBold      Style = 0x0100
	StyleUnderline Style = 0x0200
	StyleReverse   Style = 0x0400
)

// NormalColorMask extracts the color bits of a Style
const NormalColorMask Style = 0x000F

// AttribMask masks only the text attribute bits (excludes color bits)
const AttribMask Style = StyleBold | StyleUnderline | StyleReverse

// StyleFromColor places c into the color bits of an otherwise empty Style
func StyleFromColor(c Color) Style {
	return Style(c) & NormalColorMask
}

// Compose merges the attribute bits of s with the color bits of c
// Color bits already present in s are discarded
func (s Style) Compose(c Color) Style {
	return StyleFromColor(c) | (s & AttribMask)
}

// Color returns the color held in the color bits
func (s Style) Color() Color {
	return Color(s & NormalColorMask)
}

// Attribs returns only the attribute bits
func (s Style) Attribs() Style {
	return s & AttribMask
}

// Has reports whether every attribute bit of a is set in s
func (s Style) Has(a Style) bool {
	return s&a == a
}
