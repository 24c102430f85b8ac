package terminal

import "errors"

// ttyBackend abstracts the platform side of AnsiSurface
type ttyBackend interface {
	// Init enters raw mode
	Init() error
	// Fini restores the saved terminal state
	Fini()

	Size() (width, height int)

	// Write writes raw bytes to the terminal output
	Write(p []byte) error

	// Read blocks until input is available, stop is closed, or an error occurs.
	// Returns (nil, nil) on a poll timeout so the caller can flush a lone ESC
	Read(stop <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback run on terminal resize
	SetResizeHandler(handler func(width, height int))
}

// errNotTerminal is returned by Init when the input is not a terminal
var errNotTerminal = errors.New("input is not a terminal")

// errDumbTerminal is returned by Init when TERM cannot interpret ANSI sequences
var errDumbTerminal = errors.New("terminal does not support ANSI sequences")

// errNoBackend is returned on platforms without raw terminal access
var errNoBackend = errors.New("raw terminal access is not supported on this platform")
