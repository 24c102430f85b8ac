package terminal

import (
	"errors"
	"io/fs"
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// Surface abstracts the terminal control primitives a Session drives.
// Implementations are stateful process-wide singletons and are not required
// to be safe for concurrent use; a Session serializes all calls.
type Surface interface {
	// Lifecycle
	// Init returns CodeOK or a negative code (CodeUnsupportedTerminal, ...)
	Init() int
	Shutdown()

	// Capabilities
	Width() int
	Height() int

	// Output
	Clear()
	Present()
	// SetCursor moves the visible cursor; negative coordinates hide it
	SetCursor(x, y int)
	// ChangeCell sets one back-buffer cell. fg and bg are Style words
	ChangeCell(x, y int, ch rune, fg, bg uint16)

	// Input
	SelectInputMode(mode int)
	// PollEvent blocks until an event is available and returns its tag
	PollEvent(ev *RawEvent) int
	// PeekEvent waits at most timeoutMs and returns TagNone on expiry
	PeekEvent(ev *RawEvent, timeoutMs int) int
}

// initCauser is implemented by surfaces that keep the error behind a
// failed Init code
type initCauser interface {
	InitCause() error
}

// CodeSurfaceFailure is returned by the bundled surfaces for setup errors
// outside the coded set; Open reports it as InitUnknown with the cause attached
const CodeSurfaceFailure = -4

// classifyInitErr maps surface setup errors onto init codes
func classifyInitErr(err error) int {
	var pathErr *os.PathError
	switch {
	case errors.Is(err, tcell.ErrTermNotFound),
		errors.Is(err, tcell.ErrNoCharset),
		errors.Is(err, errDumbTerminal),
		errors.Is(err, errNoBackend):
		return CodeUnsupportedTerminal
	case errors.Is(err, tcell.ErrNoScreen),
		errors.Is(err, errNotTerminal),
		errors.Is(err, syscall.ENOTTY),
		errors.Is(err, syscall.ENXIO),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.As(err, &pathErr):
		return CodeFailedToOpenTTY
	default:
		return CodeSurfaceFailure
	}
}
