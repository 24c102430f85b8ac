// Package terminal provides single-owner access to a character-cell terminal.
//
// Features:
//   - Process-wide session guard: at most one live *Session at a time
//   - Typed event decoding from termbox-style raw records
//   - Coded init/event errors with an Unknown(code) fallback
//   - Optional stderr buffering while the session owns the screen
//   - Ordered teardown: stderr hold, surface shutdown, guard release
//
// The terminal primitives are reached through the Surface interface. The
// default Surface is backed by tcell. AnsiSurface drives a raw-mode tty with
// plain ANSI sequences and needs no terminfo entry. Tests can supply any
// implementation.
//
// A Session is not safe for concurrent use. Open it, defer Close, and drive
// it from a single goroutine.
package terminal
