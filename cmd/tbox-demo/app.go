package main

import (
	"fmt"
	"log"
	"time"

	"github.com/lixenwraith/tbox/terminal"
)

// ringer is satisfied by *bell.Bell
type ringer interface {
	Ring() bool
}

// app echoes decoded events until the user quits
type app struct {
	sess *terminal.Session
	bell ringer
	raw  bool
	peek time.Duration
	mode terminal.InputMode

	history []string
	idle    int
}

const maxHistory = 64

func newApp(sess *terminal.Session, bell ringer, raw bool, peek time.Duration, mode terminal.InputMode) *app {
	return &app{
		sess: sess,
		bell: bell,
		raw:  raw,
		peek: peek,
		mode: mode,
	}
}

// run draws, waits for input and repeats until quit or an event error
func (a *app) run() error {
	a.draw()
	for {
		var (
			ev  terminal.Event
			err error
		)
		if a.peek > 0 {
			ev, err = a.sess.PeekEvent(a.peek, a.raw)
		} else {
			ev, err = a.sess.PollEvent(a.raw)
		}
		if err != nil {
			return fmt.Errorf("reading event: %w", err)
		}
		if !a.handle(ev) {
			return nil
		}
		a.draw()
	}
}

// handle records ev and reports whether the loop should continue
func (a *app) handle(ev terminal.Event) bool {
	if _, ok := ev.(terminal.NoEvent); ok {
		a.idle++
		return true
	}

	line := describe(ev)
	log.Printf("event: %s", line)
	a.history = append(a.history, line)
	if len(a.history) > maxHistory {
		a.history = a.history[len(a.history)-maxHistory:]
	}

	if isBell(ev) && a.bell != nil {
		a.bell.Ring()
	}
	return !isQuit(ev)
}

func isQuit(ev terminal.Event) bool {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		return e.Char() == 'q' || e.Key == terminal.KeyCtrlC
	case terminal.KeyEventRaw:
		return (e.Key == 0 && e.Ch == 'q') || e.Key == terminal.CodeCtrlC
	}
	return false
}

// isBell matches Ctrl-G and keys that could not be decoded
func isBell(ev terminal.Event) bool {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		return e.Key == terminal.KeyCtrlG || !e.Valid()
	case terminal.KeyEventRaw:
		return e.Key == terminal.CodeCtrlG
	}
	return false
}

// describe renders an event as a single log line
func describe(ev terminal.Event) string {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		switch {
		case !e.Valid():
			return "key <undecodable>"
		case e.Key == terminal.KeyRune:
			return fmt.Sprintf("key %q", e.Rune)
		default:
			return "key " + e.Key.String()
		}
	case terminal.KeyEventRaw:
		return fmt.Sprintf("raw mod=%#02x key=%#04x ch=%#x", e.Mod, e.Key, e.Ch)
	case terminal.ResizeEvent:
		return fmt.Sprintf("resize %dx%d", e.Width, e.Height)
	case terminal.MouseEvent:
		return fmt.Sprintf("mouse %s at %d,%d", e.Button, e.X, e.Y)
	case terminal.NoEvent:
		return "none"
	default:
		return fmt.Sprintf("%T", ev)
	}
}

func (a *app) draw() {
	s := a.sess
	s.Clear()
	s.HideCursor()

	s.Print(0, 0, terminal.StyleBold, terminal.ColorWhite, terminal.ColorBlue, " Hello, world! ")
	s.Print(0, 1, terminal.StyleNormal, terminal.ColorDefault, terminal.ColorDefault,
		fmt.Sprintf("mode=%s raw=%v size=%dx%d  press q to quit", a.mode, a.raw, s.Width(), s.Height()))
	if a.peek > 0 {
		s.Print(0, 2, terminal.StyleNormal, terminal.ColorCyan, terminal.ColorDefault,
			fmt.Sprintf("idle ticks: %d", a.idle))
	}

	rows := max(0, s.Height()-4)
	start := max(0, len(a.history)-rows)
	for i, line := range a.history[start:] {
		s.Print(1, 4+i, terminal.StyleNormal, terminal.ColorGreen, terminal.ColorDefault, line)
	}
	s.Present()
}
