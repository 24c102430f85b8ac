package terminal

import (
	"errors"
	"fmt"
)

// InitErrorKind classifies session initialization failures
type InitErrorKind uint8

const (
	InitUnknown InitErrorKind = iota
	InitBufferStderrFailed
	InitAlreadyOpen
	InitUnsupportedTerminal
	InitFailedToOpenTTY
	InitPipeTrapError
)

// Surface init result codes
const (
	CodeOK                  = 0
	CodeUnsupportedTerminal = -1
	CodeFailedToOpenTTY     = -2
	CodePipeTrapError       = -3
)

// InitError is returned by Open and Init
// Code holds the surface result for coded kinds, Err the underlying cause if any
type InitError struct {
	Kind InitErrorKind
	Code int
	Err  error
}

// Sentinels for errors.Is; matching compares Kind only
var (
	ErrBufferStderr        = &InitError{Kind: InitBufferStderrFailed}
	ErrAlreadyOpen         = &InitError{Kind: InitAlreadyOpen}
	ErrUnsupportedTerminal = &InitError{Kind: InitUnsupportedTerminal, Code: CodeUnsupportedTerminal}
	ErrFailedToOpenTTY     = &InitError{Kind: InitFailedToOpenTTY, Code: CodeFailedToOpenTTY}
	ErrPipeTrap            = &InitError{Kind: InitPipeTrapError, Code: CodePipeTrapError}
)

func (e *InitError) Error() string {
	var msg string
	switch e.Kind {
	case InitBufferStderrFailed:
		msg = "could not redirect stderr"
	case InitAlreadyOpen:
		msg = "terminal session is already open"
	case InitUnsupportedTerminal:
		msg = "unsupported terminal"
	case InitFailedToOpenTTY:
		msg = "failed to open tty"
	case InitPipeTrapError:
		msg = "pipe trap error"
	default:
		msg = fmt.Sprintf("unknown init error (code %d)", e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Is matches another *InitError of the same kind
// Unknown kinds additionally require equal codes
func (e *InitError) Is(target error) bool {
	t, ok := target.(*InitError)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return e.Kind != InitUnknown || e.Code == t.Code
}

// initErrorFromCode maps a negative surface init result
// Never fails: codes outside the table become InitUnknown
func initErrorFromCode(code int) *InitError {
	switch code {
	case CodeUnsupportedTerminal:
		return &InitError{Kind: InitUnsupportedTerminal, Code: code}
	case CodeFailedToOpenTTY:
		return &InitError{Kind: InitFailedToOpenTTY, Code: code}
	case CodePipeTrapError:
		return &InitError{Kind: InitPipeTrapError, Code: code}
	default:
		return &InitError{Kind: InitUnknown, Code: code}
	}
}

// EventErrorKind classifies event retrieval failures
type EventErrorKind uint8

const (
	EventUnknown EventErrorKind = iota
	EventTermboxError
)

// CodeEventError is the surface tag for a generic event failure
const CodeEventError = -1

// EventError is returned by Decode, PollEvent and PeekEvent for error tags
type EventError struct {
	Kind EventErrorKind
	Code int
}

// ErrTermbox matches any EventTermboxError via errors.Is
var ErrTermbox = &EventError{Kind: EventTermboxError, Code: CodeEventError}

func (e *EventError) Error() string {
	if e.Kind == EventTermboxError {
		return "error in terminal surface"
	}
	return fmt.Sprintf("unknown event error (code %d)", e.Code)
}

// Is matches another *EventError of the same kind
// Unknown kinds additionally require equal codes
func (e *EventError) Is(target error) bool {
	t, ok := target.(*EventError)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return e.Kind != EventUnknown || e.Code == t.Code
}

// eventErrorFromCode maps an error tag
func eventErrorFromCode(code int) *EventError {
	if code == CodeEventError {
		return &EventError{Kind: EventTermboxError, Code: code}
	}
	return &EventError{Kind: EventUnknown, Code: code}
}

// ErrClosed is returned by event calls on a closed Session
var ErrClosed = errors.New("terminal session is closed")
