//go:build unix

package terminal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// stderrGrace bounds how long release waits for output still in the pipe
// when a child process keeps an inherited copy of the write end open
const stderrGrace = 100 * time.Millisecond

// stderrHold captures file descriptor 2 into memory until released
type stderrHold struct {
	orig int
	r    *os.File
	w    *os.File

	mu   sync.Mutex
	buf  bytes.Buffer
	done chan struct{}
}

// holdStderr redirects fd 2 into a pipe drained by a goroutine
func holdStderr() (heldResource, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	orig, err := unix.Dup(unix.Stderr)
	if err != nil {
		r.Close()
		w.Close()
		return nil, fmt.Errorf("dup stderr: %w", err)
	}
	unix.CloseOnExec(orig)

	if err := unix.Dup2(int(w.Fd()), unix.Stderr); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, fmt.Errorf("redirect stderr: %w", err)
	}

	h := &stderrHold{
		orig: orig,
		r:    r,
		w:    w,
		done: make(chan struct{}),
	}
	go h.drain()
	return h, nil
}

func (h *stderrHold) drain() {
	defer close(h.done)
	chunk := make([]byte, 4096)
	for {
		n, err := h.r.Read(chunk)
		if n > 0 {
			h.mu.Lock()
			h.buf.Write(chunk[:n])
			h.mu.Unlock()
		}
		// EOF, or the release deadline while a child still holds fd 2
		if err != nil {
			return
		}
	}
}

// release restores fd 2 and writes everything held to it
func (h *stderrHold) release() error {
	restoreErr := unix.Dup2(h.orig, unix.Stderr)
	unix.Close(h.orig)
	h.w.Close()

	if restoreErr != nil {
		// fd 2 still feeds the pipe; closing the read end stops drain
		h.r.Close()
		<-h.done
		return fmt.Errorf("restore stderr: %w", restoreErr)
	}

	// Only inherited copies of the write end remain. Later writes by
	// their holders stay in the pipe and are lost with it
	h.r.SetReadDeadline(time.Now().Add(stderrGrace))
	<-h.done
	h.r.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.buf.Len() == 0 {
		return nil
	}
	if _, err := io.Copy(os.Stderr, &h.buf); err != nil {
		return fmt.Errorf("flush held stderr: %w", err)
	}
	return nil
}
