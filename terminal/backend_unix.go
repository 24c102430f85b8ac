//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type unixBackend struct {
	path    string
	dev     *os.File
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State

	resizeStopCh chan struct{}
	resizeDoneCh chan struct{}
}

// newTTYBackend drives path, or stdin/stdout when path is empty
func newTTYBackend(path string) ttyBackend {
	return &unixBackend{path: path}
}

func (b *unixBackend) Init() error {
	if os.Getenv("TERM") == "dumb" {
		return errDumbTerminal
	}

	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_RDWR|unix.O_NOCTTY, 0)
		if err != nil {
			return err
		}
		b.dev, b.in, b.out = f, f, f
	} else {
		b.in, b.out = os.Stdin, os.Stdout
	}
	b.inFd = int(b.in.Fd())
	b.outFd = int(b.out.Fd())

	if !term.IsTerminal(b.inFd) {
		b.closeDev()
		return &os.PathError{Op: "init", Path: b.in.Name(), Err: errNotTerminal}
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		b.closeDev()
		return err
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) closeDev() {
	if b.dev != nil {
		b.dev.Close()
		b.dev = nil
	}
}

func (b *unixBackend) Fini() {
	if b.resizeStopCh != nil {
		close(b.resizeStopCh)
		<-b.resizeDoneCh
		b.resizeStopCh = nil
	}
	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
	b.closeDev()
}

func (b *unixBackend) Size() (int, int) {
	w, h, err := term.GetSize(b.outFd)
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

func (b *unixBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

func (b *unixBackend) Read(stop <-chan struct{}) ([]byte, error) {
	buf := make([]byte, 256)

	for {
		select {
		case <-stop:
			return nil, nil
		default:
		}

		fds := []unix.PollFd{{Fd: int32(b.inFd), Events: unix.POLLIN}}

		// 100ms also bounds how long a lone ESC waits for the rest of a sequence
		n, err := unix.Poll(fds, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, err
		}
		if n == 0 {
			return nil, nil
		}

		rn, err := unix.Read(b.inFd, buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return nil, err
		}
		if rn == 0 {
			return nil, os.ErrClosed
		}
		return buf[:rn:rn], nil
	}
}

func (b *unixBackend) SetResizeHandler(handler func(width, height int)) {
	b.resizeStopCh = make(chan struct{})
	b.resizeDoneCh = make(chan struct{})

	go func() {
		defer close(b.resizeDoneCh)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-b.resizeStopCh:
				return
			case <-sigCh:
				w, h := b.Size()
				handler(w, h)
			}
		}
	}()
}
