// Package debugconsole provides an interactive raw-terminal front end for
// the host-call interception layer: GEMDOS Cconin/Cconout console
// redirection (§4.F) and a debugger_break hook triggered by a host
// keystroke, adapted from the teacher's TerminalHost (terminal_host.go)
// from "feed an emulated serial MMIO device" to "feed GEMDOS console
// calls and watch for a break key."
package debugconsole

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// breakKey is Ctrl-B (0x02): the host keystroke that requests a
// debugger break rather than being forwarded to the guest console.
const breakKey = 0x02

// Console reads raw stdin in a background goroutine and exposes it as a
// blocking byte source for Cconin, an unbuffered byte sink for Cconout,
// and a break-request signal.
type Console struct {
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	in      chan byte
	breakCh chan struct{}

	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// New returns a Console that has not yet taken over the terminal; call
// Start to begin reading.
func New() *Console {
	return &Console{
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		in:      make(chan byte, 256),
		breakCh: make(chan struct{}, 1),
	}
}

// Start puts stdin into raw non-blocking mode and begins the reader
// goroutine. Call Stop to restore the terminal.
func (c *Console) Start() error {
	c.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(c.fd)
	if err != nil {
		close(c.done)
		return fmt.Errorf("debugconsole: failed to set raw mode: %w", err)
	}
	c.oldTermState = oldState

	if err := syscall.SetNonblock(c.fd, true); err != nil {
		_ = term.Restore(c.fd, c.oldTermState)
		c.oldTermState = nil
		close(c.done)
		return fmt.Errorf("debugconsole: failed to set nonblocking stdin: %w", err)
	}
	c.nonblockSet = true

	go c.readLoop()
	return nil
}

func (c *Console) readLoop() {
	defer close(c.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		n, err := syscall.Read(c.fd, buf)
		if n > 0 {
			b := buf[0]
			if b == breakKey {
				select {
				case c.breakCh <- struct{}{}:
				default:
				}
			} else {
				select {
				case c.in <- b:
				case <-c.stopCh:
					return
				}
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Stop terminates the reader goroutine and restores the terminal.
func (c *Console) Stop() {
	c.stopped.Do(func() {
		close(c.stopCh)
	})
	<-c.done
	if c.nonblockSet {
		_ = syscall.SetNonblock(c.fd, false)
		c.nonblockSet = false
	}
	if c.oldTermState != nil {
		_ = term.Restore(c.fd, c.oldTermState)
		c.oldTermState = nil
	}
}

// ReadByte implements the blocking side of GEMDOS Cconin: it waits for
// the next host keystroke (excluding the break key). ok is false only
// if the console was stopped while waiting.
func (c *Console) ReadByte() (byte, bool) {
	select {
	case b := <-c.in:
		return b, true
	case <-c.stopCh:
		return 0, false
	}
}

// WriteByte implements GEMDOS Cconout: write one guest console byte to
// the host terminal.
func (c *Console) WriteByte(b byte) {
	os.Stdout.Write([]byte{b})
}

// BreakRequested reports whether the break key was pressed since the
// last call. Intended to be polled once per Machine.Step from the
// debugger_break hook.
func (c *Console) BreakRequested() bool {
	select {
	case <-c.breakCh:
		return true
	default:
		return false
	}
}
