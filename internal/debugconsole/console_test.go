package debugconsole

import "testing"

// These exercise the channel plumbing directly rather than Start/Stop,
// which require a real tty (matching the teacher's own terminal_host.go,
// never exercised by a test for the same reason).

func TestReadByteDeliversQueuedInput(t *testing.T) {
	c := New()
	c.in <- 'x'
	b, ok := c.ReadByte()
	if !ok || b != 'x' {
		t.Fatalf("ReadByte = (%v, %v), want ('x', true)", b, ok)
	}
}

func TestReadByteUnblocksOnStop(t *testing.T) {
	c := New()
	close(c.stopCh)
	_, ok := c.ReadByte()
	if ok {
		t.Fatalf("ReadByte should report false once stopped")
	}
}

func TestBreakRequestedIsEdgeTriggered(t *testing.T) {
	c := New()
	if c.BreakRequested() {
		t.Fatalf("no break should be pending initially")
	}
	c.breakCh <- struct{}{}
	if !c.BreakRequested() {
		t.Fatalf("break should be pending after signal")
	}
	if c.BreakRequested() {
		t.Fatalf("break should only fire once")
	}
}
