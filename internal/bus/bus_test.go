package bus

import "testing"

func TestRAMRoundTrip(t *testing.T) {
	b := New()
	b.InstallRAM(0x000000, 0x10000)

	if err := b.WriteLong(0x100, 0xDEADBEEF); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := b.ReadLong(0x100)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Fatalf("got %#x want %#x", v, 0xDEADBEEF)
	}

	// Big-endian byte order on the wire.
	b0, _ := b.ReadByte(0x100)
	if b0 != 0xDE {
		t.Fatalf("byte 0 = %#x, want big-endian 0xDE", b0)
	}
}

func TestROMWritesDropped(t *testing.T) {
	b := New()
	b.InstallROM(0, []byte{1, 2, 3, 4})
	if err := b.WriteByte(0, 0xFF); err != nil {
		t.Fatalf("rom write should not error: %v", err)
	}
	v, _ := b.ReadByte(0)
	if v != 1 {
		t.Fatalf("rom byte mutated: got %#x", v)
	}
}

func TestOddAddressErrorsOn24BitBus(t *testing.T) {
	b := New()
	b.Wrap24 = true
	b.InstallRAM(0, 0x10000)
	_, err := b.ReadWord(0x101)
	ae, ok := err.(*AddressError)
	if !ok {
		t.Fatalf("expected AddressError, got %v", err)
	}
	if ae.Addr != 0x101 {
		t.Fatalf("unexpected fault addr %#x", ae.Addr)
	}
}

func TestDummyBusError(t *testing.T) {
	b := New()
	b.InstallDummy(0x800000, 1, true)
	_, err := b.ReadLong(0x800000)
	if _, ok := err.(*BusError); !ok {
		t.Fatalf("expected BusError, got %v", err)
	}
}

func TestWrap24Masks(t *testing.T) {
	b := New()
	b.Wrap24 = true
	b.InstallRAM(0, 0x10000)
	if err := b.WriteByte(0x01000000, 0x42); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, _ := b.ReadByte(0)
	if v != 0x42 {
		t.Fatalf("bits 24..31 not masked: got %#x at addr 0", v)
	}
}

type stubIO struct{ declineRead, declineWrite bool }

func (s *stubIO) ReadByte(uint16) (uint8, bool) {
	if s.declineRead {
		return 0, false
	}
	return 0x55, true
}
func (s *stubIO) ReadWord(uint16) (uint16, bool) {
	if s.declineRead {
		return 0, false
	}
	return 0x5555, true
}
func (s *stubIO) ReadLong(uint16) (uint32, bool) {
	if s.declineRead {
		return 0, false
	}
	return 0x55555555, true
}
func (s *stubIO) WriteByte(uint16, uint8) bool   { return !s.declineWrite }
func (s *stubIO) WriteWord(uint16, uint16) bool  { return !s.declineWrite }
func (s *stubIO) WriteLong(uint16, uint32) bool  { return !s.declineWrite }

func TestIODecline(t *testing.T) {
	b := New()
	io := &stubIO{declineRead: true}
	b.InstallIO(0xFF0000, io)
	if _, err := b.ReadByte(0xFF0000); err == nil {
		t.Fatal("expected bus error on declined IO read")
	}
}
