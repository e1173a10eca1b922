// Package bus implements the Falcon core's address space: a 32-bit guest
// address range partitioned into 65,536 banks of 64 KiB each, where every
// bank maps to RAM, ROM, an I/O region, or a dummy (unmapped) region.
//
// Dispatch is deliberately shallow: the upper 16 bits of an address select
// a bank record up front, and the bank's own function values are called
// with the lower 16 bits. This matches the real hardware's one-indirect-
// call-per-access cost and avoids branching on address ranges inside the
// hot read/write path.
package bus

import "fmt"

// AddressError is raised when a word or long access targets an odd
// address on a 68000/68010-class bus (see Bus.Wrap24).
type AddressError struct {
	Addr  uint32
	Write bool
	Size  uint8 // 2 or 4
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("address error: odd address %#06x (write=%v size=%d)", e.Addr, e.Write, e.Size)
}

// BusError is raised by a Dummy bank with BusErrorOnAccess set, or by an
// I/O handler that declines the access.
type BusError struct {
	Addr  uint32
	Write bool
	Size  uint8
	Instr bool // true if this was an instruction fetch
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bus error: %#06x (write=%v size=%d instr=%v)", e.Addr, e.Write, e.Size, e.Instr)
}

// Kind distinguishes how a bank services accesses.
type Kind uint8

const (
	KindRAM Kind = iota
	KindROM
	KindIO
	KindDummy
)

// IOHandler services memory-mapped I/O reads and writes for one bank.
// offset is the address within the bank (0..0xFFFF). Read handlers return
// the value and true on success, false to raise BusError. Write handlers
// return true on success.
type IOHandler interface {
	ReadByte(offset uint16) (uint8, bool)
	ReadWord(offset uint16) (uint16, bool)
	ReadLong(offset uint16) (uint32, bool)
	WriteByte(offset uint16, v uint8) bool
	WriteWord(offset uint16, v uint16) bool
	WriteLong(offset uint16, v uint32) bool
}

// Bank is one 64 KiB slice of the address space.
type Bank struct {
	Kind Kind

	// RAM/ROM backing store, exactly 64 KiB, nil for I/O and Dummy banks.
	Mem []byte

	// IO handler, non-nil only for Kind == KindIO.
	IO IOHandler

	// BusErrorOnAccess makes a Dummy bank fail every access with BusError
	// instead of silently reading zero / discarding writes.
	BusErrorOnAccess bool

	// LogIllegalWrites causes writes to a ROM or inert Dummy bank to be
	// reported through the Bus's logger rather than silently dropped.
	LogIllegalWrites bool
}

// Bus is the Falcon's 32-bit guest address space.
type Bus struct {
	banks [65536]Bank

	// Wrap24 restricts effective addresses to 24 bits (68000 in its
	// native addressing mode): bits 24..31 of every access are masked
	// off before the bank lookup, and odd-address accesses to word/long
	// operands raise AddressError. On 68020+ this is false.
	Wrap24 bool

	// OnIllegalWrite, if set, is called for writes declined by a ROM or
	// logging-enabled Dummy bank. It never affects control flow.
	OnIllegalWrite func(addr uint32, value uint32, size uint8)
}

// New constructs a Bus with every bank defaulted to an un-mapped Dummy
// bank (reads return zero, writes are dropped, no bus error).
func New() *Bus {
	b := &Bus{}
	for i := range b.banks {
		b.banks[i] = Bank{Kind: KindDummy}
	}
	return b
}

// InstallRAM maps length bytes of fresh RAM starting at addr, rounded
// down/up to whole 64 KiB banks.
func (b *Bus) InstallRAM(addr, length uint32) {
	start := addr >> 16
	count := (length + 0xFFFF) >> 16
	for i := uint32(0); i < count; i++ {
		b.banks[uint16(start+i)] = Bank{Kind: KindRAM, Mem: make([]byte, 0x10000)}
	}
}

// InstallROM maps image into banks starting at addr. image is copied into
// fresh 64 KiB bank buffers; a final partial bank is zero-padded.
func (b *Bus) InstallROM(addr uint32, image []byte) {
	start := addr >> 16
	count := (uint32(len(image)) + 0xFFFF) >> 16
	for i := uint32(0); i < count; i++ {
		buf := make([]byte, 0x10000)
		lo := i * 0x10000
		hi := lo + 0x10000
		if hi > uint32(len(image)) {
			hi = uint32(len(image))
		}
		copy(buf, image[lo:hi])
		b.banks[uint16(start+i)] = Bank{Kind: KindROM, Mem: buf}
	}
}

// InstallIO maps a single handler to the bank containing addr.
func (b *Bus) InstallIO(addr uint32, h IOHandler) {
	b.banks[uint16(addr>>16)] = Bank{Kind: KindIO, IO: h}
}

// InstallDummy marks count banks starting at addr as Dummy, optionally
// bus-erroring on every access (used to model genuinely absent hardware
// rather than merely-unmapped RAM).
func (b *Bus) InstallDummy(addr uint32, count uint32, busError bool) {
	for i := uint32(0); i < count; i++ {
		b.banks[uint16((addr>>16)+i)] = Bank{Kind: KindDummy, BusErrorOnAccess: busError}
	}
}

func (b *Bus) mask(addr uint32) uint32 {
	if b.Wrap24 {
		return addr & 0x00FFFFFF
	}
	return addr
}

func (b *Bus) bankFor(addr uint32) (*Bank, uint16) {
	a := b.mask(addr)
	return &b.banks[uint16(a>>16)], uint16(a)
}

// ReadByte reads one byte.
func (b *Bus) ReadByte(addr uint32) (uint8, error) {
	bank, off := b.bankFor(addr)
	switch bank.Kind {
	case KindRAM, KindROM:
		return bank.Mem[off], nil
	case KindIO:
		v, ok := bank.IO.ReadByte(off)
		if !ok {
			return 0, &BusError{Addr: addr, Size: 1}
		}
		return v, nil
	default: // Dummy
		if bank.BusErrorOnAccess {
			return 0, &BusError{Addr: addr, Size: 1}
		}
		return 0, nil
	}
}

// ReadWord reads one big-endian 16-bit word. On a 24-bit bus an odd
// address raises AddressError.
func (b *Bus) ReadWord(addr uint32) (uint16, error) {
	if b.Wrap24 && addr&1 != 0 {
		return 0, &AddressError{Addr: addr, Size: 2}
	}
	bank, off := b.bankFor(addr)
	switch bank.Kind {
	case KindRAM, KindROM:
		return uint16(bank.Mem[off])<<8 | uint16(bank.Mem[off+1]), nil
	case KindIO:
		v, ok := bank.IO.ReadWord(off)
		if !ok {
			return 0, &BusError{Addr: addr, Size: 2}
		}
		return v, nil
	default:
		if bank.BusErrorOnAccess {
			return 0, &BusError{Addr: addr, Size: 2}
		}
		return 0, nil
	}
}

// ReadLong reads one big-endian 32-bit long.
func (b *Bus) ReadLong(addr uint32) (uint32, error) {
	if b.Wrap24 && addr&1 != 0 {
		return 0, &AddressError{Addr: addr, Size: 4}
	}
	bank, off := b.bankFor(addr)
	switch bank.Kind {
	case KindRAM, KindROM:
		return uint32(bank.Mem[off])<<24 | uint32(bank.Mem[off+1])<<16 |
			uint32(bank.Mem[off+2])<<8 | uint32(bank.Mem[off+3]), nil
	case KindIO:
		v, ok := bank.IO.ReadLong(off)
		if !ok {
			return 0, &BusError{Addr: addr, Size: 4}
		}
		return v, nil
	default:
		if bank.BusErrorOnAccess {
			return 0, &BusError{Addr: addr, Size: 4}
		}
		return 0, nil
	}
}

// WriteByte writes one byte.
func (b *Bus) WriteByte(addr uint32, v uint8) error {
	bank, off := b.bankFor(addr)
	switch bank.Kind {
	case KindRAM:
		bank.Mem[off] = v
		return nil
	case KindROM:
		b.reportIllegal(bank, addr, uint32(v), 1)
		return nil
	case KindIO:
		if !bank.IO.WriteByte(off, v) {
			return &BusError{Addr: addr, Write: true, Size: 1}
		}
		return nil
	default:
		if bank.BusErrorOnAccess {
			return &BusError{Addr: addr, Write: true, Size: 1}
		}
		b.reportIllegal(bank, addr, uint32(v), 1)
		return nil
	}
}

// WriteWord writes one big-endian 16-bit word.
func (b *Bus) WriteWord(addr uint32, v uint16) error {
	if b.Wrap24 && addr&1 != 0 {
		return &AddressError{Addr: addr, Write: true, Size: 2}
	}
	bank, off := b.bankFor(addr)
	switch bank.Kind {
	case KindRAM:
		bank.Mem[off] = uint8(v >> 8)
		bank.Mem[off+1] = uint8(v)
		return nil
	case KindROM:
		b.reportIllegal(bank, addr, uint32(v), 2)
		return nil
	case KindIO:
		if !bank.IO.WriteWord(off, v) {
			return &BusError{Addr: addr, Write: true, Size: 2}
		}
		return nil
	default:
		if bank.BusErrorOnAccess {
			return &BusError{Addr: addr, Write: true, Size: 2}
		}
		b.reportIllegal(bank, addr, uint32(v), 2)
		return nil
	}
}

// WriteLong writes one big-endian 32-bit long.
func (b *Bus) WriteLong(addr uint32, v uint32) error {
	if b.Wrap24 && addr&1 != 0 {
		return &AddressError{Addr: addr, Write: true, Size: 4}
	}
	bank, off := b.bankFor(addr)
	switch bank.Kind {
	case KindRAM:
		bank.Mem[off] = uint8(v >> 24)
		bank.Mem[off+1] = uint8(v >> 16)
		bank.Mem[off+2] = uint8(v >> 8)
		bank.Mem[off+3] = uint8(v)
		return nil
	case KindROM:
		b.reportIllegal(bank, addr, v, 4)
		return nil
	case KindIO:
		if !bank.IO.WriteLong(off, v) {
			return &BusError{Addr: addr, Write: true, Size: 4}
		}
		return nil
	default:
		if bank.BusErrorOnAccess {
			return &BusError{Addr: addr, Write: true, Size: 4}
		}
		b.reportIllegal(bank, addr, v, 4)
		return nil
	}
}

func (b *Bus) reportIllegal(bank *Bank, addr uint32, v uint32, size uint8) {
	if bank.LogIllegalWrites && b.OnIllegalWrite != nil {
		b.OnIllegalWrite(addr, v, size)
	}
}

// PatchByte writes directly into a bank's backing store, including ROM,
// bypassing the read-only check WriteByte enforces for guest code. It
// exists for boot-time ROM patching (hostcall.Apply); guest instructions
// never reach it.
func (b *Bus) PatchByte(addr uint32, v uint8) bool {
	bank, off := b.bankFor(addr)
	if bank.Kind != KindRAM && bank.Kind != KindROM {
		return false
	}
	bank.Mem[off] = v
	return true
}
