package dsp

import "math/bits"

// EAMode enumerates the eight effective-address modes of §4.C.
type EAMode uint8

const (
	EAPostDecN EAMode = iota // (Rn)-Nn
	EAPostIncN                // (Rn)+Nn
	EAPostDec                 // (Rn)-
	EAPostInc                 // (Rn)+
	EANoUpdate                // (Rn)
	EAIndexed                 // (Rn+Nn)
	EAAbsolute                // absolute address (word follows opcode)
	EAPreDec                  // -(Rn)
)

// updateR applies the post-update rule for address register Rn by delta,
// honouring the Mn modifier register's wraparound mode (§4.C):
//
//	Mn == 0xFFFF: linear 16-bit wraparound.
//	Mn == 0x0000: bit-reversed update — low bits of Rn reversed,
//	              incremented, reversed back; Nn selects the reversal width.
//	Mn <= 0x7FFF: modulo update within a (Mn+1)-rounded-up-to-pow2 window.
func (c *Core) updateR(rn int, delta int32) {
	m := c.M[rn]
	switch {
	case m == 0xFFFF:
		c.R[rn] = uint16(int32(c.R[rn]) + delta)
	case m == 0x0000:
		width := reversalWidth(c.N[rn])
		c.R[rn] = bitReversedIncrement(c.R[rn], width, delta)
	default:
		size := nextPow2(uint32(m) + 1)
		base := uint32(c.R[rn]) &^ (size - 1)
		offset := (uint32(int32(c.R[rn])-int32(base)) + uint32(delta)) % size
		c.R[rn] = uint16(base + offset)
	}
}

func nextPow2(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return 1 << uint(32-bits.LeadingZeros32(v-1))
}

// reversalWidth derives the number of low bits of Rn that participate in
// a bit-reversed address update from the companion Nn register, per the
// DSP56001's bit-reversed addressing convention: width is the bit length
// of Nn, so Nn = 2^(width-1); Nn = 0 selects all 16 bits.
func reversalWidth(n uint16) uint {
	if n == 0 {
		return 16
	}
	return uint(bits.Len16(n))
}

func bitReversedIncrement(r uint16, width uint, delta int32) uint16 {
	if width == 0 || width > 16 {
		return uint16(int32(r) + delta)
	}
	mask := uint16(1)<<width - 1
	low := r & mask
	rev := reverseBits(low, width)
	rev = uint16(int32(rev) + delta)
	low = reverseBits(rev, width)
	return (r &^ mask) | low
}

func reverseBits(v uint16, width uint) uint16 {
	var out uint16
	for i := uint(0); i < width; i++ {
		if v&(1<<i) != 0 {
			out |= 1 << (width - 1 - i)
		}
	}
	return out
}

// EffectiveAddress computes the address for an AGU access and applies any
// pre/post update, returning the address to use for this access.
func (c *Core) EffectiveAddress(mode EAMode, rn int, absolute uint16, immediate bool) uint16 {
	addr := c.R[rn]
	switch mode {
	case EAPostDecN:
		c.updateR(rn, -int32(c.N[rn]))
	case EAPostIncN:
		c.updateR(rn, int32(c.N[rn]))
	case EAPostDec:
		c.updateR(rn, -1)
	case EAPostInc:
		c.updateR(rn, 1)
	case EANoUpdate:
		// no change
	case EAIndexed:
		addr = uint16(int32(c.R[rn]) + int32(int16(c.N[rn])))
	case EAAbsolute:
		addr = absolute
	case EAPreDec:
		c.updateR(rn, -1)
		addr = c.R[rn]
	}
	return addr
}
