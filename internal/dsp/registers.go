package dsp

// GetRegister24 reads general register n (0..63, per the index constants
// in core.go) as a 24-bit (or narrower) value, the width the opcode
// decoder's register-select fields always want. Accumulators A and B
// return their middle 24-bit word (A1/B1), matching how most ALU/move
// encodings that name "A" or "B" as a plain register operand treat them;
// callers that need the full 56-bit accumulator use Core.A / Core.B
// directly.
func (c *Core) GetRegister24(n int) uint32 {
	switch n {
	case RX0:
		return c.X0 & mask24
	case RX1:
		return c.X1 & mask24
	case RY0:
		return c.Y0 & mask24
	case RY1:
		return c.Y1 & mask24
	case RA0:
		return c.A.Low
	case RB0:
		return c.B.Low
	case RA2:
		return c.A.High
	case RB2:
		return c.B.High
	case RA1:
		return c.A.Mid
	case RB1:
		return c.B.Mid
	case RA:
		return c.A.Mid
	case RB:
		return c.B.Mid
	case RR0, RR1, RR2, RR3, RR4, RR5, RR6, RR7:
		return uint32(c.R[n-RR0])
	case RN0, RN1, RN2, RN3, RN4, RN5, RN6, RN7:
		return uint32(c.N[n-RN0])
	case RM0, RM1, RM2, RM3, RM4, RM5, RM6, RM7:
		return uint32(c.M[n-RM0])
	case RSSH:
		return uint32(c.SSH[c.SP&0xF])
	case RSSL:
		return uint32(c.SSL[c.SP&0xF])
	case RSP:
		return uint32(c.SP)
	case ROMR:
		return uint32(c.OMR)
	case RSR:
		return uint32(c.SR)
	case RLA:
		return uint32(c.LA)
	case RLC:
		return uint32(c.LC)
	default:
		return 0
	}
}

// SetRegister24 is the write counterpart of GetRegister24.
func (c *Core) SetRegister24(n int, v uint32) {
	switch n {
	case RX0:
		c.X0 = v & mask24
	case RX1:
		c.X1 = v & mask24
	case RY0:
		c.Y0 = v & mask24
	case RY1:
		c.Y1 = v & mask24
	case RA0:
		c.A.Low = v & mask24
	case RB0:
		c.B.Low = v & mask24
	case RA2:
		c.A.High = v & mask8
		c.signExtendA()
	case RB2:
		c.B.High = v & mask8
		c.signExtendB()
	case RA1, RA:
		c.A.Mid = v & mask24
		c.signExtendA()
	case RB1, RB:
		c.B.Mid = v & mask24
		c.signExtendB()
	case RR0, RR1, RR2, RR3, RR4, RR5, RR6, RR7:
		c.R[n-RR0] = uint16(v)
	case RN0, RN1, RN2, RN3, RN4, RN5, RN6, RN7:
		c.N[n-RN0] = uint16(v)
	case RM0, RM1, RM2, RM3, RM4, RM5, RM6, RM7:
		c.M[n-RM0] = uint16(v)
	case RSSH:
		c.pushStackWindow(uint16(v), c.SSL[c.SP&0xF])
	case RSSL:
		c.SSL[c.SP&0xF] = uint16(v)
	case RSP:
		c.SP = uint8(v)
	case ROMR:
		c.OMR = uint16(v)
	case RSR:
		c.SR = uint16(v)
	case RLA:
		c.LA = uint16(v)
	case RLC:
		c.LC = uint16(v)
	}
}

// signExtendA/B re-derive the High byte from Mid's sign bit when only the
// middle word of an accumulator is written directly (the common case for
// "move #xx,A" and similar 24-bit writes), matching the real chip's
// automatic sign extension into the 8-bit extension byte.
func (c *Core) signExtendA() {
	if c.A.Mid&sign24 != 0 {
		c.A.High = mask8
	} else {
		c.A.High = 0
	}
}

func (c *Core) signExtendB() {
	if c.B.Mid&sign24 != 0 {
		c.B.High = mask8
	} else {
		c.B.High = 0
	}
}

func (c *Core) pushStackWindow(ssh, ssl uint16) {
	c.SSH[c.SP&0xF] = ssh
	c.SSL[c.SP&0xF] = ssl
}
