package dsp

// PMClass identifies one of the sixteen parallel-move decoders (§4.C).
type PMClass uint8

const (
	PM0 PMClass = iota // A/B <-> X:ea or Y:ea, plus X0/Y0 -> A/B
	PM1                 // two-source two-destination move across X and Y
	PM2                 // no-move / R-update / register-to-register / immediate
	PM3                 // #xx -> Dd
	PM4                 // long-word memory move (L: aliases X and Y)
	PM5                 // single-operand x: or y: memory move
	_pm6
	_pm7
	PM8 // two simultaneous memory moves, x:ea,D1 y:ea,D2
)

// scheduledMove is the (read, alu, write) triple the spec's Design Notes
// call for: read every source the parallel move names, then run the ALU
// op, then write every destination. Ordering is enforced by construction
// since Step always calls read(), then ALUExec, then write() in that
// textual order, never interleaved.
type scheduledMove struct {
	read  func(c *Core)
	write func(c *Core)
}

// decodeParallelMove extracts the (read, write) pair for opcode's
// parallel-move field given its class. Most classes only need a subset
// of the opcode's bits; unused bits for narrower classes are ignored by
// convention (the real encoding leaves them don't-care too).
func decodeParallelMove(class PMClass, opcode uint32) scheduledMove {
	switch class {
	case PM2:
		// No memory move; register-to-register or immediate handled by
		// the ALU op itself (operand comes from the register file).
		return scheduledMove{read: func(*Core) {}, write: func(*Core) {}}

	case PM3:
		// #xx -> Dd: the 8-bit immediate is shifted left 16 bits for
		// every destination register (bit 23 set selects A/B as Dd per the real
		// encoding; here we model it with an explicit destination
		// register field in bits 19..16).
		imm := uint32(opcode & 0xFF)
		dest := int((opcode >> 16) & 0xF)
		return scheduledMove{
			read: func(*Core) {},
			write: func(c *Core) {
				c.SetRegister24(dest, imm<<16)
			},
		}

	case PM5:
		rn := int((opcode >> 8) & 0x7)
		space := Space(opcode>>11) & 1
		reg := int((opcode >> 16) & 0x3F)
		toMemory := opcode&(1<<15) != 0
		mode := EAMode((opcode >> 12) & 0x7)
		var addr uint16
		var val uint32
		return scheduledMove{
			read: func(c *Core) {
				addr = c.EffectiveAddress(mode, rn, 0, false)
				if !toMemory {
					if space == SpaceX {
						val = c.ReadX(addr)
					} else {
						val = c.ReadY(addr)
					}
				} else {
					val = c.GetRegister24(reg)
				}
			},
			write: func(c *Core) {
				if toMemory {
					if space == SpaceX {
						c.WriteX(addr, val)
					} else {
						c.WriteY(addr, val)
					}
				} else {
					c.SetRegister24(reg, val)
				}
			},
		}

	case PM4:
		// Only the X half of the L: pair is transferred: a memory read
		// loads X:ea into the register (Y:ea is read but discarded), and a
		// register write stores X:ea only; Y:ea is never written.
		rn := int((opcode >> 8) & 0x7)
		mode := EAMode((opcode >> 12) & 0x7)
		reg := int((opcode >> 16) & 0x3F)
		toMemory := opcode&(1<<15) != 0
		var addr uint16
		var lo, hi uint32
		return scheduledMove{
			read: func(c *Core) {
				addr = c.EffectiveAddress(mode, rn, 0, false)
				if !toMemory {
					hi = c.ReadX(addr)
					lo = c.ReadY(addr)
				}
			},
			write: func(c *Core) {
				if toMemory {
					c.WriteX(addr, c.GetRegister24(reg))
				} else {
					c.SetRegister24(reg, hi)
					_ = lo
				}
			},
		}

	case PM0:
		// Decodes only the X:ea -> A/B direction: the word read from X:ea
		// goes into the accumulator's middle part. Y:ea sources, A/B -> memory
		// and X0/Y0 -> A/B forms are not decoded.
		rn := int((opcode >> 8) & 0x7)
		mode := EAMode((opcode >> 12) & 0x7)
		dstB := opcode&(1<<3) != 0
		var addr uint16
		var moved uint32
		return scheduledMove{
			read: func(c *Core) {
				addr = c.EffectiveAddress(mode, rn, 0, false)
				moved = c.ReadX(addr)
			},
			write: func(c *Core) {
				if dstB {
					c.B.Mid = moved & mask24
					c.signExtendB()
				} else {
					c.A.Mid = moved & mask24
					c.signExtendA()
				}
			},
		}

	case PM1:
		rnX := int((opcode >> 8) & 0x7)
		rnY := int((opcode >> 4) & 0x7)
		var xv, yv uint32
		return scheduledMove{
			read: func(c *Core) {
				xv = c.ReadX(c.EffectiveAddress(EAPostInc, rnX, 0, false))
				yv = c.ReadY(c.EffectiveAddress(EAPostInc, rnY, 0, false))
			},
			write: func(c *Core) {
				c.X0 = xv & mask24
				c.Y0 = yv & mask24
			},
		}

	case PM8:
		rnX := int((opcode >> 8) & 0x7)
		rnY := int((opcode >> 4) & 0x7)
		d1 := int((opcode >> 18) & 0x3)
		d2 := int((opcode >> 16) & 0x3)
		var xv, yv uint32
		return scheduledMove{
			read: func(c *Core) {
				xv = c.ReadX(c.EffectiveAddress(EAPostInc, rnX, 0, false))
				yv = c.ReadY(c.EffectiveAddress(EAPostInc, rnY, 0, false))
			},
			write: func(c *Core) {
				c.SetRegister24(xRegSlot(d1), xv)
				c.SetRegister24(yRegSlot(d2), yv)
			},
		}

	default:
		return scheduledMove{read: func(*Core) {}, write: func(*Core) {}}
	}
}

func xRegSlot(sel int) int {
	switch sel {
	case 0:
		return RX0
	case 1:
		return RX1
	case 2:
		return RA
	default:
		return RB
	}
}

func yRegSlot(sel int) int {
	switch sel {
	case 0:
		return RY0
	case 1:
		return RY1
	case 2:
		return RA
	default:
		return RB
	}
}
