package dsp

// ALU operations: the subset of the 256-entry ALU table (§4.C "a 256-entry
// ALU handler") needed to exercise every documented 56-bit primitive and
// the E/U/N/Z/V/C status-flag updates. The L (limit) flag is never set or
// cleared by these operations, and S1/S0 are only read (by RND). The remaining
// ALU-table rows a real DSP56001 assembler can encode are additional
// mnemonics built from exactly the same primitives (Abs56/Asl56/Asr56/
// Add56/Sub56/Mul56/Rnd56) and the same AccessAccumulator/SetAccumulator
// plumbing; adding one is a new case in ALUExec, not a new mechanism.
type ALUOp uint8

const (
	ALUNop ALUOp = iota
	ALUAdd
	ALUSub
	ALUAddL // ASL then add (bit-shifted add, used by the "ADD ... ,<<1" forms)
	ALUCmp
	ALUTfr
	ALUMove // plain register transfer, no flag update beyond N/Z
	ALUNeg
	ALUClr
	ALUAbs
	ALUAsl
	ALUAsr
	ALUAnd
	ALUOr
	ALUEor
	ALUMpy
	ALUMac
	ALURnd
)

// ALUExec applies op to accumulator dst (true selects B, false selects A)
// using operand as the second input where relevant. It writes the result
// back into the accumulator (except for CMP) and updates the SR flags
// itself; it returns nothing. Parallel-move ordering (§4.C "read all
// sources first, then ALU, then write") is kept by the caller, which runs
// the move's read before and its write after this call.
func (c *Core) ALUExec(op ALUOp, dstB bool, operand Long56) {
	acc := c.A
	if dstB {
		acc = c.B
	}

	var result Long56
	var carry, overflow bool

	switch op {
	case ALUNop:
		return
	case ALUAdd:
		result, carry, overflow = Add56(acc, operand)
	case ALUSub:
		result, carry, overflow = Sub56(acc, operand)
	case ALUCmp:
		result, carry, overflow = Sub56(acc, operand)
		c.setFlagsNZVC(result, carry, overflow)
		return // CMP never writes back
	case ALUAddL:
		shifted, _, _ := Asl56(acc)
		result, carry, overflow = Add56(shifted, operand)
	case ALUMove:
		if dstB {
			c.B = operand
		} else {
			c.A = operand
		}
		c.setFlag(SRN, operand.Negative())
		c.setFlag(SRZ, operand.Int64() == 0)
		return
	case ALUTfr:
		result = operand
	case ALUNeg:
		result, carry, overflow = Sub56(Long56{}, acc)
	case ALUClr:
		result = Long56{}
	case ALUAbs:
		var negated bool
		result, negated = Abs56(acc)
		overflow = negated && acc.Int64() == -(1<<55)
	case ALUAsl:
		result, carry, overflow = Asl56(acc)
	case ALUAsr:
		result, carry = Asr56(acc)
	case ALUAnd:
		result = bitwise56(acc, operand, func(a, b uint32) uint32 { return a & b })
	case ALUOr:
		result = bitwise56(acc, operand, func(a, b uint32) uint32 { return a | b })
	case ALUEor:
		result = bitwise56(acc, operand, func(a, b uint32) uint32 { return a ^ b })
	case ALUMpy:
		result = Mul56(operand.Low, operand.Mid, true)
	case ALUMac:
		p := Mul56(operand.Low, operand.Mid, true)
		result, carry, overflow = Add56(acc, p)
	case ALURnd:
		s1 := c.SR&(1<<SRS1) != 0
		s0 := c.SR&(1<<SRS0) != 0
		result = Rnd56(acc, s1, s0)
	}

	if dstB {
		c.B = result
	} else {
		c.A = result
	}
	c.setFlagsNZVC(result, carry, overflow)
}

func bitwise56(a, b Long56, f func(uint32, uint32) uint32) Long56 {
	return Long56{High: f(a.High, b.High) & mask8, Mid: f(a.Mid, b.Mid) & mask24, Low: f(a.Low, b.Low) & mask24}
}

func (c *Core) setFlagsNZVC(result Long56, carry, overflow bool) {
	c.setFlag(SRN, result.Negative())
	c.setFlag(SRZ, result.Int64() == 0)
	c.setFlag(SRV, overflow)
	c.setFlag(SRC, carry)
	// U (unnormalized) is set when bit 47 equals bit 46, and E (extension)
	// is set when the extension byte is not a redundant sign extension of
	// bit 47.
	c.setFlag(SRE, !isRedundantExtension(result))
	c.setFlag(SRU, isUnnormalized(result))
}

func isRedundantExtension(v Long56) bool {
	signMid := v.Mid&sign24 != 0
	if signMid {
		return v.High == mask8
	}
	return v.High == 0
}

func isUnnormalized(v Long56) bool {
	top := v.Mid&sign24 != 0
	next := v.Mid&(sign24>>1) != 0
	return top == next
}

func (c *Core) setFlag(bit uint, v bool) {
	if v {
		c.SR |= 1 << bit
	} else {
		c.SR &^= 1 << bit
	}
}

func (c *Core) flag(bit uint) bool { return c.SR&(1<<bit) != 0 }
