package dsp

// Interpreter executes one DSP56001 instruction per Step call (§4.C).
type Interpreter struct {
	Core *Core

	// Cycles accumulates the instruction-cycle counter across calls;
	// callers read and reset it as needed (mirrors the 68k side's own
	// cycle accounting, so the machine-level scheduler treats both cores
	// symmetrically).
	Cycles uint64
}

// NewInterpreter builds an Interpreter over an already-reset Core.
func NewInterpreter(c *Core) *Interpreter {
	return &Interpreter{Core: c}
}

// control instruction family, selected by the primary 9-bit index.
type ctrlHandler func(c *Core, opcode uint32) int

// controlTable is the 512-entry dispatch table for non-parallel-move
// (control/move) instructions (§4.C). Entries left nil dispatch to
// illegalOp rather than relying on a magic sentinel handler, per the
// Design Notes' "avoid op_illg-as-sentinel" guidance — carried over here
// even though the DSP's own source never had that problem, for
// consistency with the 68k decoder's convention.
var controlTable [512]ctrlHandler

func init() {
	controlTable[0x000] = opNop
	controlTable[0x001] = opDebug
	controlTable[0x004] = opRTS
	controlTable[0x005] = opRTI
	controlTable[0x006] = opSWI
	controlTable[0x008] = opStop
	controlTable[0x009] = opWait
	controlTable[0x020] = opDo
	controlTable[0x021] = opEndDo
	controlTable[0x040] = opJmp
	controlTable[0x041] = opJsr
	controlTable[0x042] = opJcc
	controlTable[0x043] = opJScc
	controlTable[0x060] = opRep
	controlTable[0x080] = opMoveImmLong
	controlTable[0x081] = opMoveReg
}

func primaryIndex(opcode uint32) int {
	// The primary 9-bit index is formed from the fixed high-order bits
	// that distinguish control-instruction families: bits 20..12 of the
	// 24-bit opcode (ALU instructions are excluded by the caller before
	// this is reached).
	return int((opcode >> 12) & 0x1FF)
}

// Step fetches, decodes and executes exactly one DSP instruction,
// returning the cycle cost.
func (in *Interpreter) Step() int {
	c := in.Core
	c.ProcessHostInterface()

	if c.State != StateRunning {
		return 4
	}

	opcode := c.ReadP(c.PC)
	pc := c.PC
	c.PC++

	cycles := 4
	if opcode&0xF00000 != 0 {
		cycles = in.stepALU(opcode)
	} else {
		idx := primaryIndex(opcode)
		h := controlTable[idx]
		if h == nil {
			h = illegalOp
		}
		cycles = h(c, opcode)
	}

	if src, long, ok := c.ServiceInterrupts(); ok {
		in.serviceInterrupt(src, long)
	}

	_ = pc
	in.Cycles += uint64(cycles)
	return cycles
}

// stepALU executes an ALU-with-parallel-move instruction: decode the
// 4-bit parallel-move class, run its read half, execute the 8-bit ALU
// op, then run the parallel move's write half — strictly in that order
// (§4.C "this matters for self-overlapping moves").
func (in *Interpreter) stepALU(opcode uint32) int {
	c := in.Core
	class := PMClass((opcode >> 20) & 0xF)
	aluOp8 := uint8(opcode & 0xFF)
	dstB := opcode&0x8 != 0

	move := decodeParallelMove(class, opcode)
	move.read(c)

	op, operand := decodeALUOp(aluOp8, c, dstB)
	c.ALUExec(op, dstB, operand)

	move.write(c)
	return 4
}

// decodeALUOp maps the 8-bit ALU field to an operation and its second
// operand. This is the representative subset documented in alu.go.
func decodeALUOp(field uint8, c *Core, dstB bool) (ALUOp, Long56) {
	other := c.A
	if !dstB {
		other = c.B
	}
	switch field {
	case 0x00:
		return ALUNop, Long56{}
	case 0x01:
		return ALUAdd, other
	case 0x02:
		return ALUSub, other
	case 0x03:
		return ALUCmp, other
	case 0x04:
		return ALUAnd, other
	case 0x05:
		return ALUOr, other
	case 0x06:
		return ALUEor, other
	case 0x07:
		return ALUTfr, other
	case 0x08:
		return ALUNeg, Long56{}
	case 0x09:
		return ALUClr, Long56{}
	case 0x0A:
		return ALUAbs, Long56{}
	case 0x0B:
		return ALUAsl, Long56{}
	case 0x0C:
		return ALUAsr, Long56{}
	case 0x0D:
		return ALUMpy, Long56{Low: c.X0, Mid: c.Y0}
	case 0x0E:
		return ALUMac, Long56{Low: c.X1, Mid: c.Y1}
	case 0x0F:
		return ALURnd, Long56{}
	default:
		return ALUNop, Long56{}
	}
}

func illegalOp(c *Core, _ uint32) int {
	c.PostInterrupt(intIllegal)
	return 4
}

func opNop(*Core, uint32) int  { return 4 }
func opDebug(*Core, uint32) int { return 4 }

func opRTS(c *Core, _ uint32) int {
	_, pc := c.Pop()
	c.PC = pc
	return 4
}

func opRTI(c *Core, _ uint32) int {
	sr, pc := c.Pop()
	c.SR = sr
	c.PC = pc
	return 4
}

func opSWI(c *Core, _ uint32) int {
	c.PostInterrupt(intSWI)
	return 8
}

func opStop(c *Core, _ uint32) int {
	c.State = StateHalt
	return 4
}

func opWait(*Core, uint32) int { return 4 }

func opDo(c *Core, opcode uint32) int {
	c.LC = uint16(opcode & 0xFFFF)
	c.LA = c.PC
	return 6
}

func opEndDo(c *Core, _ uint32) int {
	if c.LC > 0 {
		c.LC--
	}
	if c.LC > 0 {
		c.PC = c.LA
	}
	return 4
}

func opJmp(c *Core, opcode uint32) int {
	c.PC = uint16(opcode & 0xFFFF)
	return 4
}

func opJsr(c *Core, opcode uint32) int {
	_ = c.Push(0, c.PC)
	c.PC = uint16(opcode & 0xFFFF)
	return 6
}

func opJcc(c *Core, opcode uint32) int {
	if checkCondition(c, uint8(opcode>>16)) {
		c.PC = uint16(opcode & 0xFFFF)
	}
	return 4
}

func opJScc(c *Core, opcode uint32) int {
	if checkCondition(c, uint8(opcode>>16)) {
		_ = c.Push(0, c.PC)
		c.PC = uint16(opcode & 0xFFFF)
	}
	return 4
}

func opRep(c *Core, opcode uint32) int {
	// Models REP for cycle accounting only: it charges 4 + count cycles
	// and does not repeat the next instruction, which then executes once.
	return 4 + int(opcode&0xFF)
}

func opMoveImmLong(c *Core, opcode uint32) int {
	dest := int((opcode >> 8) & 0x3F)
	c.SetRegister24(dest, opcode&0xFFFFFF)
	return 6
}

func opMoveReg(c *Core, opcode uint32) int {
	src := int((opcode >> 8) & 0x3F)
	dest := int(opcode & 0x3F)
	c.SetRegister24(dest, c.GetRegister24(src))
	return 4
}

// checkCondition evaluates one of the DSP's condition-code mnemonics
// against the current SR, covering the common subset (CC/CS, EQ/NE,
// GT/LE, GE/LT) built from the same N/Z/V/C flags the ALU maintains.
func checkCondition(c *Core, cc uint8) bool {
	n, z, v, carry := c.flag(SRN), c.flag(SRZ), c.flag(SRV), c.flag(SRC)
	switch cc & 0xF {
	case 0x0:
		return !carry
	case 0x1:
		return carry
	case 0x2:
		return !z
	case 0x3:
		return z
	case 0x4:
		return n == v
	case 0x5:
		return n != v
	case 0x6:
		return !z && n == v
	case 0x7:
		return z || n != v
	default:
		return true
	}
}

func (in *Interpreter) serviceInterrupt(source int, long bool) {
	c := in.Core
	if long {
		_ = c.Push(c.SR, c.PC)
	}
	c.SR |= 1 << SRS // force supervisor-equivalent "interrupt in progress" state bit as a marker
	c.PC = uint16(source) * 2
}
