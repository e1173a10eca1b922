package m68k

import "github.com/hatari-go/falconcore/internal/bus"

// InterceptFunc services a private-opcode host-call trampoline hit
// during decode (§4.F). It returns true if it handled the instruction
// (so the interpreter should not raise illegal instruction).
type InterceptFunc func(cpu *CPU, operand uint16) bool

// Fault records the last failed memory access, the source material for
// buildSSW/exception frame construction (§4.E).
type Fault struct {
	Addr        uint32
	Size        uint8
	Write       bool
	Data        uint32
	Instruction bool
	Opcode      uint16
}

// CPU is one 68k interpreter instance (Design Notes: "explicit CpuContext
// ... passed by exclusive mutable reference").
type CPU struct {
	Regs

	Bus   *bus.Bus
	Level Level

	table [65536]*opcodeEntry

	Fault Fault

	lastOpcode          uint16
	prevFamily          family
	cycleCounter        uint64
	pendingFaultVector  uint8

	Intercept InterceptFunc

	// Pending peripheral interrupt specialty flags, set by SetPendingInterrupt.
	mfpPending    bool
	dspPending    bool
	vblPending    bool
	hblPending    bool
	mfpVector     uint8
	inException   bool
	doubleFaulted bool

	// exceptionTaken is set by enterException and cleared at the top of
	// every Step. It tells Step not to service a just-armed SpecDoTrace
	// in the same call that armed it: the deferred trace must wait for
	// the handler's first instruction to execute (§4.E, S6).
	exceptionTaken bool

	Log func(level, format string, args ...any)
}

// NewCPU builds a CPU for the given family member over bus b.
func NewCPU(b *bus.Bus, level Level) *CPU {
	c := &CPU{Bus: b, Level: level}
	c.Regs.Level = level
	c.Bus.Wrap24 = level == Level68000 || level == Level68010
	c.table = buildTable(level)
	return c
}

// Reset implements cpu_reset(cold) (§6): load SSP/PC from the reset
// vectors at 0/4, clear trace, enter supervisor mode.
func (c *CPU) Reset() {
	c.Regs = Regs{Level: c.Level}
	c.SR = 1 << SRS
	ssp, _ := c.Bus.ReadLong(0)
	pc, _ := c.Bus.ReadLong(4)
	c.MSP = ssp
	c.ISP = ssp
	c.PC = pc
	c.InstructionPC = pc
}

// CycleCount returns the total cycles consumed since Reset.
func (c *CPU) CycleCount() uint64 { return c.cycleCounter }

// DoubleFaulted reports whether the core halted on a double bus fault
// (a bus/address error raised while already servicing one, §4.E).
// Stopped alone is ambiguous: the STOP instruction also sets it while
// waiting for an interrupt.
func (c *CPU) DoubleFaulted() bool { return c.doubleFaulted }

func (c *CPU) logf(format string, args ...any) {
	if c.Log != nil {
		c.Log("info", format, args...)
	}
}

// --- memory access, with fault recording for the exception engine ---

func (c *CPU) readByte(addr uint32, instr bool) (uint8, bool) {
	v, err := c.Bus.ReadByte(addr)
	if err != nil {
		c.recordFault(addr, 1, false, 0, instr, err)
		return 0, false
	}
	return v, true
}

func (c *CPU) readWord(addr uint32, instr bool) (uint16, bool) {
	v, err := c.Bus.ReadWord(addr)
	if err != nil {
		c.recordFault(addr, 2, false, 0, instr, err)
		return 0, false
	}
	return v, true
}

func (c *CPU) readLong(addr uint32, instr bool) (uint32, bool) {
	v, err := c.Bus.ReadLong(addr)
	if err != nil {
		c.recordFault(addr, 4, false, 0, instr, err)
		return 0, false
	}
	return v, true
}

func (c *CPU) writeByte(addr uint32, v uint8) bool {
	if err := c.Bus.WriteByte(addr, v); err != nil {
		c.recordFault(addr, 1, true, uint32(v), false, err)
		return false
	}
	return true
}

func (c *CPU) writeWord(addr uint32, v uint16) bool {
	if err := c.Bus.WriteWord(addr, v); err != nil {
		c.recordFault(addr, 2, true, uint32(v), false, err)
		return false
	}
	return true
}

func (c *CPU) writeLong(addr uint32, v uint32) bool {
	if err := c.Bus.WriteLong(addr, v); err != nil {
		c.recordFault(addr, 4, true, v, false, err)
		return false
	}
	return true
}

func (c *CPU) recordFault(addr uint32, size uint8, write bool, data uint32, instr bool, err error) {
	c.Fault = Fault{Addr: addr, Size: size, Write: write, Data: data, Instruction: instr, Opcode: c.lastOpcode}
	switch err.(type) {
	case *bus.AddressError:
		c.pendingFaultVector = vecAddressError
	default:
		c.pendingFaultVector = vecBusError
	}
}

// --- fetch / stack helpers ---

func (c *CPU) fetch16() uint16 {
	v, _ := c.readWord(c.PC, true)
	c.PC += 2
	return v
}

func (c *CPU) fetch32() uint32 {
	v, _ := c.readLong(c.PC, true)
	c.PC += 4
	return v
}

func (c *CPU) push16(v uint16) {
	sp := c.A7() - 2
	c.SetA7(sp)
	c.writeWord(sp, v)
}

func (c *CPU) push32(v uint32) {
	sp := c.A7() - 4
	c.SetA7(sp)
	c.writeLong(sp, v)
}

func (c *CPU) pop16() uint16 {
	sp := c.A7()
	v, _ := c.readWord(sp, false)
	c.SetA7(sp + 2)
	return v
}

func (c *CPU) pop32() uint32 {
	sp := c.A7()
	v, _ := c.readLong(sp, false)
	c.SetA7(sp + 4)
	return v
}

// Step executes exactly one guest instruction (or exception/STOP
// handling) and returns the cycle count consumed, implementing
// cpu_step() (§4.D, §6).
func (c *CPU) Step() int {
	if c.pendingFaultVector != 0 {
		v := c.pendingFaultVector
		c.pendingFaultVector = 0
		c.raiseFault(v)
		return cycleException
	}

	if c.Stopped {
		return c.stepStopped()
	}

	c.exceptionTaken = false
	c.InstructionPC = c.PC
	opcode := c.fetch16()
	c.lastOpcode = opcode

	if c.pendingFaultVector != 0 {
		v := c.pendingFaultVector
		c.pendingFaultVector = 0
		c.raiseFault(v)
		return cycleException
	}

	entry := c.table[opcode]
	var cycles int
	var fam family
	if entry == nil {
		c.raiseVector(vecIllegalInstruction)
		cycles = cycleException
	} else {
		fam = entry.fam
		cycles = entry.handler(c, opcode)
		if c.pendingFaultVector != 0 {
			v := c.pendingFaultVector
			c.pendingFaultVector = 0
			c.raiseFault(v)
			cycles = cycleException
		}
	}

	cycles = c.applyCycleAdjustments(fam, cycles)
	c.prevFamily = fam

	if !c.exceptionTaken {
		c.serviceGroup2Trace()
	}
	cycles += c.servicePendingInterrupts()

	c.cycleCounter += uint64(cycles)
	return cycles
}
