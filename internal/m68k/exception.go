package m68k

// Exception vector numbers (§4.E, §7).
const (
	vecReset              = 0
	vecBusError           = 2
	vecAddressError       = 3
	vecIllegalInstruction = 4
	vecDivideByZero       = 5
	vecChk                = 6
	vecTrapv              = 7
	vecPrivilegeViolation = 8
	vecTrace              = 9
	vecLineA              = 10
	vecLineF              = 11
	vecTrap0              = 32
	vecAutovecBase        = 24 // 24+level, level 1..7
)

const cycleException = 34 // fixed exception overhead, the same for every vector and frame format

// Frame formats, named the way the 68010+ stack-format word encodes them.
const (
	frameFmt0 = 0x0 // short format: SR, PC
	frameFmt1 = 0x1 // throwaway (68010 format 1, four words, no extra state)
	frameFmt2 = 0x2 // six words: adds the "instruction PC" extra word
	frameFmtA = 0xA // short bus/address error (68020 0x1000 family analogue here)
	frameFmtB = 0xB // long bus/address error, 12 words including SR and PC (68000/68010 style)
)

func isGroup2(vector uint8) bool {
	switch vector {
	case vecChk, vecDivideByZero, vecTrapv, vecTrace:
		return true
	default:
		return vector >= vecTrap0 && vector < vecTrap0+16
	}
}

func isGroup0(vector uint8) bool {
	return vector == vecBusError || vector == vecAddressError
}

// raiseVector pushes a frame for a non-fault exception (illegal
// instruction, privilege violation, traps, autovectors) and jumps to
// its handler.
func (c *CPU) raiseVector(vector uint8) {
	c.enterException(vector, false)
}

// raiseFault pushes a bus/address-error frame, which carries the extra
// access-info words built from c.Fault.
func (c *CPU) raiseFault(vector uint8) {
	if c.inException && isGroup0(vector) {
		c.doubleFaulted = true
		c.Stopped = true
		c.logf("m68k: double bus fault, halting core")
		return
	}
	c.enterException(vector, true)
}

func (c *CPU) enterException(vector uint8, fault bool) {
	c.exceptionTaken = true
	oldSR := c.MakeSR()
	oldPC := c.InstructionPC
	if vector == vecReset {
		oldPC = c.PC
	}

	// A7 needs no explicit stack swap: it's never stored directly, only
	// resolved through A7()/SetA7() against the *current* S/M bits, so
	// setting S here is enough to redirect every subsequent push/pop at
	// the right stack (I-R1/I-R2).
	c.inException = true
	c.SplitSR(oldSR | (1 << SRS))
	c.SR &^= (1 << SRT0) | (1 << SRT1)

	format := frameFmt0
	if fault {
		format = frameFmtB
	}
	c.pushExceptionFrame(oldSR, oldPC, vector, format)

	vecAddr := c.VBR + uint32(vector)*4
	newPC, ok := c.readLong(vecAddr, false)
	if !ok || newPC&1 != 0 {
		if fault {
			c.doubleFaulted = true
			c.Stopped = true
			c.logf("m68k: odd vector fetch while servicing bus/address error, halting")
			c.inException = false
			return
		}
		c.pendingFaultVector = vecAddressError
		c.inException = false
		return
	}

	c.PC = newPC
	c.InstructionPC = newPC
	c.inException = false

	if isGroup2(vector) {
		// Trace-after-group-2: defer the trace exception until the
		// handler's first instruction has executed (§4.E).
		if oldSR&(1<<SRT1) != 0 {
			c.Specialties |= SpecDoTrace
		}
	}
}

func (c *CPU) pushExceptionFrame(oldSR uint16, oldPC uint32, vector uint8, format int) {
	switch format {
	case frameFmtB:
		c.push16(0) // internal information, not modeled
		c.push16(buildSSW(c.Fault))
		c.push32(c.Fault.Addr)
		c.push16(0)
		c.push16(uint16(c.Fault.Data >> 16))
		c.push16(uint16(c.Fault.Data))
		c.push16(0)
		c.push16(c.Fault.Opcode)
		c.push32(oldPC)
		c.push16(oldSR)
	default:
		c.push32(oldPC)
		c.push16(oldSR)
	}
}

func buildSSW(f Fault) uint16 {
	var ssw uint16
	if f.Instruction {
		ssw |= 1 << 15
	}
	if !f.Write {
		ssw |= 1 << 6
	}
	switch f.Size {
	case 1:
	case 2:
		ssw |= 1 << 4
	default:
		ssw |= 2 << 4
	}
	return ssw
}

// serviceGroup2Trace implements the deferred trace-after-group-2 rule:
// once SpecDoTrace is set and we're back at a normal fetch boundary
// (i.e. after the handler's first instruction completed), fire trace.
func (c *CPU) serviceGroup2Trace() {
	if c.Specialties&SpecDoTrace != 0 {
		c.Specialties &^= SpecDoTrace
		c.raiseVector(vecTrace)
		return
	}
	if c.SR&(1<<SRT1) != 0 {
		c.raiseVector(vecTrace)
	}
}

// SetPendingInterrupt implements set_pending_interrupt(source, pending)
// (§6). source is one of "dsp", "mfp", "hbl", "vbl".
func (c *CPU) SetPendingInterrupt(source string, pending bool) {
	switch source {
	case "dsp":
		c.dspPending = pending
		if pending {
			c.Specialties |= SpecDSP
		}
	case "mfp":
		c.mfpPending = pending
		if pending {
			c.Specialties |= SpecMFP
		}
	case "hbl":
		c.hblPending = pending
	case "vbl":
		c.vblPending = pending
	}
}

// iackLatency is the fixed IACK bus-cycle cost charged before an
// accepted interrupt's handler runs (§4.E: "12 cycles for MFP, 12
// cycles for video autovector"). Folding it into the instruction's
// returned cycle count, rather than charging it invisibly, is what lets
// further timer events land within this window: the scheduler services
// cycles up through the post-IACK count, so a timer bit set during IACK
// is already visible by the time the handler's first instruction runs.
const iackLatency = 12

// servicePendingInterrupts implements §4.E's ordering rule: evaluate
// {DSP, MFP, video-autovec} strictly in that order; within video, VBL
// (level 4) beats HBL (level 2). Returns the IACK cycles to add to the
// instruction just executed, or 0 if nothing was accepted.
func (c *CPU) servicePendingInterrupts() int {
	level, vector, ok := c.nextInterrupt()
	if !ok {
		return 0
	}
	if level <= c.IPL() {
		return 0
	}
	c.acceptInterrupt(level, vector)
	return iackLatency
}

func (c *CPU) nextInterrupt() (level uint8, vector uint8, ok bool) {
	if c.dspPending {
		return 6, vecAutovecBase + 6, true
	}
	if c.mfpPending {
		return 6, vecAutovecBase + 6, true
	}
	if c.vblPending {
		return 4, vecAutovecBase + 4, true
	}
	if c.hblPending {
		return 2, vecAutovecBase + 2, true
	}
	return 0, 0, false
}

func (c *CPU) acceptInterrupt(level, vector uint8) {
	c.Stopped = false
	c.enterException(vector, false)
	c.SR = (c.SR &^ (0x7 << srI0)) | (uint16(level) << srI0)
	c.Intmask = level

	switch vector {
	case vecAutovecBase + 6:
		if c.dspPending {
			c.dspPending = false
			c.Specialties &^= SpecDSP
		} else {
			c.mfpPending = false
			c.Specialties &^= SpecMFP
		}
	case vecAutovecBase + 4:
		c.vblPending = false
	case vecAutovecBase + 2:
		c.hblPending = false
	}
}

// stepStopped implements the STOP instruction's cycle-draining loop
// (§4.E): 4 cycles per tick, draining pending events, re-evaluating all
// interrupt sources every tick, and applying a small deterministic
// jitter on acceptance.
func (c *CPU) stepStopped() int {
	const tickCycles = 4
	_, _, ok := c.nextInterrupt()
	if !ok {
		c.cycleCounter += tickCycles
		return tickCycles
	}
	jitter := int(c.cycleCounter % 3)
	iack := c.servicePendingInterrupts()
	cycles := tickCycles + jitter + iack
	c.cycleCounter += uint64(cycles)
	return cycles
}
