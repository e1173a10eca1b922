package m68k

import (
	"testing"

	"github.com/hatari-go/falconcore/internal/bus"
)

func newTestCPU() (*CPU, *bus.Bus) {
	b := bus.New()
	b.InstallRAM(0, 0x10000)
	c := NewCPU(b, Level68000)
	b.WriteLong(0, 0x00010000) // initial SSP
	b.WriteLong(4, 0x00000400) // initial PC
	c.Reset()
	return c, b
}

func TestResetLoadsVectorsAndSupervisorMode(t *testing.T) {
	c, _ := newTestCPU()
	if !c.Supervisor() {
		t.Fatalf("reset should enter supervisor mode")
	}
	if c.PC != 0x400 {
		t.Fatalf("PC after reset = %#x, want 0x400", c.PC)
	}
	if c.A7() != 0x10000 {
		t.Fatalf("A7 after reset = %#x, want 0x10000", c.A7())
	}
}

func TestMoveQSetsRegisterAndFlags(t *testing.T) {
	c, b := newTestCPU()
	c.PC = 0x400
	b.WriteWord(0x400, 0x7000|uint16(0x05)) // moveq #5,D0
	c.Step()
	if c.D[0] != 5 {
		t.Fatalf("D0 = %#x, want 5", c.D[0])
	}
	if c.CCZ || c.CCN {
		t.Fatalf("flags wrong for positive moveq result")
	}
}

// S2: divu.w D1,D0 with D0=0x00010000, D1=2 costs 130 cycles, per the
// WinUAE bit-stepping routine divUCycles ports verbatim.
func TestDivisionCycleCount(t *testing.T) {
	c, b := newTestCPU()
	c.PC = 0x400
	c.D[0] = 0x00010000
	c.D[1] = 2
	b.WriteWord(0x400, 0x80C1) // divu.w D1,D0
	cycles := c.Step()
	if cycles != 130 {
		t.Fatalf("divu cycle count = %d, want 130", cycles)
	}
	if c.D[0]&0xFFFF != 0x8000 {
		t.Fatalf("divu quotient = %#x, want 0x8000", c.D[0]&0xFFFF)
	}
}

// P6: exception entry sets S, jumps to vector target, and the stacked
// SR matches the pre-exception SR.
func TestExceptionEntryInvariants(t *testing.T) {
	c, b := newTestCPU()
	c.PC = 0x400
	c.SplitSR(0) // user mode
	b.WriteLong(uint32(vecIllegalInstruction)*4, 0x00000800)
	b.WriteWord(0x400, 0x4AFC) // not in our table: illegal opcode
	preSR := c.MakeSR()
	c.Step()
	if !c.Supervisor() {
		t.Fatalf("S should be 1 after exception entry")
	}
	if c.PC != 0x800 {
		t.Fatalf("PC after exception = %#x, want 0x800", c.PC)
	}
	stackedSR := uint16(0)
	sp := c.A7()
	v, _ := b.ReadWord(sp)
	stackedSR = v
	if stackedSR != preSR {
		t.Fatalf("stacked SR = %#x, want %#x", stackedSR, preSR)
	}
}

// S3: STOP wake-up ordering. DSP has strict priority over MFP, and the
// engine checks all sources within the same tick.
func TestStopServicesHighestPriorityFirst(t *testing.T) {
	c, b := newTestCPU()
	c.PC = 0x400
	b.WriteLong(uint32(vecAutovecBase+6)*4, 0x00000900)
	c.SplitSR(1 << SRS)        // STOP is privileged: run it in supervisor mode
	b.WriteWord(0x400, 0x4E72) // STOP #$2000
	b.WriteWord(0x402, 0x2000) // new SR after stop: mask 0
	c.Step()
	if !c.Stopped {
		t.Fatalf("CPU should be stopped after STOP")
	}
	c.SetPendingInterrupt("mfp", true)
	c.SetPendingInterrupt("dsp", true)
	c.Step()
	if c.dspPending {
		t.Fatalf("DSP interrupt should have been serviced (highest priority) first")
	}
	if !c.mfpPending {
		t.Fatalf("MFP interrupt should remain pending after DSP is serviced")
	}
	if c.PC != 0x900 {
		t.Fatalf("PC after interrupt accept = %#x, want 0x900", c.PC)
	}
}

// S4: accepting an interrupt on the normal (non-STOP) Step path charges
// the 12-cycle IACK latency on top of the instruction that was current
// when the interrupt became visible, and the handler's first
// instruction still lands exactly on the vector target.
func TestIACKLatencyChargedOnAcceptedInterrupt(t *testing.T) {
	c, b := newTestCPU()
	c.PC = 0x400
	c.SplitSR(0) // mask 0, so level 6 preempts
	b.WriteLong(uint32(vecAutovecBase+6)*4, 0x00000900)
	b.WriteWord(0x400, 0x4E71) // NOP, costs 4 cycles on its own
	c.SetPendingInterrupt("mfp", true)
	cycles := c.Step()
	if cycles != 4+iackLatency {
		t.Fatalf("cycles = %d, want %d (4 NOP + %d IACK)", cycles, 4+iackLatency, iackLatency)
	}
	if c.PC != 0x900 {
		t.Fatalf("PC after accepted interrupt = %#x, want 0x900", c.PC)
	}
	if c.mfpPending {
		t.Fatalf("mfp interrupt should no longer be pending once accepted")
	}
	if c.CycleCount() != uint64(4+iackLatency) {
		t.Fatalf("CycleCount() = %d, want %d", c.CycleCount(), 4+iackLatency)
	}
}

// S6: trace-after-CHK. SR.T1=1, CHK out of range: exception 6 fires
// first, and the deferred trace specialty is armed for the next Step.
func TestTraceAfterCHK(t *testing.T) {
	c, b := newTestCPU()
	c.PC = 0x400
	c.SplitSR(1 << SRT1)
	b.WriteLong(uint32(vecChk)*4, 0x00000A00)
	b.WriteLong(uint32(vecTrace)*4, 0x00000B00)
	c.D[0] = 100
	c.D[1] = 10
	b.WriteWord(0x400, 0x4181) // chk.w D1,D0 (reg field = 0 -> D0)
	c.Step()
	if c.PC != 0xA00 {
		t.Fatalf("PC after CHK = %#x, want 0xA00 (the CHK handler)", c.PC)
	}
	if c.Specialties&SpecDoTrace == 0 {
		t.Fatalf("SpecDoTrace should be armed after a group-2 exception taken with T1 set")
	}

	b.WriteWord(0xA00, 0x4E71) // NOP, the handler's first instruction
	c.Step()
	if c.PC != 0xB00 {
		t.Fatalf("PC after deferred trace = %#x, want 0xB00", c.PC)
	}
}

// S1: a bus error on the source side of a move must leave the
// destination register untouched. execMove and execMoveA only write
// the destination after the source read has already succeeded, so a
// faulting absolute-long source never gets the chance to corrupt A0.
func TestMoveSourceFaultLeavesDestinationUntouched(t *testing.T) {
	c, b := newTestCPU()
	c.PC = 0x400
	c.A[0] = 0x0008
	b.WriteLong(uint32(vecBusError)*4, 0x00000A00)
	// move.w (xxx).l,A0: reads the word at an absolute long address
	// in a bus-erroring bank, then would move it into A0. Unmapped banks
	// read as zero without a bus error, so the bank the 24-bit address
	// lands in is installed as a bus-erroring dummy.
	b.InstallDummy(0xFF0000, 1, true)
	b.WriteWord(0x400, 0x3079)
	b.WriteLong(0x402, 0xFFFF0000) // absolute address, outside installed RAM
	c.Step()
	if c.A[0] != 0x0008 {
		t.Fatalf("A0 after faulting move = %#x, want 0x8 (untouched)", c.A[0])
	}
	if c.PC != 0xA00 {
		t.Fatalf("PC after bus error = %#x, want 0xA00 (the bus error handler)", c.PC)
	}
	if c.Fault.Addr != 0xFFFF0000 {
		t.Fatalf("Fault.Addr = %#x, want 0xFFFF0000", c.Fault.Addr)
	}
}

func TestShiftLogicalLeft(t *testing.T) {
	c, b := newTestCPU()
	c.PC = 0x400
	c.D[0] = 1
	b.WriteWord(0x400, 0xE349) // lsl.w #1,D1 ... adjust below
	c.D[1] = 1
	// opcode E349 = 1110 0011 0100 1001: count=1,dr=1(left),size=01(word),type=01(logical),reg=001
	c.Step()
	if c.D[1]&0xFFFF != 2 {
		t.Fatalf("D1 after lsl #1 = %#x, want 2", c.D[1]&0xFFFF)
	}
}
