package machine

import "testing"

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m := New(Config{CPULevel: 0, MemorySize: 0x10000})
	m.Bus.WriteLong(0, 0x00010000)
	m.Bus.WriteLong(4, 0x00000400)
	m.Reset(0, -1, false)
	return m
}

func TestStepAdvancesPCAndCycles(t *testing.T) {
	m := newTestMachine(t)
	m.Bus.WriteWord(0x400, 0x4E71) // NOP
	before := m.CPU.PC
	m.Step()
	if m.CPU.PC != before+2 {
		t.Fatalf("PC = %#x, want %#x", m.CPU.PC, before+2)
	}
	if m.CPU.CycleCount() == 0 {
		t.Fatalf("cycle count should advance")
	}
}

func TestHostPortBridgesCPUAndDSP(t *testing.T) {
	m := newTestMachine(t)
	// Writing the ICR byte through the bus should reach the DSP core's
	// HostPort register directly (§2, "the sole bridge").
	if err := m.Bus.WriteByte(0xFFA200, 0x01); err != nil {
		t.Fatalf("unexpected bus error: %v", err)
	}
	if m.DSP.HostPort[0]&0xFB != 0x01 {
		t.Fatalf("ICR not reflected on DSP side: %#x", m.DSP.HostPort[0])
	}
}

func TestDoubleBusFaultHaltsTheLoop(t *testing.T) {
	m := newTestMachine(t)
	// InstallDummy works per 64 KiB bank, so this turns all of bank 0 (the
	// RAM holding the vectors, the code at 0x400 and the supervisor stack)
	// into a bus-erroring region. The next instruction fetch bus-errors,
	// and fetching the bus-error vector faults again while that error is
	// being serviced, which halts the core.
	m.Bus.InstallDummy(0x800, 1, true)
	m.Bus.WriteLong(4*4, 0x800)    // dropped: bank 0 now bus-errors
	m.Bus.WriteWord(0x400, 0xFFFF) // dropped as well
	m.CPU.PC = 0x400

	for i := 0; i < 10 && !m.DoubleBusError; i++ {
		m.Step()
	}
	if !m.DoubleBusError {
		t.Fatalf("expected a double bus fault within a handful of steps")
	}
}
