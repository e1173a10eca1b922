// Package machine wires the address space, 68k interpreter, DSP core and
// host-call trampoline into the single scheduling loop §2 describes: one
// host thread running cpu_step, with the DSP advanced in lock-step after
// each 68k instruction and scheduled events serviced between the two.
package machine

import (
	"github.com/hatari-go/falconcore/internal/bus"
	"github.com/hatari-go/falconcore/internal/dsp"
	"github.com/hatari-go/falconcore/internal/falconlog"
	"github.com/hatari-go/falconcore/internal/hostcall"
	"github.com/hatari-go/falconcore/internal/m68k"
	"github.com/hatari-go/falconcore/internal/sched"
)

// dspCyclesPerCPUCycle is the fixed ratio from §5: the DSP runs at 32 MHz
// against a 16 MHz 68k, so it is stepped twice per CPU cycle spent.
const dspCyclesPerCPUCycle = 2

// Config configures a new Machine (§G, "a small machine.Config struct").
type Config struct {
	CPULevel   m68k.Level
	MemorySize uint32
	DSPEnabled bool
	ROMPath    string
	ROMImage   []byte
	GemDosDir  string

	// Console, if set, redirects GEMDOS Cconin/Cconout to an interactive
	// host terminal (internal/debugconsole.Console satisfies this).
	Console hostcall.Console

	// DebugBreak, if set, is polled once per Step; a true return asks the
	// driving loop to suspend guest execution and enter the debugger
	// (debugconsole.Console.BreakRequested is the intended source).
	DebugBreak func() bool
}

// Machine composes the Falcon core components and drives the scheduling
// loop.
type Machine struct {
	Bus    *bus.Bus
	CPU    *m68k.CPU
	DSP    *dsp.Core
	DSPInt *dsp.Interpreter
	Hooks  *hostcall.Table
	Sched  *sched.Queue
	Log    *falconlog.Logger

	dspEnabled bool
	dspCredit  int64
	debugBreak func() bool

	// DoubleBusError is set by Step once the 68k core halts on a double
	// bus fault (§G: "the one non-recoverable case"); the scheduling
	// loop must stop calling Step once this is true.
	DoubleBusError bool

	// Break is set by Step when DebugBreak reports a pending request; the
	// driving loop should check it after every Step and clear it once
	// the debugger has been entered.
	Break bool
}

// New builds a Machine from cfg, ready for Reset.
func New(cfg Config) *Machine {
	b := bus.New()
	if cfg.MemorySize > 0 {
		b.InstallRAM(0, cfg.MemorySize)
	}
	if len(cfg.ROMImage) > 0 {
		b.InstallROM(0xFC0000, cfg.ROMImage)
	}

	cpu := m68k.NewCPU(b, cfg.CPULevel)
	log := falconlog.Default()
	cpu.Log = log.Log

	core := dsp.NewCore()
	interp := dsp.NewInterpreter(core)

	m := &Machine{
		Bus:        b,
		CPU:        cpu,
		DSP:        core,
		DSPInt:     interp,
		Sched:      sched.New(),
		Log:        log,
		dspEnabled: cfg.DSPEnabled,
		debugBreak: cfg.DebugBreak,
	}

	hooks := &hostcall.Table{}
	if cfg.GemDosDir != "" || cfg.Console != nil {
		g := hostcall.NewGemDos(cfg.GemDosDir)
		g.Console = cfg.Console
		hooks.GemDos = g.Handle
	}
	m.Hooks = hooks
	cpu.Intercept = hooks.Handle
	b.InstallIO(0xFFA200, &hostPortIO{core: core})

	return m
}

// hostPortIO exposes dsp.Core's host-port registers to the 68k bus
// (§2, "the sole bridge"): bytes 0xFFA200..0xFFA207 map to HostPort
// indices 0..7, and every other offset in the bank is declined. Indices
// past 7 (HostTX1, HostTX2) are not reachable from the bus. Only byte
// access is meaningful; word/long access reads/writes the low byte of the pair.
type hostPortIO struct{ core *dsp.Core }

func (h *hostPortIO) ReadByte(offset uint16) (uint8, bool) {
	reg := offset - 0xA200
	if reg > 7 {
		return 0, false
	}
	return h.core.HostCPURead(int(reg)), true
}
func (h *hostPortIO) ReadWord(offset uint16) (uint16, bool) {
	v, ok := h.ReadByte(offset)
	return uint16(v), ok
}
func (h *hostPortIO) ReadLong(offset uint16) (uint32, bool) {
	v, ok := h.ReadByte(offset)
	return uint32(v), ok
}
func (h *hostPortIO) WriteByte(offset uint16, v uint8) bool {
	reg := offset - 0xA200
	if reg > 7 {
		return false
	}
	h.core.HostCPUWrite(int(reg), v)
	return true
}
func (h *hostPortIO) WriteWord(offset uint16, v uint16) bool {
	return h.WriteByte(offset, uint8(v))
}
func (h *hostPortIO) WriteLong(offset uint16, v uint32) bool {
	return h.WriteByte(offset, uint8(v))
}

// Reset applies boot-time TOS patches (if a ROM image is installed) and
// resets both cores (§G "machine.Reset").
func (m *Machine) Reset(tosVersion uint16, tosCountry int16, hdEnabled bool) {
	if applicable := hostcall.Scan(m.Bus, hostcall.PatchTable, tosVersion, tosCountry, hdEnabled); len(applicable) > 0 {
		n := hostcall.Apply(m.Bus, applicable)
		m.Log.Log("info", "applied %d/%d TOS patches", n, len(applicable))
	}
	m.CPU.Reset()
	m.DSP.Reset()
	m.DoubleBusError = false
}

// Step executes exactly one iteration of the control-flow loop in §2:
// one 68k instruction, its exception/interrupt housekeeping (handled
// inside CPU.Step), scheduled-event service, and a proportional advance
// of the DSP core.
func (m *Machine) Step() int {
	if m.DoubleBusError {
		return 0
	}
	cycles := m.CPU.Step()
	if m.CPU.DoubleFaulted() {
		m.DoubleBusError = true
		m.Log.Log("error", "halted on double bus fault at PC=%#x", m.CPU.InstructionPC)
		return cycles
	}

	m.Sched.Service(m.CPU.CycleCount())

	if m.dspEnabled {
		m.dspCredit += int64(cycles) * dspCyclesPerCPUCycle
		for m.dspCredit > 0 {
			m.dspCredit -= int64(m.DSPInt.Step())
		}
	}

	if m.debugBreak != nil && m.debugBreak() {
		m.Break = true
	}
	return cycles
}
