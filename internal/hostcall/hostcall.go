// Package hostcall implements the private-opcode host-call trampoline
// (§4.F): the 0x008/0x00A/0x00C operand family the m68k interpreter's
// intercept hook dispatches to, plus the TOS patch table that redirects a
// handful of known GEMDOS/BIOS vectors at boot.
package hostcall

import "github.com/hatari-go/falconcore/internal/m68k"

// Opcode operand values carried in the low byte of the intercepted
// private instruction word (§4.F).
const (
	OpCodeGemDos  = 0x08
	OpCodeSysInit = 0x0A
	OpCodeVDI     = 0x0C
)

// OpCodeGemDos, OpCodeSysInit and OpCodeVDI each identify one of the
// three handler signatures a Table entry can hold.
type (
	GemDosFunc  func(cpu *m68k.CPU) bool
	SysInitFunc func(cpu *m68k.CPU) bool
	VDIFunc     func(cpu *m68k.CPU) bool
)

// Table dispatches an intercepted private opcode to the handler
// registered for its operand. It is installed as a CPU's Intercept hook
// via Table.Handle.
type Table struct {
	GemDos  GemDosFunc
	SysInit SysInitFunc
	VDI     VDIFunc
}

// Handle adapts Table to m68k.InterceptFunc.
func (t *Table) Handle(cpu *m68k.CPU, operand uint16) bool {
	switch operand {
	case OpCodeGemDos:
		if t.GemDos != nil {
			return t.GemDos(cpu)
		}
	case OpCodeSysInit:
		if t.SysInit != nil {
			return t.SysInit(cpu)
		}
	case OpCodeVDI:
		if t.VDI != nil {
			return t.VDI(cpu)
		}
	}
	return false
}
