package hostcall

import "github.com/hatari-go/falconcore/internal/m68k"

// VDI substitutes a fixed extended screen resolution for whatever the
// real VDI driver would otherwise negotiate (§F,
// "intercept VDI calls to substitute extended screen resolution
// parameters"). A0 points at a three-word (width, height, planes) guest
// buffer the caller expects filled in.
type VDI struct {
	Width, Height, Planes uint16
}

// Handle implements VDIFunc.
func (v *VDI) Handle(cpu *m68k.CPU) bool {
	addr := cpu.GetA(0)
	cpu.Bus.WriteWord(addr, v.Width)
	cpu.Bus.WriteWord(addr+2, v.Height)
	cpu.Bus.WriteWord(addr+4, v.Planes)
	return true
}
