package hostcall

import "github.com/hatari-go/falconcore/internal/m68k"

// SysInit reports the connected drive bitmap and memory size the guest
// boot ROM would otherwise have to probe hardware for (§F,
// "patch boot-time behavior (drive map, memory size)").
type SysInit struct {
	ConnectedDrives uint32
	MemorySize      uint32
}

// Handle implements SysInitFunc: D0 selects which value to fetch (0 =
// drive map, 1 = memory size), and the result replaces D0.
func (s *SysInit) Handle(cpu *m68k.CPU) bool {
	switch cpu.D[0] {
	case 0:
		cpu.D[0] = s.ConnectedDrives
	case 1:
		cpu.D[0] = s.MemorySize
	default:
		return false
	}
	return true
}
