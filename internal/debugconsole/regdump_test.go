package debugconsole

import (
	"strings"
	"testing"

	"github.com/hatari-go/falconcore/internal/bus"
	"github.com/hatari-go/falconcore/internal/dsp"
	"github.com/hatari-go/falconcore/internal/m68k"
)

func TestFormatRegisterDumpIncludesCPUAndDSPState(t *testing.T) {
	b := bus.New()
	b.InstallRAM(0, 0x10000)
	cpu := m68k.NewCPU(b, m68k.Level68000)
	cpu.Reset()
	cpu.D[3] = 0xDEADBEEF

	core := dsp.NewCore()

	dump := FormatRegisterDump(cpu, core)
	if !strings.Contains(dump, "D3=DEADBEEF") {
		t.Fatalf("dump missing D3, got:\n%s", dump)
	}
	if !strings.Contains(dump, "DSP PC=") {
		t.Fatalf("dump missing DSP section, got:\n%s", dump)
	}
}

func TestFormatRegisterDumpWithoutDSP(t *testing.T) {
	b := bus.New()
	b.InstallRAM(0, 0x10000)
	cpu := m68k.NewCPU(b, m68k.Level68000)
	cpu.Reset()

	dump := FormatRegisterDump(cpu, nil)
	if strings.Contains(dump, "DSP PC=") {
		t.Fatalf("dump should omit DSP section when core is nil, got:\n%s", dump)
	}
}
