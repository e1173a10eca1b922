package debugconsole

import (
	"fmt"
	"strings"
	"sync"

	"golang.design/x/clipboard"

	"github.com/hatari-go/falconcore/internal/dsp"
	"github.com/hatari-go/falconcore/internal/m68k"
)

// clipboardOnce and clipboardErr record whether clipboard.Init succeeded; CopyRegisterDump
// is a no-op (returning the init error) on hosts without a clipboard
// (headless CI, no X11/Wayland), which is the common case for this
// feature in practice.
var (
	clipboardOnce sync.Once
	clipboardErr  error
)

func ensureClipboard() error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	return clipboardErr
}

// FormatRegisterDump renders the bit-exact externally-visible CPU and DSP
// register state as plain text, the same fields scenario S6/§6's
// "Bit-exact externals" promises a debugger front end access to.
func FormatRegisterDump(cpu *m68k.CPU, core *dsp.Core) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PC=%08X SR=%04X USP=%08X ISP=%08X MSP=%08X\n", cpu.PC, cpu.SR, cpu.USP, cpu.ISP, cpu.MSP)
	for i, v := range cpu.D {
		fmt.Fprintf(&sb, "D%d=%08X ", i, v)
	}
	sb.WriteByte('\n')
	for i, v := range cpu.A {
		fmt.Fprintf(&sb, "A%d=%08X ", i, v)
	}
	fmt.Fprintf(&sb, "A7=%08X\n", cpu.A7())
	if core != nil {
		fmt.Fprintf(&sb, "DSP PC=%04X SR=%04X OMR=%04X X0=%06X X1=%06X Y0=%06X Y1=%06X\n",
			core.PC, core.SR, core.OMR, core.X0, core.X1, core.Y0, core.Y1)
	}
	return sb.String()
}

// CopyRegisterDump serializes the current CPU/DSP register image and
// copies it to the host clipboard as plain text, for pasting into a bug
// report.
func CopyRegisterDump(cpu *m68k.CPU, core *dsp.Core) error {
	if err := ensureClipboard(); err != nil {
		return fmt.Errorf("debugconsole: clipboard unavailable: %w", err)
	}
	clipboard.Write(clipboard.FmtText, []byte(FormatRegisterDump(cpu, core)))
	return nil
}
