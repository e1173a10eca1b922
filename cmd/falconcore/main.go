// Command falconcore drives a Falcon-class 68k+DSP core against a TOS
// ROM image, with an optional interactive debug console.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hatari-go/falconcore/internal/debugconsole"
	"github.com/hatari-go/falconcore/internal/m68k"
	"github.com/hatari-go/falconcore/internal/machine"
)

func main() {
	romPath := flag.String("rom", "", "path to a TOS ROM image")
	memSize := flag.String("mem", "4M", "RAM size (suffix K/M for kibi/mebibytes)")
	cpuLevel := flag.Int("cpu", 0, "68k family member: 0=68000 1=68010 2=68020 3=68040")
	dsp := flag.Bool("dsp", true, "enable the DSP56001 core")
	gemdosDir := flag.String("gemdos-dir", "", "host directory exposed to guest GEMDOS file calls")
	tosVersion := flag.String("tos-version", "0x0100", "TOS ROM version, e.g. 0x0206")
	tosCountry := flag.Int("tos-country", -1, "TOS country code (-1 = unset)")
	interactive := flag.Bool("debug", false, "attach an interactive raw-terminal debug console")
	maxSteps := flag.Int64("steps", 0, "stop after N instructions (0 = run until halted)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: falconcore [options] -rom tos.img\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *romPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading ROM: %v\n", err)
		os.Exit(1)
	}

	mem, err := parseSize(*memSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: -mem: %v\n", err)
		os.Exit(1)
	}

	version, err := strconv.ParseUint(strings.TrimPrefix(*tosVersion, "0x"), 16, 16)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: -tos-version: %v\n", err)
		os.Exit(1)
	}

	cfg := machine.Config{
		CPULevel:   m68k.Level(*cpuLevel),
		MemorySize: mem,
		DSPEnabled: *dsp,
		ROMPath:    *romPath,
		ROMImage:   rom,
		GemDosDir:  *gemdosDir,
	}

	var console *debugconsole.Console
	if *interactive {
		console = debugconsole.New()
		if err := console.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer console.Stop()
		cfg.Console = console
		cfg.DebugBreak = console.BreakRequested
	}

	m := machine.New(cfg)
	m.Reset(uint16(version), int16(*tosCountry), *gemdosDir != "")

	var n int64
	for !m.DoubleBusError && !m.Break {
		m.Step()
		n++
		if *maxSteps > 0 && n >= *maxSteps {
			break
		}
	}

	if m.DoubleBusError {
		fmt.Fprintf(os.Stderr, "halted on double bus fault after %d instructions\n", n)
		os.Exit(1)
	}
	if m.Break {
		fmt.Fprintln(os.Stderr, "debugger break requested")
	}
}

func parseSize(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	mult := uint64(1)
	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		mult = 1024
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		mult = 1024 * 1024
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return uint32(n * mult), nil
}
