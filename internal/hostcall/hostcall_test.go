package hostcall

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hatari-go/falconcore/internal/bus"
	"github.com/hatari-go/falconcore/internal/m68k"
)

func newCPU() (*m68k.CPU, *bus.Bus) {
	b := bus.New()
	b.InstallRAM(0, 0x10000)
	c := m68k.NewCPU(b, m68k.Level68000)
	b.WriteLong(0, 0x2000)
	b.WriteLong(4, 0x1000)
	c.Reset()
	return c, b
}

func TestTableDispatchesByOperand(t *testing.T) {
	c, _ := newCPU()
	hit := ""
	tbl := &Table{
		GemDos:  func(cpu *m68k.CPU) bool { hit = "gemdos"; return true },
		SysInit: func(cpu *m68k.CPU) bool { hit = "sysinit"; return true },
		VDI:     func(cpu *m68k.CPU) bool { hit = "vdi"; return true },
	}
	if !tbl.Handle(c, OpCodeVDI) || hit != "vdi" {
		t.Fatalf("expected VDI handler to run, got %q", hit)
	}
	if !tbl.Handle(c, OpCodeGemDos) || hit != "gemdos" {
		t.Fatalf("expected GemDos handler to run, got %q", hit)
	}
}

func TestGemDosFopenFreadFclose(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, b := newCPU()
	g := NewGemDos(dir)

	nameAddr := uint32(0x3000)
	for i, ch := range "hello.txt\x00" {
		b.WriteByte(nameAddr+uint32(i), byte(ch))
	}
	c.D[0] = fnFopen
	c.SetA(0, nameAddr)
	c.D[1] = 0
	if !g.Handle(c) {
		t.Fatalf("fopen should be handled")
	}
	handle := int32(c.D[0])
	if handle < 0 {
		t.Fatalf("fopen failed: %d", handle)
	}

	bufAddr := uint32(0x3100)
	c.D[0] = fnFread
	c.D[1] = 2
	c.D[2] = uint32(handle)
	c.SetA(1, bufAddr)
	if !g.Handle(c) {
		t.Fatalf("fread should be handled")
	}
	if int32(c.D[0]) != 2 {
		t.Fatalf("fread count = %d, want 2", int32(c.D[0]))
	}
	b0, _ := b.ReadByte(bufAddr)
	b1, _ := b.ReadByte(bufAddr + 1)
	if b0 != 'h' || b1 != 'i' {
		t.Fatalf("fread contents = %q%q, want hi", b0, b1)
	}

	c.D[0] = fnFclose
	c.D[2] = uint32(handle)
	if !g.Handle(c) || int32(c.D[0]) != 0 {
		t.Fatalf("fclose should succeed")
	}
}

type fakeConsole struct {
	in  []byte
	out []byte
}

func (f *fakeConsole) ReadByte() (byte, bool) {
	if len(f.in) == 0 {
		return 0, false
	}
	b := f.in[0]
	f.in = f.in[1:]
	return b, true
}
func (f *fakeConsole) WriteByte(b byte) { f.out = append(f.out, b) }

func TestGemDosConsoleRedirection(t *testing.T) {
	c, _ := newCPU()
	g := NewGemDos(t.TempDir())
	fc := &fakeConsole{in: []byte("A")}
	g.Console = fc

	c.D[0] = fnCconin
	if !g.Handle(c) {
		t.Fatalf("cconin should be handled")
	}
	if c.D[0] != 'A' {
		t.Fatalf("cconin = %d, want 'A'", c.D[0])
	}

	c.D[0] = fnCconout
	c.D[1] = 'Z'
	if !g.Handle(c) {
		t.Fatalf("cconout should be handled")
	}
	if string(fc.out) != "Z" {
		t.Fatalf("console output = %q, want %q", fc.out, "Z")
	}
}

func TestGemDosConsoleUnhandledWithoutConsole(t *testing.T) {
	c, _ := newCPU()
	g := NewGemDos(t.TempDir())
	c.D[0] = fnCconin
	if g.Handle(c) {
		t.Fatalf("cconin should be unhandled with no Console set")
	}
}

func TestGemDosRejectsPathEscape(t *testing.T) {
	c, b := newCPU()
	g := NewGemDos(t.TempDir())
	nameAddr := uint32(0x3000)
	for i, ch := range "../../etc/passwd\x00" {
		b.WriteByte(nameAddr+uint32(i), byte(ch))
	}
	c.D[0] = fnFopen
	c.SetA(0, nameAddr)
	g.Handle(c)
	if int32(c.D[0]) >= 0 {
		t.Fatalf("path escape should be rejected, got handle %d", int32(c.D[0]))
	}
}

func TestPatchScanAndApply(t *testing.T) {
	b := bus.New()
	// ROM banks drop bus writes, so the expected old bytes go into the image.
	rom := make([]byte, 0x20000)
	copy(rom[0x0D60:], []byte{0x4E, 0x56, 0xFF, 0xF0})
	b.InstallROM(0xFC0000, rom)

	applicable := Scan(b, PatchTable, 0x0100, -1, false)
	if len(applicable) == 0 {
		t.Fatalf("expected at least one applicable patch")
	}
	n := Apply(b, applicable)
	if n != len(applicable) {
		t.Fatalf("applied %d, want %d", n, len(applicable))
	}
	v, _ := b.ReadWord(0xFC0D60)
	if v != 0x4E75 {
		t.Fatalf("patched word = %#x, want 0x4E75 (RTS)", v)
	}
}
