package hostcall

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hatari-go/falconcore/internal/m68k"
)

// GEMDOS function numbers this bridge understands (§6, scenario S5).
const (
	fnCconin  = 0x01
	fnCconout = 0x02
	fnFopen   = 0x3D
	fnFclose  = 0x3E
	fnFread   = 0x3F
	fnFwrite  = 0x40
)

const (
	errFileNotFound = -33
	errAccessDenied = -36
	errInvalidHandle = -37
)

// GemDos bridges a restricted subset of GEMDOS file calls to the host
// filesystem, rooted under BaseDir (adapted from the teacher's
// FileIODevice.sanitizePath restriction to a single base directory).
//
// Calling convention: D0 carries the function number, A0 a pointer to a
// NUL-terminated guest path (Fopen), D1 the open mode (Fopen) or byte
// count (Fread/Fwrite), D2 the file handle (Fclose/Fread/Fwrite), A1 the
// guest buffer address (Fread/Fwrite). The result replaces D0: a
// non-negative handle/count on success, a negative GEMDOS error code on
// failure.
// Console redirects GEMDOS Cconin/Cconout to an interactive host
// terminal (internal/debugconsole implements this). Nil leaves both
// calls unhandled, falling through to whatever Non-goal stub the guest
// ROM uses instead.
type Console interface {
	ReadByte() (byte, bool)
	WriteByte(byte)
}

type GemDos struct {
	BaseDir string
	Console Console

	handles map[int32]*os.File
	nextID  int32
}

// NewGemDos constructs a bridge rooted at baseDir.
func NewGemDos(baseDir string) *GemDos {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		abs = baseDir
	}
	return &GemDos{BaseDir: abs, handles: make(map[int32]*os.File), nextID: 6}
}

// Handle implements GemDosFunc.
func (g *GemDos) Handle(cpu *m68k.CPU) bool {
	switch cpu.D[0] {
	case fnCconin:
		if g.Console == nil {
			return false
		}
		b, ok := g.Console.ReadByte()
		if !ok {
			cpu.D[0] = 0
			break
		}
		cpu.D[0] = uint32(b)
	case fnCconout:
		if g.Console == nil {
			return false
		}
		g.Console.WriteByte(byte(cpu.D[1]))
		cpu.D[0] = 0
	case fnFopen:
		cpu.D[0] = uint32(int32(g.fopen(cpu)))
	case fnFclose:
		cpu.D[0] = uint32(int32(g.fclose(cpu)))
	case fnFread:
		cpu.D[0] = uint32(int32(g.fread(cpu)))
	case fnFwrite:
		cpu.D[0] = uint32(int32(g.fwrite(cpu)))
	default:
		return false
	}
	return true
}

func (g *GemDos) sanitize(path string) (string, bool) {
	if filepath.IsAbs(path) || strings.Contains(path, "..") {
		return "", false
	}
	return filepath.Join(g.BaseDir, path), true
}

func readCString(cpu *m68k.CPU, addr uint32) string {
	var sb strings.Builder
	for i := uint32(0); i < 256; i++ {
		v, err := cpu.Bus.ReadByte(addr + i)
		if err != nil || v == 0 {
			break
		}
		sb.WriteByte(v)
	}
	return sb.String()
}

func (g *GemDos) fopen(cpu *m68k.CPU) int32 {
	name := readCString(cpu, cpu.GetA(0))
	path, ok := g.sanitize(name)
	if !ok {
		return errAccessDenied
	}
	mode := cpu.D[1]
	flags := os.O_RDONLY
	switch mode {
	case 1:
		flags = os.O_WRONLY
	case 2:
		flags = os.O_RDWR
	}
	f, err := os.OpenFile(path, flags, 0)
	if err != nil {
		return errFileNotFound
	}
	id := g.nextID
	g.nextID++
	g.handles[id] = f
	return id
}

func (g *GemDos) fclose(cpu *m68k.CPU) int32 {
	h := int32(cpu.D[2])
	f, ok := g.handles[h]
	if !ok {
		return errInvalidHandle
	}
	delete(g.handles, h)
	f.Close()
	return 0
}

func (g *GemDos) fread(cpu *m68k.CPU) int32 {
	h := int32(cpu.D[2])
	f, ok := g.handles[h]
	if !ok {
		return errInvalidHandle
	}
	count := cpu.D[1]
	buf := make([]byte, count)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return 0
	}
	base := cpu.GetA(1)
	for i := 0; i < n; i++ {
		cpu.Bus.WriteByte(base+uint32(i), buf[i])
	}
	return int32(n)
}

func (g *GemDos) fwrite(cpu *m68k.CPU) int32 {
	h := int32(cpu.D[2])
	f, ok := g.handles[h]
	if !ok {
		return errInvalidHandle
	}
	count := cpu.D[1]
	buf := make([]byte, count)
	base := cpu.GetA(1)
	for i := uint32(0); i < count; i++ {
		v, err := cpu.Bus.ReadByte(base + i)
		if err != nil {
			break
		}
		buf[i] = v
	}
	n, err := f.Write(buf)
	if err != nil && n == 0 {
		return errAccessDenied
	}
	return int32(n)
}
