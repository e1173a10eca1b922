package m68k

// Addressing modes, as encoded in a 6-bit (mode,reg) field.
const (
	modeDataReg = iota
	modeAddrReg
	modeIndirect
	modeIndirectPostInc
	modeIndirectPreDec
	modeIndirectDisp
	modeIndirectIndex
	modeOther // reg selects: 0 abs.w, 1 abs.l, 2 PC disp, 3 PC index, 4 immediate
)

// operand is a resolved effective address: either a register slot or a
// memory address, sized for the access that created it.
type operand struct {
	reg    int
	isAddr bool
	inMem  bool
	addr   uint32
	size   uint8

	// Set instead of addr when mode is immediate (addr == immHolder).
	immByte uint8
	immWord uint16
	immLong uint32
}

// resolveEA decodes a (mode,reg) pair, consuming any extension words
// from the prefetch stream and applying pre-decrement/post-increment
// side effects. size is 1, 2 or 4.
func (c *CPU) resolveEA(mode, reg uint16, size uint8) operand {
	switch mode {
	case modeDataReg:
		return operand{reg: int(reg), size: size}
	case modeAddrReg:
		return operand{reg: int(reg), isAddr: true, size: size}
	case modeIndirect:
		return operand{inMem: true, addr: c.GetA(int(reg)), size: size}
	case modeIndirectPostInc:
		addr := c.GetA(int(reg))
		step := uint32(size)
		if size == 1 && reg == 7 {
			step = 2 // A7 stays word-aligned
		}
		c.SetA(int(reg), addr+step)
		return operand{inMem: true, addr: addr, size: size}
	case modeIndirectPreDec:
		step := uint32(size)
		if size == 1 && reg == 7 {
			step = 2
		}
		addr := c.GetA(int(reg)) - step
		c.SetA(int(reg), addr)
		return operand{inMem: true, addr: addr, size: size}
	case modeIndirectDisp:
		disp := int16(c.fetch16())
		addr := uint32(int64(c.GetA(int(reg))) + int64(disp))
		return operand{inMem: true, addr: addr, size: size}
	case modeIndirectIndex:
		ext := c.fetch16()
		addr := c.indexedAddress(c.GetA(int(reg)), ext)
		return operand{inMem: true, addr: addr, size: size}
	case modeOther:
		switch reg {
		case 0:
			addr := uint32(int32(int16(c.fetch16())))
			return operand{inMem: true, addr: addr, size: size}
		case 1:
			return operand{inMem: true, addr: c.fetch32(), size: size}
		case 2:
			base := c.PC
			disp := int16(c.fetch16())
			return operand{inMem: true, addr: uint32(int64(base) + int64(disp)), size: size}
		case 3:
			base := c.PC
			ext := c.fetch16()
			return operand{inMem: true, addr: c.indexedAddress(base, ext), size: size}
		case 4:
			switch size {
			case 1:
				return operand{inMem: true, addr: immHolder, size: size, immByte: uint8(c.fetch16())}
			case 2:
				return operand{inMem: true, addr: immHolder, size: size, immWord: c.fetch16()}
			default:
				return operand{inMem: true, addr: immHolder, size: size, immLong: c.fetch32()}
			}
		}
	}
	return operand{}
}

// immHolder is a sentinel address meaning "the immediate value carried
// alongside this operand", never dereferenced against the bus.
const immHolder = 0xFFFFFFFF

// indexedAddress implements the brief-extension-word indexed mode: base
// + index-register(.w or .l, optionally scaled on 68020+) + 8-bit
// displacement. Full-extension-word (68020+) addressing modes are not
// modeled; the brief form covers every title this core targets.
func (c *CPU) indexedAddress(base uint32, ext uint16) uint32 {
	disp := int8(ext & 0xFF)
	xreg := int((ext >> 12) & 7)
	var xval uint32
	if ext&0x8000 != 0 {
		xval = c.GetA(xreg)
	} else {
		xval = c.D[xreg]
	}
	if ext&0x0800 == 0 {
		xval = uint32(int32(int16(xval)))
	}
	if c.Level >= Level68020 {
		scale := (ext >> 9) & 3
		xval <<= scale
	}
	return uint32(int64(base) + int64(int32(xval)) + int64(disp))
}
