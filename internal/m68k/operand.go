package m68k

// read returns op's value as 32 bits: memory, immediate and data-register
// values are zero-extended, address-register values sign-extended from size.
func (c *CPU) read(op operand) uint32 {
	if op.inMem {
		if op.addr == immHolder {
			switch op.size {
			case 1:
				return uint32(op.immByte)
			case 2:
				return uint32(op.immWord)
			default:
				return op.immLong
			}
		}
		switch op.size {
		case 1:
			v, _ := c.readByte(op.addr, false)
			return uint32(v)
		case 2:
			v, _ := c.readWord(op.addr, false)
			return uint32(v)
		default:
			v, _ := c.readLong(op.addr, false)
			return v
		}
	}
	if op.isAddr {
		v := c.GetA(op.reg)
		return sizeExtend(v, op.size)
	}
	return sizeMask(c.D[op.reg], op.size)
}

// write stores v (already masked to the right width by the caller's
// intent) into op, preserving the untouched high bits of a data
// register for byte/word writes.
func (c *CPU) write(op operand, v uint32) {
	if op.inMem {
		switch op.size {
		case 1:
			c.writeByte(op.addr, uint8(v))
		case 2:
			c.writeWord(op.addr, uint16(v))
		default:
			c.writeLong(op.addr, v)
		}
		return
	}
	if op.isAddr {
		c.SetA(op.reg, sizeExtend(v, op.size))
		return
	}
	switch op.size {
	case 1:
		c.D[op.reg] = (c.D[op.reg] &^ 0xFF) | (v & 0xFF)
	case 2:
		c.D[op.reg] = (c.D[op.reg] &^ 0xFFFF) | (v & 0xFFFF)
	default:
		c.D[op.reg] = v
	}
}

func sizeMask(v uint32, size uint8) uint32 {
	switch size {
	case 1:
		return v & 0xFF
	case 2:
		return v & 0xFFFF
	default:
		return v
	}
}

func sizeExtend(v uint32, size uint8) uint32 {
	switch size {
	case 1:
		return uint32(int32(int8(v)))
	case 2:
		return uint32(int32(int16(v)))
	default:
		return v
	}
}
