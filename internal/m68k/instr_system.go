package m68k

func execNop(c *CPU, _ uint16) int { return 4 }

func execReset(c *CPU, _ uint16) int {
	if !c.Supervisor() {
		c.raiseVector(vecPrivilegeViolation)
		return cycleException
	}
	return 132
}

func execStop(c *CPU, _ uint16) int {
	if !c.Supervisor() {
		c.raiseVector(vecPrivilegeViolation)
		return cycleException
	}
	newSR := c.fetch16()
	c.SplitSR(newSR)
	c.Stopped = true
	c.Specialties |= SpecStop
	return 4
}

func execRte(c *CPU, _ uint16) int {
	if !c.Supervisor() {
		c.raiseVector(vecPrivilegeViolation)
		return cycleException
	}
	sr := c.pop16()
	pc := c.pop32()
	c.pop16() // discard format/vector word
	c.SplitSR(sr)
	c.PC = pc
	return 20
}

func execRtr(c *CPU, _ uint16) int {
	ccr := c.pop16()
	pc := c.pop32()
	sr := c.MakeSR()
	c.SplitSR((sr &^ 0x1F) | (ccr & 0x1F))
	c.PC = pc
	return 20
}

func execRts(c *CPU, _ uint16) int {
	c.PC = c.pop32()
	return 16
}

func execTrapv(c *CPU, _ uint16) int {
	if c.CCV {
		c.raiseVector(vecTrapv)
		return cycleException
	}
	return 4
}

func execTrap(c *CPU, opcode uint16) int {
	c.raiseVector(vecTrap0 + uint8(opcode&0xF))
	return cycleException
}

func execLink(c *CPU, opcode uint16) int {
	reg := int(opcode & 7)
	disp := int16(c.fetch16())
	c.push32(c.GetA(reg))
	c.SetA(reg, c.A7())
	c.SetA7(uint32(int64(c.A7()) + int64(disp)))
	return 16
}

func execUnlk(c *CPU, opcode uint16) int {
	reg := int(opcode & 7)
	c.SetA7(c.GetA(reg))
	c.SetA(reg, c.pop32())
	return 12
}

func execMoveToSR(c *CPU, opcode uint16) int {
	if !c.Supervisor() {
		c.raiseVector(vecPrivilegeViolation)
		return cycleException
	}
	mode, reg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, reg, 2)
	c.SplitSR(uint16(c.read(op)))
	return 12
}

func execMoveFromSR(c *CPU, opcode uint16) int {
	mode, reg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, reg, 2)
	c.write(op, uint32(c.MakeSR()))
	return 8
}

func execMoveToCCR(c *CPU, opcode uint16) int {
	mode, reg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, reg, 2)
	sr := c.MakeSR()
	c.SplitSR((sr &^ 0x1F) | (uint16(c.read(op)) & 0x1F))
	return 12
}

// movecRegisters maps the 12-bit MOVEC control-register selector to the
// minimum CPU Level it's visible at (§4.D "MOVEC register visibility").
var movecRegisters = map[uint16]Level{
	0x000: Level68010, // SFC
	0x001: Level68010, // DFC
	0x800: Level68010, // USP
	0x801: Level68010, // VBR
	0x002: Level68020, // CACR
	0x803: Level68020, // MSP
	0x804: Level68020, // ISP
	0x802: Level68020, // CAAR
}

func execMovec(c *CPU, opcode uint16) int {
	if !c.Supervisor() {
		c.raiseVector(vecPrivilegeViolation)
		return cycleException
	}
	ext := c.fetch16()
	ctrl := ext & 0xFFF
	minLevel, known := movecRegisters[ctrl]
	if !known || c.Level < minLevel {
		c.raiseVector(vecIllegalInstruction)
		return cycleException
	}
	dataIsAddr := ext&0x8000 != 0
	regIdx := int((ext >> 12) & 7)
	toControl := opcode&1 != 0

	getGP := func() uint32 {
		if dataIsAddr {
			return c.GetA(regIdx)
		}
		return c.D[regIdx]
	}
	setGP := func(v uint32) {
		if dataIsAddr {
			c.SetA(regIdx, v)
		} else {
			c.D[regIdx] = v
		}
	}

	getCtrl := func() uint32 {
		switch ctrl {
		case 0x000:
			return c.SFC
		case 0x001:
			return c.DFC
		case 0x800:
			return c.USP
		case 0x801:
			return c.VBR
		case 0x803:
			return c.MSP
		case 0x804:
			return c.ISP
		default:
			return 0
		}
	}
	setCtrl := func(v uint32) {
		switch ctrl {
		case 0x000:
			c.SFC = v & 7
		case 0x001:
			c.DFC = v & 7
		case 0x800:
			c.USP = v
		case 0x801:
			c.VBR = v
		case 0x803:
			c.MSP = v
		case 0x804:
			c.ISP = v
		}
	}

	if toControl {
		setCtrl(getGP())
	} else {
		setGP(getCtrl())
	}
	return 12
}

func execIntercept(c *CPU, opcode uint16) int {
	operand := opcode & 0xFF
	if c.Intercept != nil && c.Intercept(c, operand) {
		return 4
	}
	c.raiseVector(vecIllegalInstruction)
	return cycleException
}
