package m68k

func (c *CPU) setFlagsAdd(s, d, r uint32, size uint8) {
	sign := uint32(1) << (size*8 - 1)
	sN, dN, rN := s&sign != 0, d&sign != 0, r&sign != 0
	c.setFlagsNZ(r, size)
	c.CCV = sN == dN && rN != sN
	c.CCC = (sN && dN) || (!rN && (sN || dN))
	c.CCX = c.CCC
}

func (c *CPU) setFlagsSub(s, d, r uint32, size uint8) {
	sign := uint32(1) << (size*8 - 1)
	sN, dN, rN := s&sign != 0, d&sign != 0, r&sign != 0
	c.setFlagsNZ(r, size)
	c.CCV = sN != dN && rN == sN
	c.CCC = (sN && !dN) || (rN && (sN || !dN))
	c.CCX = c.CCC
}

func execAdd(c *CPU, opcode uint16) int {
	reg := int((opcode >> 9) & 7)
	opmode := (opcode >> 6) & 7
	mode, eaReg := (opcode>>3)&7, opcode&7
	toMemory := opmode >= 4
	size := sizeOf(opmode % 4)

	ea := c.resolveEA(mode, eaReg, size)
	eaVal := sizeMask(c.read(ea), size)
	dVal := sizeMask(c.D[reg], size)
	sum := eaVal + dVal
	if toMemory {
		c.write(ea, sum)
		c.setFlagsAdd(eaVal, dVal, sum, size)
	} else {
		c.write(operand{reg: reg, size: size}, sum)
		c.setFlagsAdd(eaVal, dVal, sum, size)
	}
	return 4
}

func execSub(c *CPU, opcode uint16) int {
	reg := int((opcode >> 9) & 7)
	opmode := (opcode >> 6) & 7
	mode, eaReg := (opcode>>3)&7, opcode&7
	toMemory := opmode >= 4
	size := sizeOf(opmode % 4)

	ea := c.resolveEA(mode, eaReg, size)
	eaVal := sizeMask(c.read(ea), size)
	dVal := sizeMask(c.D[reg], size)
	if toMemory {
		diff := eaVal - dVal
		c.write(ea, diff)
		c.setFlagsSub(dVal, eaVal, diff, size)
	} else {
		diff := dVal - eaVal
		c.write(operand{reg: reg, size: size}, diff)
		c.setFlagsSub(eaVal, dVal, diff, size)
	}
	return 4
}

func execCmp(c *CPU, opcode uint16) int {
	reg := int((opcode >> 9) & 7)
	opmode := (opcode >> 6) & 7
	mode, eaReg := (opcode>>3)&7, opcode&7
	size := sizeOf(opmode % 4)

	ea := c.resolveEA(mode, eaReg, size)
	eaVal := sizeMask(c.read(ea), size)
	dVal := sizeMask(c.D[reg], size)
	diff := dVal - eaVal
	c.setFlagsSub(eaVal, dVal, diff, size)
	return 4
}

func execAnd(c *CPU, opcode uint16) int { return bitwiseRegEA(c, opcode, func(a, b uint32) uint32 { return a & b }) }
func execOr(c *CPU, opcode uint16) int  { return bitwiseRegEA(c, opcode, func(a, b uint32) uint32 { return a | b }) }
func execEor(c *CPU, opcode uint16) int { return bitwiseRegEA(c, opcode, func(a, b uint32) uint32 { return a ^ b }) }

func bitwiseRegEA(c *CPU, opcode uint16, f func(a, b uint32) uint32) int {
	reg := int((opcode >> 9) & 7)
	opmode := (opcode >> 6) & 7
	mode, eaReg := (opcode>>3)&7, opcode&7
	toMemory := opmode >= 4
	size := sizeOf(opmode % 4)

	ea := c.resolveEA(mode, eaReg, size)
	eaVal := sizeMask(c.read(ea), size)
	dVal := sizeMask(c.D[reg], size)
	result := f(eaVal, dVal)
	if toMemory {
		c.write(ea, result)
	} else {
		c.write(operand{reg: reg, size: size}, result)
	}
	c.setFlagsNZ(result, size)
	c.CCV, c.CCC = false, false
	return 4
}

func execNot(c *CPU, opcode uint16) int {
	size := sizeOf((opcode >> 6) & 3)
	mode, reg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, reg, size)
	v := ^sizeMask(c.read(op), size)
	c.write(op, v)
	c.setFlagsNZ(v, size)
	c.CCV, c.CCC = false, false
	return 4
}

func execNeg(c *CPU, opcode uint16) int {
	size := sizeOf((opcode >> 6) & 3)
	mode, reg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, reg, size)
	v := sizeMask(c.read(op), size)
	result := sizeMask(0-v, size)
	c.write(op, result)
	c.setFlagsSub(v, 0, result, size)
	return 4
}

func execAddSubQ(c *CPU, opcode uint16) int {
	data := uint32((opcode >> 9) & 7)
	if data == 0 {
		data = 8
	}
	isSub := opcode&0x0100 != 0
	size := sizeOf((opcode >> 6) & 3)
	mode, reg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, reg, size)
	v := sizeMask(c.read(op), size)
	var result uint32
	if isSub {
		result = sizeMask(v-data, size)
		if mode != modeAddrReg {
			c.setFlagsSub(data, v, result, size)
		}
	} else {
		result = sizeMask(v+data, size)
		if mode != modeAddrReg {
			c.setFlagsAdd(data, v, result, size)
		}
	}
	c.write(op, result)
	return 4
}

func execMulu(c *CPU, opcode uint16) int {
	reg := int((opcode >> 9) & 7)
	mode, eaReg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, eaReg, 2)
	src := uint32(uint16(c.read(op)))
	dst := uint32(uint16(c.D[reg]))
	result := src * dst
	c.D[reg] = result
	c.setFlagsNZ(result, 4)
	c.CCV, c.CCC = false, false
	return 70
}

func execMuls(c *CPU, opcode uint16) int {
	reg := int((opcode >> 9) & 7)
	mode, eaReg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, eaReg, 2)
	src := int32(int16(uint16(c.read(op))))
	dst := int32(int16(uint16(c.D[reg])))
	result := src * dst
	c.D[reg] = uint32(result)
	c.setFlagsNZ(uint32(result), 4)
	c.CCV, c.CCC = false, false
	return 70
}

func execDivu(c *CPU, opcode uint16) int {
	reg := int((opcode >> 9) & 7)
	mode, eaReg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, eaReg, 2)
	divisor := uint32(uint16(c.read(op)))
	if divisor == 0 {
		c.raiseVector(vecDivideByZero)
		return cycleException
	}
	dividend := c.D[reg]
	quotient := dividend / divisor
	cost := divUCycles(dividend, uint16(divisor))
	if quotient > 0xFFFF {
		c.CCV = true
		return cost
	}
	remainder := dividend % divisor
	c.D[reg] = (remainder << 16) | (quotient & 0xFFFF)
	c.setFlagsNZ(quotient, 2)
	c.CCV, c.CCC = false, false
	return cost
}

func execDivs(c *CPU, opcode uint16) int {
	reg := int((opcode >> 9) & 7)
	mode, eaReg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, eaReg, 2)
	divisor := int32(int16(uint16(c.read(op))))
	if divisor == 0 {
		c.raiseVector(vecDivideByZero)
		return cycleException
	}
	dividend := int32(c.D[reg])
	quotient := dividend / divisor
	cost := divSCycles(dividend, int16(divisor))
	if quotient > 32767 || quotient < -32768 {
		c.CCV = true
		return cost
	}
	remainder := dividend % divisor
	c.D[reg] = (uint32(uint16(remainder)) << 16) | uint32(uint16(quotient))
	c.setFlagsNZ(uint32(quotient), 2)
	c.CCV, c.CCC = false, false
	return cost
}

func execChk(c *CPU, opcode uint16) int {
	reg := int((opcode >> 9) & 7)
	mode, eaReg := (opcode>>3)&7, opcode&7
	op := c.resolveEA(mode, eaReg, 2)
	bound := int16(uint16(c.read(op)))
	val := int16(uint16(c.D[reg]))
	if val < 0 {
		c.CCN = true
		c.raiseVector(vecChk)
		return cycleException
	}
	if val > bound {
		c.CCN = false
		c.raiseVector(vecChk)
		return cycleException
	}
	return 10
}
