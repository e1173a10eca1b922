package m68k

// family names the instruction family an opcode belongs to, used for
// cycle-pairing lookups (§4.D) and nothing else semantically.
type family uint8

const (
	famNone family = iota
	famMove
	famMoveA
	famMoveQ
	famLea
	famClr
	famTst
	famAdd
	famAddQ
	famSub
	famSubQ
	famCmp
	famAnd
	famOr
	famEor
	famNot
	famNeg
	famBcc
	famDbcc
	famScc
	famJmp
	famJsr
	famRts
	famRte
	famRtr
	famSwap
	famExt
	famShift
	famMulu
	famMuls
	famDivu
	famDivs
	famChk
	famTrap
	famTrapv
	famStop
	famReset
	famNop
	famMoveSR
	famMoveCCR
	famMovec
	famLink
	famUnlk
	famBtst
	famBset
	famBclr
	famBchg
	famIntercept
)

// opcodeEntry is the pre-decoded, table-resident description of one
// opcode word. Deliberately not using the source's op_illg-as-sentinel
// trick: a nil *opcodeEntry means "not assigned", handled explicitly in
// CPU.Step rather than by calling through a dummy handler (Design Notes).
type opcodeEntry struct {
	fam     family
	handler func(c *CPU, opcode uint16) int
}

// familyDescriptor is one row of the compact table68k-style description
// the real dispatch table is built from: a (mask,match) pattern over the
// 16-bit opcode word, a minimum CPU level, and the handler to install
// for every opcode word the pattern matches.
type familyDescriptor struct {
	mask, match uint16
	minLevel    Level
	fam         family
	handler     func(c *CPU, opcode uint16) int
}

func buildTable(level Level) [65536]*opcodeEntry {
	var table [65536]*opcodeEntry
	descs := familyDescriptors()
	for opcode := 0; opcode < 65536; opcode++ {
		op := uint16(opcode)
		for _, d := range descs {
			if d.minLevel > level {
				continue
			}
			if op&d.mask == d.match {
				table[opcode] = &opcodeEntry{fam: d.fam, handler: d.handler}
				break
			}
		}
	}
	return table
}

// familyDescriptors is the compact instruction-family description the
// spec calls `table68k`: each entry's (mask,match) pair identifies a
// whole instruction family, narrowest-pattern-first so that e.g. MOVEQ
// (mask 0xF100) is tried before the general data-movement family it
// would otherwise be swallowed by.
func familyDescriptors() []familyDescriptor {
	return []familyDescriptor{
		{0xFFFF, 0x4E71, Level68000, famNop, execNop},
		{0xFFFF, 0x4E70, Level68000, famReset, execReset},
		{0xFFFF, 0x4E72, Level68000, famStop, execStop},
		{0xFFFF, 0x4E73, Level68000, famRte, execRte},
		{0xFFFF, 0x4E77, Level68000, famRtr, execRtr},
		{0xFFFF, 0x4E75, Level68000, famRts, execRts},
		{0xFFFF, 0x4E76, Level68000, famTrapv, execTrapv},

		{0xFFF8, 0x4E50, Level68000, famLink, execLink},
		{0xFFF8, 0x4E58, Level68000, famUnlk, execUnlk},

		{0xFFF0, 0x4E40, Level68000, famTrap, execTrap},

		{0xFFC0, 0x4E80, Level68000, famJsr, execJsr},
		{0xFFC0, 0x4EC0, Level68000, famJmp, execJmp},

		{0xF1C0, 0x41C0, Level68000, famLea, execLea},

		{0xFF00, 0xF000, Level68000, famIntercept, execIntercept},

		{0xFFC0, 0x46C0, Level68000, famMoveSR, execMoveToSR},
		{0xFFC0, 0x40C0, Level68000, famMoveSR, execMoveFromSR},
		{0xFFC0, 0x44C0, Level68000, famMoveCCR, execMoveToCCR},

		{0xFFFE, 0x4E7A, Level68010, famMovec, execMovec},

		{0xFF00, 0x4200, Level68000, famClr, execClr},
		{0xFFC0, 0x4A00, Level68000, famTst, execTst},
		{0xFFC0, 0x4A40, Level68000, famTst, execTst},
		{0xFFC0, 0x4A80, Level68000, famTst, execTst},
		{0xFF00, 0x4400, Level68000, famNeg, execNeg},
		{0xFF00, 0x4600, Level68000, famNot, execNot},

		{0xF0C0, 0x50C0, Level68000, famScc, execScc},
		{0xF0F8, 0x50C8, Level68000, famDbcc, execDbcc},

		{0xF000, 0x6000, Level68000, famBcc, execBcc},

		{0xF1C0, 0x0100, Level68000, famBtst, execBtst},
		{0xF1C0, 0x01C0, Level68000, famBset, execBset},
		{0xF1C0, 0x0180, Level68000, famBclr, execBclr},
		{0xF1C0, 0x0140, Level68000, famBchg, execBchg},

		{0xC1C0, 0x0040, Level68000, famMoveA, execMoveA},

		{0xF100, 0x7000, Level68000, famMoveQ, execMoveQ},

		{0xC000, 0x0000, Level68000, famMove, execMove},

		{0xF1C0, 0xC0C0, Level68000, famMulu, execMulu},
		{0xF1C0, 0xC1C0, Level68000, famMuls, execMuls},
		{0xF1C0, 0x80C0, Level68000, famDivu, execDivu},
		{0xF1C0, 0x81C0, Level68000, famDivs, execDivs},

		{0xF1C0, 0x4180, Level68000, famChk, execChk},

		{0xF000, 0x5000, Level68000, famAddQ, execAddSubQ},

		{0xF000, 0xD000, Level68000, famAdd, execAdd},
		{0xF000, 0x9000, Level68000, famSub, execSub},
		{0xF1C0, 0xB100, Level68000, famEor, execEor},
		{0xF1C0, 0xB140, Level68000, famEor, execEor},
		{0xF1C0, 0xB180, Level68000, famEor, execEor},
		{0xF000, 0xB000, Level68000, famCmp, execCmp},
		{0xF000, 0xC000, Level68000, famAnd, execAnd},
		{0xF000, 0x8000, Level68000, famOr, execOr},

		{0xF0C0, 0xE000, Level68000, famShift, execShift},
		{0xF0C0, 0xE040, Level68000, famShift, execShift},
		{0xF0C0, 0xE080, Level68000, famShift, execShift},

		{0xFFF8, 0x4840, Level68000, famSwap, execSwap},
		{0xFE38, 0x4880, Level68000, famExt, execExt},
	}
}
