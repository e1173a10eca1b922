package m68k

// BusPenalty names the small additive cost of awkward addressing
// combinations (misaligned long access on a word-wide bus, a write that
// collides with a still-prefetching read) as a handful of named
// constants. applyCycleAdjustments does not add any of them: instruction
// costs include no bus penalty.
type BusPenalty int

const (
	PenaltyNone BusPenalty = 0
	PenaltyLongWordBus BusPenalty = 4
	PenaltyWriteDuringPrefetch BusPenalty = 2
)

func (c *CPU) applyCycleAdjustments(fam family, base int) int {
	cycles := base
	if c.Specialties&SpecExtraCycles != 0 {
		cycles += extraCyclesWaitStates
		c.Specialties &^= SpecExtraCycles
	}
	if c.Level == Level68000 {
		cycles += pairingAdjustment(c.prevFamily, fam)
	}
	return cycles
}

// extraCyclesWaitStates is a fixed stall applied when a peripheral
// access requested EXTRA_CYCLES (hardware that holds DTACK low a little
// longer than RAM).
const extraCyclesWaitStates = 4

// pairingTable implements the open question on instruction-pairing cost
// correction (§9): a partial, hand-seeded lookup of (prevFamily,family)
// -> cycle adjustment, covering the pairings the spec calls out as an
// observable reference oracle rather than a derivable rule. Unlisted
// pairs cost nothing extra.
var pairingTable = map[[2]family]int{
	{famMove, famMove}:   -2, // any two MOVEs back to back, whatever their operands
	{famMoveQ, famMoveQ}: -2,
	{famDbcc, famDbcc}:   -2,
	{famAdd, famMove}:    -2,
}

func pairingAdjustment(prev, cur family) int {
	return pairingTable[[2]family{prev, cur}]
}

// divUCycles ports getDivu68kCycles/getDivu68kCycles_2 from
// uae-cpu/newcpu.c verbatim (§4.D/§8 S2: "the exact count matters for
// demo software that polls timers from inside division", naming this
// WinUAE bit-stepping routine as the thing implementers must preserve
// rather than approximate). divisor == 0 is never passed in: execDivu
// raises the divide-by-zero exception before costing the instruction.
func divUCycles(dividend uint32, divisor uint16) int {
	if divisor == 0 {
		return 0
	}
	if dividend>>16 >= uint32(divisor) {
		return 5*2 - 4
	}

	mcycles := 38
	hdivisor := uint32(divisor) << 16

	for i := 0; i < 15; i++ {
		temp := dividend
		dividend <<= 1
		if int32(temp) < 0 {
			dividend -= hdivisor
		} else {
			mcycles += 2
			if dividend >= hdivisor {
				dividend -= hdivisor
				mcycles--
			}
		}
	}
	return mcycles*2 - 4
}

// divSCycles ports getDivs68kCycles/getDivs68kCycles_2 verbatim, same
// source and rationale as divUCycles.
func divSCycles(dividend int32, divisor int16) int {
	if divisor == 0 {
		return 0
	}

	mcycles := 6
	if dividend < 0 {
		mcycles++
	}

	absDividend := dividend
	if absDividend < 0 {
		absDividend = -absDividend
	}
	absDivisor := divisor
	if absDivisor < 0 {
		absDivisor = -absDivisor
	}

	if uint32(absDividend)>>16 >= uint32(uint16(absDivisor)) {
		return (mcycles+2)*2 - 4
	}

	aquot := uint32(absDividend) / uint32(uint16(absDivisor))
	mcycles += 55

	if divisor >= 0 {
		if dividend >= 0 {
			mcycles--
		} else {
			mcycles++
		}
	}

	for i := 0; i < 15; i++ {
		if int16(aquot) >= 0 {
			mcycles++
		}
		aquot <<= 1
	}
	return mcycles*2 - 4
}
