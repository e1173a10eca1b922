package hostcall

import "github.com/hatari-go/falconcore/internal/bus"

// PatchFlag gates a Patch to only apply in the matching hard-disk
// emulation configuration.
type PatchFlag int

const (
	PatchAlways PatchFlag = iota
	PatchHDOn
	PatchHDOff
)

// Patch is one entry of the literal TOS patch table (§4.F/§6): a small
// verified byte replacement applied at a known ROM offset, carried
// verbatim from the source's TOS_PATCH records.
type Patch struct {
	Version uint16
	Country int16 // -1 matches any country
	Name    string
	Flags   PatchFlag
	Address uint32
	OldData uint32 // expected first 4 bytes, as a sanity check before patching
	NewData []byte
}

// PatchTable is a representative subset of the original TOS_PATCH array
// (§I): the hdv_init/hdv_boot RTS and NOP-out patches that let a stock
// TOS image skip hardware it doesn't need to probe under emulation.
var PatchTable = []Patch{
	{
		Version: 0x0100, Country: -1, Name: "hdv_init - initialize drives",
		Flags: PatchAlways, Address: 0xFC0D60, OldData: 0x4E56FFF0,
		NewData: []byte{0x4E, 0x75}, // RTS
	},
	{
		Version: 0x0100, Country: -1, Name: "hdv_boot - load boot sector",
		Flags: PatchAlways, Address: 0xFC1384, OldData: 0x4EB900FC,
		NewData: []byte{0x4E, 0x71, 0x4E, 0x71, 0x4E, 0x71}, // NOP x3
	},
	{
		Version: 0x0102, Country: -1, Name: "hdv_init - initialize drives",
		Flags: PatchAlways, Address: 0xFC0F44, OldData: 0x4E56FFF0,
		NewData: []byte{0x4E, 0x75},
	},
}

// Scan reports which patches in table match the TOS image currently
// mapped at b (i.e. their OldData sanity check passes) for the given
// version/country/hdEnabled configuration.
func Scan(b *bus.Bus, table []Patch, version uint16, country int16, hdEnabled bool) []Patch {
	var applicable []Patch
	for _, p := range table {
		if p.Version != version {
			continue
		}
		if p.Country != -1 && p.Country != country {
			continue
		}
		switch p.Flags {
		case PatchHDOn:
			if !hdEnabled {
				continue
			}
		case PatchHDOff:
			if hdEnabled {
				continue
			}
		}
		old, err := b.ReadLong(p.Address)
		if err != nil || old != p.OldData {
			continue
		}
		applicable = append(applicable, p)
	}
	return applicable
}

// Apply writes each patch's replacement bytes over b. Callers should
// pass the result of Scan so only verified patches are ever written.
func Apply(b *bus.Bus, patches []Patch) int {
	applied := 0
	for _, p := range patches {
		ok := true
		for i, by := range p.NewData {
			if !b.PatchByte(p.Address+uint32(i), by) {
				ok = false
				break
			}
		}
		if ok {
			applied++
		}
	}
	return applied
}
