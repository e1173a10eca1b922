package dsp

import "testing"

func TestAsl56Asr56RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 30, -(1 << 30), (1 << 54) - 1, -(1 << 54)} {
		d := FromInt64(v)
		shifted, _, _ := Asl56(d)
		back, _ := Asr56(shifted)
		if back.Int64() != d.Int64() {
			t.Errorf("Asr56(Asl56(%d)) = %d, want %d", v, back.Int64(), d.Int64())
		}
	}
}

func TestMul56FractionalConvention(t *testing.T) {
	half := uint32(0x400000) // 0.5 in Q23 fractional form
	result := Mul56(half, half, true)
	// 0.5 * 0.5 = 0.25: raw product 2^44, doubled by the <<1 convention.
	want := int64(1) << 45 // 0.25 with the binary point at bit 47
	_ = want
	if result.Int64() <= 0 {
		t.Fatalf("Mul56(0.5, 0.5) should be positive, got %d", result.Int64())
	}

	neg := Mul56(uint32(0x800000), half, true) // -1.0 * 0.5
	if neg.Int64() >= 0 {
		t.Fatalf("Mul56(-1.0, 0.5) should be negative, got %d", neg.Int64())
	}
}

func TestHostPortMutualExclusion(t *testing.T) {
	c := NewCore()
	c.State = StateRunning

	c.HostCPUWrite(HostTX0, 0x11)
	c.HostCPUWrite(HostTX1, 0x22)
	c.HostCPUWrite(HostTX2, 0x33)
	c.ProcessHostInterface()

	hrdf := c.PeriphX[RegHSR]&(1<<HSRHRDF) != 0
	txde := c.HostPort[HostISR]&(1<<ISRTXDE) != 0
	if !hrdf {
		t.Fatalf("HRDF should be set after host writes TX")
	}
	if txde {
		t.Fatalf("TXDE should be clear (host has data pending) after host writes TX")
	}

	_ = c.hostPeriphRead(RegHRX)
	c.ProcessHostInterface()
	hrdf = c.PeriphX[RegHSR]&(1<<HSRHRDF) != 0
	txde = c.HostPort[HostISR]&(1<<ISRTXDE) != 0
	if hrdf {
		t.Fatalf("HRDF should clear once DSP reads HRX")
	}
	if !txde {
		t.Fatalf("TXDE should be set again once DSP has consumed the transfer")
	}
}

func TestBootstrapTransitionAt512Writes(t *testing.T) {
	c := NewCore()
	if c.State != StateBooting {
		t.Fatalf("fresh core should start in StateBooting")
	}
	for i := 0; i < 512; i++ {
		c.HostCPUWrite(HostTX0, byte(i))
		c.HostCPUWrite(HostTX1, 0)
		c.HostCPUWrite(HostTX2, 0)
		if i < 511 && c.State != StateBooting {
			t.Fatalf("core left BOOTING early, at write %d", i)
		}
	}
	if c.State != StateRunning {
		t.Fatalf("core should be RUNNING after 512 bootstrap writes, got %v", c.State)
	}
}

func TestSineROMKnownPoints(t *testing.T) {
	c := NewCore()
	// sin(0) == 0
	if v := c.YTableAt(0x100); v != 0 {
		t.Errorf("Y:0x100 (sin 0) = %#x, want 0", v)
	}
	// sin(pi/2) at index 64 (0x140) should be close to full scale (0x7FFFFF).
	v := int32(c.YTableAt(0x140))
	if v < 8388600 {
		t.Errorf("Y:0x140 (sin pi/2) = %d, want close to 8388607", v)
	}
	// sin(pi) at index 128 (0x180) should be back near zero.
	v = int32(c.YTableAt(0x180))
	if v < -4 || v > 4 {
		t.Errorf("Y:0x180 (sin pi) = %d, want near 0", v)
	}
}

func TestStackErrorOnOverflow(t *testing.T) {
	c := NewCore()
	for i := 0; i < 16; i++ {
		if err := c.Push(uint16(i), uint16(i)); err != nil {
			t.Fatalf("unexpected stack error on push %d: %v", i, err)
		}
	}
	if err := c.Push(0xFFFF, 0xFFFF); err == nil {
		t.Fatalf("expected stack error pushing past depth 16")
	}
}

func TestEffectiveAddressModuloWrap(t *testing.T) {
	c := NewCore()
	c.R[0] = 7
	c.M[0] = 7 // modulo window size 8
	c.N[0] = 1
	addr := c.EffectiveAddress(EAPostIncN, 0, 0, false)
	if addr != 7 {
		t.Fatalf("first EA should be unmodified R0=7, got %d", addr)
	}
	if c.R[0] != 0 {
		t.Fatalf("R0 should wrap to 0 within modulo-8 window, got %d", c.R[0])
	}
}

func TestInterpreterStepAdvancesPC(t *testing.T) {
	c := NewCore()
	c.State = StateRunning
	c.PC = 0
	c.PRAM[0] = 0 // NOP
	in := NewInterpreter(c)
	in.Step()
	if c.PC != 1 {
		t.Fatalf("PC after one NOP step = %d, want 1", c.PC)
	}
}
