package ov5647

import (
	"errors"
	"testing"
)

func TestSetExposure_NoTiming(t *testing.T) {
	bus := newMockBus()
	d := newTestDevice(t, bus)

	if err := d.SetExposure(10000); !errors.Is(err, ErrTimingNotReady) {
		t.Fatalf("error = %v, want ErrTimingNotReady", err)
	}
	if len(bus.ops) != 0 {
		t.Errorf("%d bus ops before Init", len(bus.ops))
	}
}

func TestSetExposure(t *testing.T) {
	tests := []struct {
		name    string
		us      int32
		h, m, l uint8
	}{
		// 331 lines at 33.12 us per line.
		{"10ms", 10000, 0x00, 0x14, 0xB0},
		// Raised to ExposureMinUS: 1.66 lines rounds to 2.
		{"below minimum", 10, 0x00, 0x00, 0x20},
		// Capped at VTS-8 = 1096 lines.
		{"one second", 1000000, 0x00, 0x44, 0x80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newMockBus()
			d := initTestDevice(t, bus)

			if err := d.SetExposure(tt.us); err != nil {
				t.Fatalf("SetExposure: %v", err)
			}
			writes := bus.writeOps()
			if len(writes) != 3 {
				t.Fatalf("writes = %+v, want 3", writes)
			}
			want := []busOp{
				{true, EXPOSURE_H.Address, tt.h},
				{true, EXPOSURE_M.Address, tt.m},
				{true, EXPOSURE_L.Address, tt.l},
			}
			for i := range want {
				if writes[i] != want[i] {
					t.Errorf("write %d = 0x%04X:0x%02X, want 0x%04X:0x%02X", i, writes[i].reg, writes[i].value, want[i].reg, want[i].value)
				}
			}
		})
	}
}

func TestSetExposure_BusError(t *testing.T) {
	bus := newMockBus()
	d := initTestDevice(t, bus)
	bus.failWriteAt = bus.writes + 2

	if err := d.SetExposure(10000); !errors.Is(err, ErrBus) {
		t.Fatalf("error = %v, want ErrBus", err)
	}
	writes := bus.writeOps()
	if len(writes) != 2 || writes[1].reg != EXPOSURE_M.Address {
		t.Errorf("writes = %+v, want to stop at EXPOSURE_M", writes)
	}
	if bus.writesTo(EXPOSURE_L.Address) != 0 {
		t.Error("EXPOSURE_L written after the failure")
	}
}

func TestExposureLines(t *testing.T) {
	timing := newTiming(2416, 1104, 30)
	tests := []struct {
		us   int32
		want uint32
	}{
		{50, 2},
		{10000, 331},
		{33120, 1096},
		{1000000, 1096},
	}
	for _, tt := range tests {
		if got := exposureLines(tt.us, timing); got != tt.want {
			t.Errorf("exposureLines(%d) = %d, want %d", tt.us, got, tt.want)
		}
	}

	// A frame shorter than the margin isn't capped.
	if got := exposureLines(1000, newTiming(2416, 4, 30)); got == 0 {
		t.Error("exposureLines returned 0 lines")
	}
}

func TestSetGain(t *testing.T) {
	tests := []struct {
		mdb  int32
		code uint8
	}{
		{0, 0x10},
		{2400, 0x84},
		{4800, 0xF8},
		{-100, 0x10},
		{10000, 0xF8},
	}
	for _, tt := range tests {
		bus := newMockBus()
		d := newTestDevice(t, bus)

		if err := d.SetGain(tt.mdb); err != nil {
			t.Fatalf("SetGain(%d): %v", tt.mdb, err)
		}
		writes := bus.writeOps()
		if len(writes) != 2 || writes[0].reg != GAIN_H.Address || writes[1].reg != GAIN_L.Address {
			t.Fatalf("SetGain(%d) writes = %+v, want GAIN_H then GAIN_L", tt.mdb, writes)
		}
		if writes[0].value != 0x00 || writes[1].value != tt.code {
			t.Errorf("SetGain(%d) = 0x%02X%02X, want 0x00%02X", tt.mdb, writes[0].value, writes[1].value, tt.code)
		}
	}
}

func TestGainCode_Monotonic(t *testing.T) {
	prev := gainCode(GainMinMdB)
	for mdb := int32(GainMinMdB) + 1; mdb <= GainMaxMdB; mdb++ {
		code := gainCode(mdb)
		if code < prev {
			t.Fatalf("gainCode(%d) = 0x%02X < gainCode(%d) = 0x%02X", mdb, code, mdb-1, prev)
		}
		prev = code
	}
	if prev != gainCodeMax {
		t.Errorf("gainCode(%d) = 0x%02X, want 0x%02X", GainMaxMdB, prev, gainCodeMax)
	}
}

func TestSetGain_BusError(t *testing.T) {
	bus := newMockBus()
	bus.failWriteAt = 1
	d := newTestDevice(t, bus)

	if err := d.SetGain(1000); !errors.Is(err, ErrBus) {
		t.Fatalf("error = %v, want ErrBus", err)
	}
	if n := len(bus.writeOps()); n != 1 {
		t.Errorf("%d writes, want to stop after the first", n)
	}
}

func TestMirrorFlipConfig(t *testing.T) {
	tests := []struct {
		config   MirrorFlip
		reg20    uint8
		reg21    uint8
		readBack MirrorFlip
	}{
		{MirrorFlipNone, 0x41, 0x01, MirrorFlipNone},
		{Flip, 0x47, 0x01, Flip},
		{Mirror, 0x41, 0x07, Mirror},
		{MirrorFlipBoth, 0x47, 0x07, MirrorFlipBoth},
	}
	for _, tt := range tests {
		t.Run(tt.config.String(), func(t *testing.T) {
			bus := newMockBus()
			d := initTestDevice(t, bus)
			bus.regs[TIMING_TC_REG20.Address] = 0x43
			bus.regs[TIMING_TC_REG21.Address] = 0x05

			if err := d.MirrorFlipConfig(tt.config); err != nil {
				t.Fatalf("MirrorFlipConfig: %v", err)
			}
			want := []busOp{
				{false, TIMING_TC_REG20.Address, 0},
				{true, TIMING_TC_REG20.Address, tt.reg20},
				{false, TIMING_TC_REG21.Address, 0},
				{true, TIMING_TC_REG21.Address, tt.reg21},
			}
			if len(bus.ops) != len(want) {
				t.Fatalf("ops = %+v, want read-modify-write of both registers", bus.ops)
			}
			for i := range want {
				if bus.ops[i] != want[i] {
					t.Errorf("op %d = %+v, want %+v", i, bus.ops[i], want[i])
				}
			}

			got, err := d.GetMirrorFlip()
			if err != nil {
				t.Fatalf("GetMirrorFlip: %v", err)
			}
			if got != tt.readBack {
				t.Errorf("GetMirrorFlip = %s, want %s", got, tt.readBack)
			}
		})
	}
}

func TestMirrorFlipConfig_Invalid(t *testing.T) {
	bus := newMockBus()
	d := initTestDevice(t, bus)

	if err := d.MirrorFlipConfig(MirrorFlip(4)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
	if len(bus.ops) != 0 {
		t.Errorf("%d bus ops for an invalid orientation", len(bus.ops))
	}

	d.DeInit()
	bus.reset()
	if err := d.MirrorFlipConfig(Mirror); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("error = %v, want ErrNotInitialized", err)
	}
	if len(bus.ops) != 0 {
		t.Errorf("%d bus ops while not initialized", len(bus.ops))
	}
}

func TestMirrorFlipConfig_ReadFailure(t *testing.T) {
	bus := newMockBus()
	d := initTestDevice(t, bus)
	bus.failRead[TIMING_TC_REG20.Address] = true

	if err := d.MirrorFlipConfig(Flip); !errors.Is(err, ErrBus) {
		t.Fatalf("error = %v, want ErrBus", err)
	}
	if n := len(bus.writeOps()); n != 0 {
		t.Errorf("%d writes after failed read", n)
	}
}

func TestSetFramerate(t *testing.T) {
	bus := newMockBus()
	d := initTestDevice(t, bus)

	if err := d.SetFramerate(15); err != nil {
		t.Fatalf("SetFramerate(15): %v", err)
	}
	writes := bus.writeOps()
	if len(writes) != 2 || writes[0] != (busOp{true, VTS_H.Address, 0x08}) || writes[1] != (busOp{true, VTS_L.Address, 0xA0}) {
		t.Errorf("writes = %+v, want VTS 2208", writes)
	}
	want := Timing{LineLength: 2416, FrameLength: 2208, PixelClock: 80017920, FPS: 15}
	if got := d.Timing(); got != want {
		t.Errorf("Timing = %+v, want %+v", got, want)
	}

	// The exposure limit follows the longer frame.
	bus.reset()
	if err := d.SetExposure(1000000); err != nil {
		t.Fatalf("SetExposure: %v", err)
	}
	if lines := uint32(bus.regs[EXPOSURE_M.Address])<<4 | uint32(bus.regs[EXPOSURE_L.Address])>>4; lines != 2200 {
		t.Errorf("exposure = %d lines, want 2200", lines)
	}

	// Back to the nominal rate without drift.
	if err := d.SetFramerate(30); err != nil {
		t.Fatalf("SetFramerate(30): %v", err)
	}
	if got := d.Timing(); got.FrameLength != 1104 || got.PixelClock != 80017920 {
		t.Errorf("Timing = %+v, want the mode timing", got)
	}
}

func TestSetFramerate_CapsExposure(t *testing.T) {
	bus := newMockBus()
	d := initTestDevice(t, bus)

	if err := d.SetFramerate(15); err != nil {
		t.Fatalf("SetFramerate(15): %v", err)
	}
	if err := d.SetExposure(1000000); err != nil {
		t.Fatalf("SetExposure: %v", err)
	}
	bus.reset()

	if err := d.SetFramerate(30); err != nil {
		t.Fatalf("SetFramerate(30): %v", err)
	}

	// Exposure shrinks to VTS-8 = 1096 lines before the frame does.
	want := []busOp{
		{true, EXPOSURE_H.Address, 0x00},
		{true, EXPOSURE_M.Address, 0x44},
		{true, EXPOSURE_L.Address, 0x80},
		{true, VTS_H.Address, 0x04},
		{true, VTS_L.Address, 0x50},
	}
	writes := bus.writeOps()
	if len(writes) != len(want) {
		t.Fatalf("writes = %+v, want %+v", writes, want)
	}
	for i := range want {
		if writes[i] != want[i] {
			t.Errorf("write %d = %+v, want %+v", i, writes[i], want[i])
		}
	}

	// The capped exposure fits the longer frame, nothing to rewrite.
	bus.reset()
	if err := d.SetFramerate(15); err != nil {
		t.Fatalf("SetFramerate(15): %v", err)
	}
	if n := bus.writesTo(EXPOSURE_M.Address); n != 0 {
		t.Errorf("exposure rewritten %d times for a longer frame", n)
	}
}

func TestSetFramerate_BusError(t *testing.T) {
	bus := newMockBus()
	d := initTestDevice(t, bus)
	bus.failWriteAt = bus.writes + 2

	if err := d.SetFramerate(15); !errors.Is(err, ErrBus) {
		t.Fatalf("error = %v, want ErrBus", err)
	}
	if n := len(bus.writeOps()); n != 2 {
		t.Errorf("%d writes, want to stop at the failing write", n)
	}
	if got := d.Timing(); got.FPS != 30 || got.FrameLength != 1104 {
		t.Errorf("Timing = %+v, want the mode timing after a failed update", got)
	}
}

func TestSetFramerate_Invalid(t *testing.T) {
	bus := newMockBus()
	d := newTestDevice(t, bus)
	if err := d.SetFramerate(15); !errors.Is(err, ErrTimingNotReady) {
		t.Errorf("error before Init = %v, want ErrTimingNotReady", err)
	}

	d = initTestDevice(t, bus)
	for _, fps := range []int32{0, -5, 31, 120} {
		if err := d.SetFramerate(fps); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("SetFramerate(%d) error = %v, want ErrInvalidArgument", fps, err)
		}
	}
	if len(bus.ops) != 0 {
		t.Errorf("%d bus ops for invalid framerates", len(bus.ops))
	}
}

func TestFrameLength(t *testing.T) {
	mode := newTiming(2416, 1104, 30)
	tests := []struct {
		fps  uint32
		want uint16
	}{
		{30, 1104},
		{25, 1325},
		{15, 2208},
		{1, 33120},
	}
	for _, tt := range tests {
		if got := frameLength(mode, tt.fps); got != tt.want {
			t.Errorf("frameLength(%d) = %d, want %d", tt.fps, got, tt.want)
		}
	}
}

func TestSetTestPattern(t *testing.T) {
	tests := []struct {
		mode int32
		want uint8
	}{
		{0, TEST_PATTERN_COLOR_BAR},
		{3, TEST_PATTERN_COLOR_BAR},
		{-1, TEST_PATTERN_OFF},
	}
	for _, tt := range tests {
		bus := newMockBus()
		d := newTestDevice(t, bus)

		if err := d.SetTestPattern(tt.mode); err != nil {
			t.Fatalf("SetTestPattern(%d): %v", tt.mode, err)
		}
		writes := bus.writeOps()
		if len(writes) != 1 || writes[0] != (busOp{true, TEST_PATTERN.Address, tt.want}) {
			t.Errorf("SetTestPattern(%d) writes = %+v, want 0x%02X", tt.mode, writes, tt.want)
		}
	}
}
