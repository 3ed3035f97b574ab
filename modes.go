package ov5647

import (
	"fmt"
	"slices"
)

type Resolution uint32

// Resolution ids are shared with the IMX335 driver so the camera layer can
// select either sensor with the same values.
const (
	R2592x1944 Resolution = 6
	R1920x1080 Resolution = 7
)

func (r Resolution) String() string {
	switch r {
	case R2592x1944:
		return "2592x1944"
	case R1920x1080:
		return "1920x1080"
	default:
		return fmt.Sprintf("Resolution(%d)", uint32(r))
	}
}

type PixelFormat uint32

const RawRGGB10 PixelFormat = 10

// Mode is a complete sensor output configuration. Table ends with the
// stream-on command.
type Mode struct {
	Resolution Resolution
	Width      uint32
	Height     uint32
	FPS        uint32
	Table      RegisterTable
}

func (m Mode) String() string {
	return fmt.Sprintf("%dx%d@%d", m.Width, m.Height, m.FPS)
}

var modes = map[Resolution]Mode{
	R1920x1080: {Resolution: R1920x1080, Width: 1920, Height: 1080, FPS: 30, Table: mode1920x1080},
}

// LookupMode returns the mode programmed for r. The table is a copy.
func LookupMode(r Resolution) (Mode, bool) {
	m, ok := modes[r]
	if !ok {
		return Mode{}, false
	}
	return m.clone(), true
}

func (m Mode) clone() Mode {
	m.Table = slices.Clone(m.Table)
	return m
}

var mode1920x1080 = RegisterTable{
	{0x0100, 0x00}, // stream off
	{0x0103, 0x01}, // software reset

	{0x3034, 0x1A}, // RAW10
	{0x3035, 0x21}, // PLL system divider
	{0x3036, 0x62}, // PLL multiplier
	{0x303C, 0x11},
	{0x3106, 0xF5},

	{0x3820, 0x46},
	{0x3821, 0x06},

	{0x3827, 0xEC},
	{0x370C, 0x03},
	{0x3612, 0x5B},
	{0x3618, 0x04},

	{0x5000, 0x06},
	{0x5002, 0x41},
	{0x5003, 0x08},
	{0x5A00, 0x08},

	{0x3000, 0x00},
	{0x3001, 0x00},
	{0x3002, 0x00},
	{0x3016, 0x08},
	{0x3017, 0xE0},
	{0x3018, 0x44}, // MIPI, 2 lanes

	{0x301C, 0xF8},
	{0x301D, 0xF0},

	{0x3A18, 0x00},
	{0x3A19, 0xF8},
	{0x3C01, 0x80},
	{0x3B07, 0x0C},

	{0x380C, 0x09}, {0x380D, 0x70}, // HTS 2416
	{0x380E, 0x04}, {0x380F, 0x50}, // VTS 1104

	{0x3814, 0x11},
	{0x3815, 0x11},

	{0x3708, 0x64},
	{0x3709, 0x12},

	{0x3808, 0x07}, {0x3809, 0x80}, // X output 1920
	{0x380A, 0x04}, {0x380B, 0x38}, // Y output 1080

	{0x3800, 0x01}, {0x3801, 0x5C}, // X start
	{0x3802, 0x01}, {0x3803, 0xB2}, // Y start
	{0x3804, 0x08}, {0x3805, 0xE3}, // X end
	{0x3806, 0x05}, {0x3807, 0xF1}, // Y end

	{0x3811, 0x04},
	{0x3813, 0x02},

	{0x3630, 0x2E},
	{0x3632, 0xE2},
	{0x3633, 0x23},
	{0x3634, 0x44},
	{0x3636, 0x06},
	{0x3620, 0x64},
	{0x3621, 0xE0},
	{0x3600, 0x37},
	{0x3704, 0xA0},
	{0x3703, 0x5A},
	{0x3715, 0x78},
	{0x3717, 0x01},
	{0x3731, 0x02},
	{0x370B, 0x60},
	{0x3705, 0x1A},
	{0x3F05, 0x02},
	{0x3F06, 0x10},
	{0x3F01, 0x0A},

	{0x3A08, 0x01},
	{0x3A09, 0x4B},
	{0x3A0A, 0x01},
	{0x3A0B, 0x13},
	{0x3A0D, 0x04},
	{0x3A0E, 0x03},
	{0x3A0F, 0x58},
	{0x3A10, 0x50},
	{0x3A1B, 0x58},
	{0x3A1E, 0x50},
	{0x3A11, 0x60},
	{0x3A1F, 0x28},

	{0x4001, 0x02},
	{0x4004, 0x04},
	{0x4000, 0x09},

	{0x4837, 0x19},
	{0x4800, 0x34},

	{0x3503, 0x00}, // manual exposure and gain

	{0x3500, 0x00},
	{0x3501, 0x40},
	{0x3502, 0x00},
	{0x350A, 0x00},
	{0x350B, 0x10},

	{0x0100, 0x01}, // stream on
}

var testPatternColorBar = RegisterTable{
	{TEST_PATTERN.Address, TEST_PATTERN_COLOR_BAR},
}

var testPatternOff = RegisterTable{
	{TEST_PATTERN.Address, TEST_PATTERN_OFF},
}
