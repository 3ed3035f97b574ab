package ov5647

import "time"

type register struct {
	Address  uint16
	ReadOnly bool
}

// Control and identification
var MODE_SELECT = register{0x0100, false} // 0x00 standby, 0x01 streaming
var SW_RESET = register{0x0103, false}
var CHIP_ID_HIGH = register{0x300A, true}
var CHIP_ID_LOW = register{0x300B, true}

// PLL and output format
var FORMAT = register{0x3034, false}
var PLL_SYS_DIV = register{0x3035, false}
var PLL_MULT = register{0x3036, false}
var PLL_ROOT_DIV = register{0x3037, false}
var DVP_MIPI_SC = register{0x3018, false}
var MIPI_CTRL00 = register{0x4800, false}
var MIPI_TIMING = register{0x4837, false}

// Timing control
var TIMING_TC_REG20 = register{0x3820, false} // vertical flip
var TIMING_TC_REG21 = register{0x3821, false} // horizontal mirror
var X_START_H = register{0x3800, false}
var X_START_L = register{0x3801, false}
var Y_START_H = register{0x3802, false}
var Y_START_L = register{0x3803, false}
var X_END_H = register{0x3804, false}
var X_END_L = register{0x3805, false}
var Y_END_H = register{0x3806, false}
var Y_END_L = register{0x3807, false}
var X_OUT_H = register{0x3808, false}
var X_OUT_L = register{0x3809, false}
var Y_OUT_H = register{0x380A, false}
var Y_OUT_L = register{0x380B, false}
var HTS_H = register{0x380C, false}
var HTS_L = register{0x380D, false}
var VTS_H = register{0x380E, false}
var VTS_L = register{0x380F, false}

// Exposure and gain
var AEC_AGC = register{0x3503, false}
var EXPOSURE_H = register{0x3500, false} // exposure[19:16]
var EXPOSURE_M = register{0x3501, false} // exposure[15:8]
var EXPOSURE_L = register{0x3502, false} // exposure[7:4], low nibble is the fractional line
var GAIN_H = register{0x350A, false}
var GAIN_L = register{0x350B, false}

var TEST_PATTERN = register{0x503D, false}

// MIPI_CTRL00 bits
const (
	MIPI_IDLE_LP11    uint8 = 1 << 2
	MIPI_LINE_SYNC_EN uint8 = 1 << 4
	MIPI_CLK_GATE     uint8 = 1 << 5
	MIPI_HS_ONLY      uint8 = 1 << 7
)

const (
	CHIP_ID uint32 = 0x5647

	MODE_STANDBY   uint8 = 0x00
	MODE_STREAMING uint8 = 0x01

	TEST_PATTERN_COLOR_BAR uint8 = 0x80
	TEST_PATTERN_OFF       uint8 = 0x00

	// Both the sensor and the ISP flip/mirror bit of TIMING_TC_REG20/21.
	orientationBits uint8 = 0x06
)

// Sensor description reported by GetSensorInfo.
const (
	SensorName     = "OV5647"
	BayerRGGB      = 0
	ColorDepth     = 10
	SensorWidth    = 1920
	SensorHeight   = 1080
	GainMinMdB     = 0
	GainMaxMdB     = 4800
	ExposureMinUS  = 50
	ExposureMaxUS  = 1000000
	gainCodeMin    = 0x10
	gainCodeMax    = 0xF8
	exposureMargin = 8
)

// The module runs from a 25 MHz on-board oscillator. The pixel clock is not
// derived from it: it is reconstructed from HTS*VTS*fps of the loaded mode.
const XCLK_HZ = 25000000

const (
	ResetDelay     = 5 * time.Millisecond
	VerifyDelay    = 20 * time.Millisecond
	PLLSettleDelay = 3 * time.Millisecond
	VerifyRetries  = 3
)

// Registers accepted without readback in verify mode.
var defaultVerifySkip = []uint16{SW_RESET.Address}
