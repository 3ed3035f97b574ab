package ov5647

import "fmt"

// Timing holds the line and frame timing of the loaded mode. PixelClock is
// not read from the sensor: it is LineLength*FrameLength*FPS.
type Timing struct {
	LineLength  uint16 // HTS, pixel clocks per line
	FrameLength uint16 // VTS, lines per frame
	PixelClock  uint32 // Hz
	FPS         uint32
}

func newTiming(hts, vts uint16, fps uint32) Timing {
	return Timing{
		LineLength:  hts,
		FrameLength: vts,
		PixelClock:  uint32(uint64(hts) * uint64(vts) * uint64(fps)),
		FPS:         fps,
	}
}

// Valid reports whether the timing can be used for conversions.
func (t Timing) Valid() bool {
	return t.LineLength != 0 && t.FrameLength != 0 && t.PixelClock != 0
}

// timingFromTable extracts HTS and VTS from a mode table. The last write to
// each byte wins.
func timingFromTable(table RegisterTable, fps uint32) (Timing, error) {
	var htsH, htsL, vtsH, vtsL uint8
	var seen uint8
	for _, w := range table {
		switch w.Address {
		case HTS_H.Address:
			htsH, seen = w.Value, seen|1
		case HTS_L.Address:
			htsL, seen = w.Value, seen|2
		case VTS_H.Address:
			vtsH, seen = w.Value, seen|4
		case VTS_L.Address:
			vtsL, seen = w.Value, seen|8
		}
	}
	if seen != 0x0F {
		return Timing{}, fmt.Errorf("mode table doesn't program HTS and VTS")
	}

	t := newTiming(uint16(htsH)<<8|uint16(htsL), uint16(vtsH)<<8|uint16(vtsL), fps)
	if !t.Valid() {
		return Timing{}, fmt.Errorf("invalid mode timing: HTS %d, VTS %d, %d fps", t.LineLength, t.FrameLength, fps)
	}
	return t, nil
}

// Timing returns the timing of the loaded mode. It is the zero Timing while
// the sensor is not initialized.
func (d *Device) Timing() Timing {
	return d.timing
}
