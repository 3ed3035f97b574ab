package ov5647

import "fmt"

// SetExposure sets the integration time in microseconds. Values below
// ExposureMinUS are raised to it and the line count is capped at VTS-8 so
// exposure never runs into blanking.
func (d *Device) SetExposure(us int32) error {
	if us < ExposureMinUS {
		us = ExposureMinUS
	}
	if !d.timing.Valid() {
		return fmt.Errorf("failed to set exposure: %w", ErrTimingNotReady)
	}

	lines := exposureLines(us, d.timing)
	if err := d.writeExposure(lines); err != nil {
		return fmt.Errorf("failed to set exposure: %w", err)
	}

	d.log.Debugw("exposure set", "us", us, "lines", lines)
	return nil
}

// writeExposure programs lines<<4 into the exposure registers. The low
// nibble is the unused fractional line.
func (d *Device) writeExposure(lines uint32) error {
	if err := d.writeRegister(EXPOSURE_H, uint8(lines>>12)&0x0F); err != nil {
		return err
	}
	if err := d.writeRegister(EXPOSURE_M, uint8(lines>>4)); err != nil {
		return err
	}
	if err := d.writeRegister(EXPOSURE_L, uint8(lines<<4)&0xF0); err != nil {
		return err
	}
	d.exposure = lines
	return nil
}

// exposureLines converts microseconds into whole lines, rounding half up.
func exposureLines(us int32, t Timing) uint32 {
	num := uint64(us) * uint64(t.PixelClock)
	denom := uint64(t.LineLength) * 1000000
	lines := uint32((num + denom/2) / denom)
	if lines == 0 {
		lines = 1
	}
	if limit := uint32(t.FrameLength) - exposureMargin; t.FrameLength > exposureMargin && lines > limit {
		lines = limit
	}
	return lines
}

// SetGain sets the analog gain in milli-decibels. The range GainMinMdB to
// GainMaxMdB maps linearly onto gain codes 0x10 to 0xF8.
func (d *Device) SetGain(mdb int32) error {
	code := gainCode(mdb)

	if err := d.writeRegister(GAIN_H, uint8(code>>8)); err != nil {
		return fmt.Errorf("failed to set gain: %w", err)
	}
	if err := d.writeRegister(GAIN_L, uint8(code)); err != nil {
		return fmt.Errorf("failed to set gain: %w", err)
	}

	d.log.Debugw("gain set", "mdb", mdb, "code", fmt.Sprintf("0x%03X", code))
	return nil
}

func gainCode(mdb int32) uint16 {
	if mdb < GainMinMdB {
		mdb = GainMinMdB
	}
	if mdb > GainMaxMdB {
		mdb = GainMaxMdB
	}
	divisor := int64(GainMaxMdB)
	if divisor == 0 {
		divisor = 1
	}
	return uint16(gainCodeMin + int64(mdb)*(gainCodeMax-gainCodeMin)/divisor)
}

// MirrorFlip selects the readout orientation.
type MirrorFlip uint32

const (
	MirrorFlipNone MirrorFlip = 0x00
	Flip           MirrorFlip = 0x01
	Mirror         MirrorFlip = 0x02
	MirrorFlipBoth MirrorFlip = 0x03
)

func (m MirrorFlip) String() string {
	switch m {
	case MirrorFlipNone:
		return "none"
	case Flip:
		return "flip"
	case Mirror:
		return "mirror"
	case MirrorFlipBoth:
		return "mirror-flip"
	default:
		return fmt.Sprintf("MirrorFlip(%d)", uint32(m))
	}
}

// MirrorFlipConfig sets or clears the flip and mirror bits of the timing
// control registers, leaving every other bit as read from the sensor.
func (d *Device) MirrorFlipConfig(config MirrorFlip) error {
	if config&^MirrorFlipBoth != 0 {
		return fmt.Errorf("failed to set orientation: %w: %s", ErrInvalidArgument, config)
	}
	if !d.initialized {
		return fmt.Errorf("failed to set orientation: %w", ErrNotInitialized)
	}

	if err := d.updateBits(TIMING_TC_REG20, orientationBits, config&Flip != 0); err != nil {
		return fmt.Errorf("failed to set orientation: %w", err)
	}
	if err := d.updateBits(TIMING_TC_REG21, orientationBits, config&Mirror != 0); err != nil {
		return fmt.Errorf("failed to set orientation: %w", err)
	}
	return nil
}

// GetMirrorFlip reads the orientation back from the sensor.
func (d *Device) GetMirrorFlip() (MirrorFlip, error) {
	flip, err := d.readRegister(TIMING_TC_REG20)
	if err != nil {
		return 0, fmt.Errorf("failed to read orientation: %w", err)
	}
	mirror, err := d.readRegister(TIMING_TC_REG21)
	if err != nil {
		return 0, fmt.Errorf("failed to read orientation: %w", err)
	}

	config := MirrorFlipNone
	if flip&orientationBits != 0 {
		config |= Flip
	}
	if mirror&orientationBits != 0 {
		config |= Mirror
	}
	return config, nil
}

func (d *Device) updateBits(reg register, mask uint8, set bool) error {
	value, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	value &^= mask
	if set {
		value |= mask
	}
	return d.writeRegister(reg, value)
}

// SetFramerate stretches the frame to reach fps by rewriting VTS while HTS
// and the PLL stay as the mode programmed them. fps can't exceed the mode's
// nominal rate.
func (d *Device) SetFramerate(fps int32) error {
	if !d.timing.Valid() || !d.modeTiming.Valid() {
		return fmt.Errorf("failed to set framerate: %w", ErrTimingNotReady)
	}
	if fps < 1 || uint32(fps) > d.modeTiming.FPS {
		return fmt.Errorf("failed to set framerate: %w: %d fps, must be 1 to %d", ErrInvalidArgument, fps, d.modeTiming.FPS)
	}

	vts := frameLength(d.modeTiming, uint32(fps))

	// A shorter frame must not leave the exposure in blanking. The mode
	// table's exposure fits the mode VTS, which is the shortest frame.
	if limit := uint32(vts) - exposureMargin; vts > exposureMargin && d.exposure > limit {
		if err := d.writeExposure(limit); err != nil {
			return fmt.Errorf("failed to set framerate: %w", err)
		}
		d.log.Debugw("exposure capped to frame", "lines", limit)
	}

	if err := d.writeRegister(VTS_H, uint8(vts>>8)); err != nil {
		return fmt.Errorf("failed to set framerate: %w", err)
	}
	if err := d.writeRegister(VTS_L, uint8(vts)); err != nil {
		return fmt.Errorf("failed to set framerate: %w", err)
	}

	d.timing = newTiming(d.modeTiming.LineLength, vts, uint32(fps))
	d.log.Debugw("framerate set", "fps", fps, "vts", vts, "pclk_hz", d.timing.PixelClock)
	return nil
}

// frameLength returns the VTS that yields fps at the mode's pixel clock,
// never shorter than the mode's own frame.
func frameLength(mode Timing, fps uint32) uint16 {
	denom := uint64(mode.LineLength) * uint64(fps)
	vts := (uint64(mode.PixelClock) + denom/2) / denom
	if vts < uint64(mode.FrameLength) {
		vts = uint64(mode.FrameLength)
	}
	if vts > 0xFFFF {
		vts = 0xFFFF
	}
	return uint16(vts)
}

// SetTestPattern enables the colour bar pattern for any mode >= 0 and
// disables the pattern for negative values.
func (d *Device) SetTestPattern(mode int32) error {
	table := testPatternOff
	if mode >= 0 {
		table = testPatternColorBar
	}
	if err := d.WriteTable(table); err != nil {
		return fmt.Errorf("failed to set test pattern: %w", err)
	}
	return nil
}
