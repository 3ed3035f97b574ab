// Package ov5647 drives the OmniVision OV5647 image sensor over a 16-bit
// register bus. It loads the sensor mode, verifies the chip id and converts
// exposure, gain, framerate, orientation and test pattern requests into
// register writes.
//
// A Device is not safe for concurrent use. Every call blocks until its bus
// transactions and delays have completed.
package ov5647

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultAddress is the 7-bit I2C address of the OV5647 (SCCB id 0x6C).
const DefaultAddress uint16 = 0x36

// Device is one OV5647 bound to a register bus. Use New to create it and
// don't copy it afterwards.
type Device struct {
	io     IO
	config Config
	log    *zap.SugaredLogger

	initialized bool
	mode        Mode
	format      PixelFormat

	// timing is the live timing, modeTiming the one the table programmed.
	// SetFramerate derives the live timing from modeTiming.
	timing     Timing
	modeTiming Timing

	// exposure is the line count last written by SetExposure, 0 while the
	// mode table's own exposure is in effect.
	exposure uint32
}

// New binds a Device to the bus described by io and runs io.Init.
func New(io IO, opts ...Option) (*Device, error) {
	if io.ReadReg == nil || io.WriteReg == nil {
		return nil, fmt.Errorf("%w: read and write functions are required", ErrBusInit)
	}
	if io.Init == nil {
		return nil, fmt.Errorf("%w: no init function", ErrBusInit)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := io.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusInit, err)
	}

	return &Device{
		io:     io,
		config: cfg,
		log:    cfg.Logger.With("sensor", SensorName, "addr", fmt.Sprintf("0x%02X", io.Address)),
	}, nil
}

// Init checks the chip id and programs the mode for resolution. The mode
// table turns streaming on. Init on an initialized Device does nothing.
func (d *Device) Init(resolution Resolution, format PixelFormat) error {
	if d.initialized {
		return nil
	}

	mode, ok := modes[resolution]
	if !ok {
		return fmt.Errorf("failed to init sensor: %w: %s", ErrUnsupportedResolution, resolution)
	}
	timing, err := timingFromTable(mode.Table, mode.FPS)
	if err != nil {
		return fmt.Errorf("failed to init sensor: %w", err)
	}

	id, err := d.ReadID()
	if err != nil {
		return fmt.Errorf("failed to init sensor: %w", err)
	}
	if id != CHIP_ID {
		return &IdentityError{Expected: CHIP_ID, Actual: id}
	}
	d.log.Infow("sensor detected", "chip_id", fmt.Sprintf("0x%04X", id))

	load := d.WriteTable
	if d.config.VerifiedLoad {
		load = d.WriteTableVerify
	}
	if err := load(mode.Table); err != nil {
		return fmt.Errorf("failed to load mode %s: %w", mode, err)
	}

	d.mode = mode
	d.format = format
	d.modeTiming = timing
	d.timing = timing
	d.exposure = 0
	d.initialized = true

	d.log.Infow("mode loaded",
		"mode", mode.String(),
		"hts", timing.LineLength,
		"vts", timing.FrameLength,
		"pclk_hz", timing.PixelClock,
	)
	return nil
}

// DeInit puts an initialized sensor into standby. The standby write is best
// effort: its error is logged, never returned.
func (d *Device) DeInit() error {
	if !d.initialized {
		return nil
	}
	if err := d.writeRegister(MODE_SELECT, MODE_STANDBY); err != nil {
		d.log.Warnw("failed to enter standby", "err", err)
	}
	d.initialized = false
	d.timing = Timing{}
	d.modeTiming = Timing{}
	d.exposure = 0
	return nil
}

// Close puts the sensor into standby and releases the bus.
func (d *Device) Close() error {
	d.DeInit()
	if d.io.DeInit != nil {
		return d.io.DeInit()
	}
	return nil
}

// ReadID returns the 16-bit chip id.
func (d *Device) ReadID() (uint32, error) {
	high, err := d.readRegister(CHIP_ID_HIGH)
	if err != nil {
		return 0, fmt.Errorf("failed to read chip id: %w", err)
	}
	low, err := d.readRegister(CHIP_ID_LOW)
	if err != nil {
		return 0, fmt.Errorf("failed to read chip id: %w", err)
	}
	return uint32(high)<<8 | uint32(low), nil
}

// Initialized reports whether a mode is loaded.
func (d *Device) Initialized() bool {
	return d.initialized
}

// Mode returns a copy of the loaded mode.
func (d *Device) Mode() (Mode, bool) {
	if !d.initialized {
		return Mode{}, false
	}
	return d.mode.clone(), true
}
