package config

import (
	"fmt"

	"periph.io/x/conn/v3/physic"

	"github.com/jonas-koeritz/ov5647"
	"github.com/jonas-koeritz/ov5647/i2cbus"
	"github.com/jonas-koeritz/ov5647/serialbus"
)

// Open opens the configured transport.
func (b BusConfig) Open() (ov5647.Transport, error) {
	switch b.Type {
	case BusI2C:
		bus, err := i2cbus.Open(b.Name, physic.Frequency(b.SpeedHz)*physic.Hertz)
		if err != nil {
			return nil, err
		}
		return bus, nil
	case BusSerial:
		bus, err := serialbus.Open(b.Name, b.Baud)
		if err != nil {
			return nil, err
		}
		return bus, nil
	}
	return nil, fmt.Errorf("invalid bus type %q", b.Type)
}

// Apply sets every configured control on an initialized device. Framerate
// goes first since it changes the exposure limit.
func (c ControlsConfig) Apply(dev *ov5647.Device) error {
	if c.Framerate != nil {
		if err := dev.SetFramerate(*c.Framerate); err != nil {
			return err
		}
	}
	if c.ExposureUS != nil {
		if err := dev.SetExposure(*c.ExposureUS); err != nil {
			return err
		}
	}
	if c.GainMdB != nil {
		if err := dev.SetGain(*c.GainMdB); err != nil {
			return err
		}
	}
	if c.MirrorFlip != nil {
		mf, err := ParseMirrorFlip(*c.MirrorFlip)
		if err != nil {
			return err
		}
		if err := dev.MirrorFlipConfig(mf); err != nil {
			return err
		}
	}
	if c.TestPattern != nil {
		if err := dev.SetTestPattern(*c.TestPattern); err != nil {
			return err
		}
	}
	return nil
}
