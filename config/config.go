// Package config loads the sensor setup used by the example programs from YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonas-koeritz/ov5647"
)

// Config is the complete sensor setup.
type Config struct {
	Bus      BusConfig      `yaml:"bus"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Controls ControlsConfig `yaml:"controls"`
}

// BusConfig selects the transport. Type is "i2c" or "serial".
type BusConfig struct {
	Type    string `yaml:"type"`
	Name    string `yaml:"name"`     // I2C bus name or serial port, "" autodetects
	Address uint16 `yaml:"address"`  // 7-bit device address
	SpeedHz int64  `yaml:"speed_hz"` // I2C clock
	Baud    int    `yaml:"baud"`     // serial bridge
}

// SensorConfig selects the mode and the table loading path.
type SensorConfig struct {
	Resolution  string       `yaml:"resolution"`
	PixelFormat string       `yaml:"pixel_format"`
	Verify      VerifyConfig `yaml:"verify"`
}

type VerifyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Retries int      `yaml:"retries"`
	Strict  bool     `yaml:"strict"`
	Skip    []uint16 `yaml:"skip"`
}

// ControlsConfig holds the controls applied after Init. Nil fields are left
// as the mode table programs them.
type ControlsConfig struct {
	ExposureUS  *int32  `yaml:"exposure_us"`
	GainMdB     *int32  `yaml:"gain_mdb"`
	Framerate   *int32  `yaml:"framerate"`
	MirrorFlip  *string `yaml:"mirror_flip"`
	TestPattern *int32  `yaml:"test_pattern"`
}

const (
	BusI2C    = "i2c"
	BusSerial = "serial"
)

// Default returns the setup of a Raspberry Pi camera module on /dev/i2c-1.
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Type:    BusI2C,
			Name:    "/dev/i2c-1",
			Address: ov5647.DefaultAddress,
			SpeedHz: 400000,
			Baud:    115200,
		},
		Sensor: SensorConfig{
			Resolution:  "1920x1080",
			PixelFormat: "raw10",
			Verify: VerifyConfig{
				Retries: ov5647.VerifyRetries,
			},
		},
	}
}

// Load reads the config from a YAML file and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	d := Default()
	if c.Bus.Type == "" {
		c.Bus.Type = d.Bus.Type
	}
	if c.Bus.Type == BusI2C && c.Bus.Name == "" {
		c.Bus.Name = d.Bus.Name
	}
	if c.Bus.Address == 0 {
		c.Bus.Address = d.Bus.Address
	}
	if c.Bus.SpeedHz == 0 {
		c.Bus.SpeedHz = d.Bus.SpeedHz
	}
	if c.Bus.Baud == 0 {
		c.Bus.Baud = d.Bus.Baud
	}
	if c.Sensor.Resolution == "" {
		c.Sensor.Resolution = d.Sensor.Resolution
	}
	if c.Sensor.PixelFormat == "" {
		c.Sensor.PixelFormat = d.Sensor.PixelFormat
	}
	if c.Sensor.Verify.Retries == 0 {
		c.Sensor.Verify.Retries = d.Sensor.Verify.Retries
	}
}

// Validate checks the values that can be checked without a sensor.
func (c *Config) Validate() error {
	switch c.Bus.Type {
	case BusI2C, BusSerial:
	default:
		return fmt.Errorf("invalid bus type %q, must be %q or %q", c.Bus.Type, BusI2C, BusSerial)
	}
	if c.Bus.Address > 0x7F {
		return fmt.Errorf("invalid bus address 0x%X, must be a 7-bit address", c.Bus.Address)
	}
	if _, err := c.Sensor.ParseResolution(); err != nil {
		return err
	}
	if _, err := c.Sensor.ParsePixelFormat(); err != nil {
		return err
	}
	if c.Sensor.Verify.Retries < 1 {
		return fmt.Errorf("invalid verify retries %d, must be at least 1", c.Sensor.Verify.Retries)
	}
	if c.Controls.MirrorFlip != nil {
		if _, err := ParseMirrorFlip(*c.Controls.MirrorFlip); err != nil {
			return err
		}
	}
	return nil
}

// ParseResolution maps the configured resolution onto the driver's ids.
func (s SensorConfig) ParseResolution() (ov5647.Resolution, error) {
	switch strings.ToLower(s.Resolution) {
	case "1920x1080", "1080p":
		return ov5647.R1920x1080, nil
	case "2592x1944":
		return ov5647.R2592x1944, nil
	}
	return 0, fmt.Errorf("invalid resolution %q", s.Resolution)
}

func (s SensorConfig) ParsePixelFormat() (ov5647.PixelFormat, error) {
	switch strings.ToLower(s.PixelFormat) {
	case "raw10", "raw_rggb10":
		return ov5647.RawRGGB10, nil
	}
	return 0, fmt.Errorf("invalid pixel format %q", s.PixelFormat)
}

// Options translates the verify settings into driver options.
func (s SensorConfig) Options() []ov5647.Option {
	return []ov5647.Option{
		ov5647.WithVerifiedLoad(s.Verify.Enabled),
		ov5647.WithVerifyRetries(s.Verify.Retries),
		ov5647.WithStrictVerify(s.Verify.Strict),
		ov5647.WithVerifySkip(s.Verify.Skip...),
	}
}

// ParseMirrorFlip accepts none, flip, mirror and mirror-flip.
func ParseMirrorFlip(s string) (ov5647.MirrorFlip, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return ov5647.MirrorFlipNone, nil
	case "flip":
		return ov5647.Flip, nil
	case "mirror":
		return ov5647.Mirror, nil
	case "mirror-flip", "both":
		return ov5647.MirrorFlipBoth, nil
	}
	return 0, fmt.Errorf("invalid mirror_flip %q", s)
}
