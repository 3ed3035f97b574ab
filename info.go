package ov5647

import "fmt"

// Driver is the dispatch surface the camera layer selects sensors through.
// Controls a sensor doesn't implement return an error wrapping
// errors.ErrUnsupported.
type Driver interface {
	Init(resolution Resolution, format PixelFormat) error
	DeInit() error
	ReadID() (uint32, error)
	GetCapabilities() Capabilities
	SetLightMode(mode uint32) error
	SetColorEffect(effect uint32) error
	SetBrightness(level int32) error
	SetSaturation(level int32) error
	SetContrast(level int32) error
	SetHueDegree(degree int32) error
	MirrorFlipConfig(config MirrorFlip) error
	ZoomConfig(zoom uint32) error
	SetResolution(resolution Resolution) error
	GetResolution() (Resolution, error)
	SetPixelFormat(format PixelFormat) error
	GetPixelFormat() (PixelFormat, error)
	NightModeConfig(config uint32) error
	SetFrequency(frequency int32) error
	SetGain(mdb int32) error
	SetExposure(us int32) error
	SetExposureMode(mode int32) error
	GetSensorInfo() SensorInfo
	SetTestPattern(mode int32) error
}

var _ Driver = (*Device)(nil)

// Control names a slot of the Driver surface.
type Control int

const (
	ControlResolution Control = iota
	ControlLightMode
	ControlSpecialEffect
	ControlBrightness
	ControlSaturation
	ControlContrast
	ControlHueDegree
	ControlGain
	ControlExposure
	ControlMirrorFlip
	ControlZoom
	ControlNightMode
	ControlExposureMode
	ControlSensorInfo
	ControlTestPattern
	ControlColorEffect
)

var controlNames = map[Control]string{
	ControlResolution:    "resolution",
	ControlLightMode:     "light mode",
	ControlSpecialEffect: "special effect",
	ControlBrightness:    "brightness",
	ControlSaturation:    "saturation",
	ControlContrast:      "contrast",
	ControlHueDegree:     "hue degree",
	ControlGain:          "gain",
	ControlExposure:      "exposure",
	ControlMirrorFlip:    "mirror/flip",
	ControlZoom:          "zoom",
	ControlNightMode:     "night mode",
	ControlExposureMode:  "exposure mode",
	ControlSensorInfo:    "sensor info",
	ControlTestPattern:   "test pattern",
	ControlColorEffect:   "color effect",
}

func (c Control) String() string {
	if name, ok := controlNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Control(%d)", int(c))
}

// Capabilities lists the controls a sensor supports.
type Capabilities struct {
	Resolution    bool
	LightMode     bool
	SpecialEffect bool
	Brightness    bool
	Saturation    bool
	Contrast      bool
	HueDegree     bool
	Gain          bool
	Exposure      bool
	MirrorFlip    bool
	Zoom          bool
	NightMode     bool
	ExposureMode  bool
	SensorInfo    bool
	TestPattern   bool
	ColorEffect   bool
}

// Supports reports whether control is implemented.
func (c Capabilities) Supports(control Control) bool {
	switch control {
	case ControlResolution:
		return c.Resolution
	case ControlLightMode:
		return c.LightMode
	case ControlSpecialEffect:
		return c.SpecialEffect
	case ControlBrightness:
		return c.Brightness
	case ControlSaturation:
		return c.Saturation
	case ControlContrast:
		return c.Contrast
	case ControlHueDegree:
		return c.HueDegree
	case ControlGain:
		return c.Gain
	case ControlExposure:
		return c.Exposure
	case ControlMirrorFlip:
		return c.MirrorFlip
	case ControlZoom:
		return c.Zoom
	case ControlNightMode:
		return c.NightMode
	case ControlExposureMode:
		return c.ExposureMode
	case ControlSensorInfo:
		return c.SensorInfo
	case ControlTestPattern:
		return c.TestPattern
	case ControlColorEffect:
		return c.ColorEffect
	}
	return false
}

// GetCapabilities returns the controls implemented by the OV5647 driver.
func (d *Device) GetCapabilities() Capabilities {
	return Capabilities{
		Gain:        true,
		Exposure:    true,
		MirrorFlip:  true,
		SensorInfo:  true,
		TestPattern: true,
	}
}

// SensorInfo describes the sensor and the ranges SetGain and SetExposure accept.
type SensorInfo struct {
	Name         string
	BayerPattern uint8
	ColorDepth   uint8
	Width        uint32
	Height       uint32
	GainMin      uint32 // mdB
	GainMax      uint32 // mdB
	ExposureMin  uint32 // us
	ExposureMax  uint32 // us
}

func (d *Device) GetSensorInfo() SensorInfo {
	return SensorInfo{
		Name:         SensorName,
		BayerPattern: BayerRGGB,
		ColorDepth:   ColorDepth,
		Width:        SensorWidth,
		Height:       SensorHeight,
		GainMin:      GainMinMdB,
		GainMax:      GainMaxMdB,
		ExposureMin:  ExposureMinUS,
		ExposureMax:  ExposureMaxUS,
	}
}

func unsupported(slot string) error {
	return fmt.Errorf("%s: %w", slot, ErrUnsupported)
}

func (d *Device) SetLightMode(mode uint32) error      { return unsupported("light mode") }
func (d *Device) SetColorEffect(effect uint32) error  { return unsupported("color effect") }
func (d *Device) SetBrightness(level int32) error     { return unsupported("brightness") }
func (d *Device) SetSaturation(level int32) error     { return unsupported("saturation") }
func (d *Device) SetContrast(level int32) error       { return unsupported("contrast") }
func (d *Device) SetHueDegree(degree int32) error     { return unsupported("hue degree") }
func (d *Device) ZoomConfig(zoom uint32) error        { return unsupported("zoom") }
func (d *Device) NightModeConfig(config uint32) error { return unsupported("night mode") }
func (d *Device) SetFrequency(frequency int32) error  { return unsupported("frequency") }
func (d *Device) SetExposureMode(mode int32) error    { return unsupported("exposure mode") }

// The mode is fixed at Init, so resolution and pixel format can't be
// changed or queried through these slots.

func (d *Device) SetResolution(resolution Resolution) error {
	return unsupported("set resolution")
}

func (d *Device) GetResolution() (Resolution, error) {
	return 0, unsupported("get resolution")
}

func (d *Device) SetPixelFormat(format PixelFormat) error {
	return unsupported("set pixel format")
}

func (d *Device) GetPixelFormat() (PixelFormat, error) {
	return 0, unsupported("get pixel format")
}
