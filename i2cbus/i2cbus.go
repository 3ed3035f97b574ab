// Package i2cbus is an ov5647.Transport over a periph.io I²C bus. Registers
// are addressed with a big-endian 16-bit index followed by the data byte.
package i2cbus

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultSpeed is the SCCB fast mode clock.
const DefaultSpeed = 400 * physic.KiloHertz

// Bus is a register transport on top of an i2c.Bus.
type Bus struct {
	bus    i2c.Bus
	closer io.Closer
	speed  physic.Frequency
}

// New wraps an already opened bus. A zero speed leaves the bus clock alone.
func New(bus i2c.Bus, speed physic.Frequency) *Bus {
	return &Bus{bus: bus, speed: speed}
}

// Open initializes the host drivers and opens the named bus ("" for the
// first one available, or e.g. "/dev/i2c-1" or "1").
func Open(name string, speed physic.Frequency) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", name, err)
	}
	b := New(bc, speed)
	b.closer = bc
	return b, nil
}

// Init sets the bus clock.
func (b *Bus) Init() error {
	if b.bus == nil {
		return fmt.Errorf("no I2C bus")
	}
	if b.speed > 0 {
		if err := b.bus.SetSpeed(b.speed); err != nil {
			return fmt.Errorf("failed to set I2C speed to %s: %w", b.speed, err)
		}
	}
	return nil
}

// DeInit closes the bus if Open created it.
func (b *Bus) DeInit() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// WriteReg writes one register of the device at addr.
func (b *Bus) WriteReg(addr, reg uint16, value uint8) error {
	dev := i2c.Dev{Bus: b.bus, Addr: addr}
	if err := dev.Tx([]byte{byte(reg >> 8), byte(reg), value}, nil); err != nil {
		return fmt.Errorf("i2c write 0x%02X/0x%04X: %w", addr, reg, err)
	}
	return nil
}

// ReadReg reads one register of the device at addr.
func (b *Bus) ReadReg(addr, reg uint16) (uint8, error) {
	dev := i2c.Dev{Bus: b.bus, Addr: addr}
	r := make([]byte, 1)
	if err := dev.Tx([]byte{byte(reg >> 8), byte(reg)}, r); err != nil {
		return 0, fmt.Errorf("i2c read 0x%02X/0x%04X: %w", addr, reg, err)
	}
	return r[0], nil
}

func (b *Bus) String() string {
	if b.bus == nil {
		return "i2cbus(nil)"
	}
	return b.bus.String()
}
