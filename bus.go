package ov5647

import "fmt"

// IO binds the driver to a register bus. ReadReg and WriteReg receive the
// device address followed by the 16-bit register address. Init runs once
// when the Device is created; DeInit runs on Close.
type IO struct {
	Init     func() error
	DeInit   func() error
	Address  uint16
	ReadReg  func(addr, reg uint16) (uint8, error)
	WriteReg func(addr, reg uint16, value uint8) error
}

// Transport is a register bus shared by one or more devices, such as
// i2cbus.Bus or serialbus.Bus.
type Transport interface {
	Init() error
	DeInit() error
	ReadReg(addr, reg uint16) (uint8, error)
	WriteReg(addr, reg uint16, value uint8) error
}

// TransportIO binds t to the device at addr.
func TransportIO(t Transport, addr uint16) IO {
	return IO{
		Init:     t.Init,
		DeInit:   t.DeInit,
		Address:  addr,
		ReadReg:  t.ReadReg,
		WriteReg: t.WriteReg,
	}
}

func (d *Device) writeRegister(reg register, value uint8) error {
	if reg.ReadOnly {
		return fmt.Errorf("failed to write register 0x%04X: %w", reg.Address, ErrReadOnly)
	}
	return d.writeAddress(reg.Address, value)
}

func (d *Device) readRegister(reg register) (uint8, error) {
	return d.readAddress(reg.Address)
}

func (d *Device) writeAddress(addr uint16, value uint8) error {
	if err := d.io.WriteReg(d.io.Address, addr, value); err != nil {
		return fmt.Errorf("failed to write register 0x%04X: %w: %w", addr, ErrBus, err)
	}
	return nil
}

func (d *Device) readAddress(addr uint16) (uint8, error) {
	value, err := d.io.ReadReg(d.io.Address, addr)
	if err != nil {
		return 0, fmt.Errorf("failed to read register 0x%04X: %w: %w", addr, ErrBus, err)
	}
	return value, nil
}
