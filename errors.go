package ov5647

import (
	"errors"
	"fmt"
)

var (
	// ErrBus is wrapped by every failed register transaction.
	ErrBus = errors.New("register bus error")

	// ErrBusInit is returned by New when the transport can't be bound or initialized.
	ErrBusInit = errors.New("register bus init failed")

	// ErrIdentity is wrapped by IdentityError.
	ErrIdentity = errors.New("unexpected chip id")

	ErrUnsupportedResolution = errors.New("unsupported resolution")
	ErrTimingNotReady        = errors.New("timing cache not populated, no mode loaded")
	ErrNotInitialized        = errors.New("sensor not initialized")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrReadOnly              = errors.New("register is read-only")

	// ErrUnsupported marks the driver slots OV5647 does not implement.
	ErrUnsupported = fmt.Errorf("not supported by %s: %w", SensorName, errors.ErrUnsupported)
)

// IdentityError is returned by Init when the chip id read from the sensor
// doesn't match CHIP_ID.
type IdentityError struct {
	Expected uint32
	Actual   uint32
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("chip id mismatch: expected 0x%04X, sensor reports 0x%04X", e.Expected, e.Actual)
}

func (e *IdentityError) Unwrap() error {
	return ErrIdentity
}

// VerifyError is returned by WriteTableVerify in strict mode when a register
// still reads back a different value after all attempts.
type VerifyError struct {
	Address  uint16
	Wrote    uint8
	Read     uint8
	Attempts int
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify failed for register 0x%04X: wrote 0x%02X, read 0x%02X after %d attempts",
		e.Address, e.Wrote, e.Read, e.Attempts)
}
