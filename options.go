package ov5647

import (
	"time"

	"go.uber.org/zap"
)

// Config holds the driver options.
type Config struct {
	// Logger receives register traffic at debug level and verify mismatches
	// as warnings. Defaults to a no-op logger.
	Logger *zap.SugaredLogger

	// Sleep is the platform delay used for the reset, verify and PLL settle
	// delays. Defaults to time.Sleep.
	Sleep func(time.Duration)

	// VerifiedLoad makes Init program the mode table with WriteTableVerify
	// instead of the fast path.
	VerifiedLoad bool

	// VerifyRetries is the number of write/readback attempts per register in
	// verify mode.
	VerifyRetries int

	// StrictVerify turns a readback mismatch that survives all attempts into
	// a VerifyError. Otherwise the mismatch is only logged.
	StrictVerify bool

	// VerifySkip lists registers accepted without readback.
	VerifySkip []uint16
}

func defaultConfig() Config {
	return Config{
		Logger:        zap.NewNop().Sugar(),
		Sleep:         time.Sleep,
		VerifyRetries: VerifyRetries,
		VerifySkip:    append([]uint16(nil), defaultVerifySkip...),
	}
}

// Option is a functional option for configuring a Device.
type Option func(*Config)

// WithLogger sets the logger used by the driver.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithSleep replaces the platform delay.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Config) {
		if sleep != nil {
			c.Sleep = sleep
		}
	}
}

// WithVerifiedLoad makes Init use the write-verify path.
func WithVerifiedLoad(verify bool) Option {
	return func(c *Config) {
		c.VerifiedLoad = verify
	}
}

// WithVerifyRetries sets the attempts per register in verify mode. Values
// below 1 are ignored.
func WithVerifyRetries(retries int) Option {
	return func(c *Config) {
		if retries >= 1 {
			c.VerifyRetries = retries
		}
	}
}

// WithStrictVerify makes verify mismatches fail the table.
func WithStrictVerify(strict bool) Option {
	return func(c *Config) {
		c.StrictVerify = strict
	}
}

// WithVerifySkip adds registers to the verify-skip list.
func WithVerifySkip(addresses ...uint16) Option {
	return func(c *Config) {
		c.VerifySkip = append(c.VerifySkip, addresses...)
	}
}
