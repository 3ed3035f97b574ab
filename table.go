package ov5647

import (
	"fmt"
	"slices"
)

// RegisterWrite is a single entry of a register program.
type RegisterWrite struct {
	Address uint16
	Value   uint8
}

// RegisterTable is an ordered register program. Order is significant.
type RegisterTable []RegisterWrite

// WriteTable applies every entry in order and stops at the first bus error.
// Registers written before the failure stay written.
func (d *Device) WriteTable(table RegisterTable) error {
	for _, w := range table {
		if err := d.writeAddress(w.Address, w.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteTableVerify is the slow diagnostic path: every register is written,
// read back and given time to settle. A soft reset is followed by ResetDelay
// without readback, registers on the verify-skip list are not read back and
// the PLL multiplier gets PLLSettleDelay before the next write.
//
// A register that still reads back a different value after VerifyRetries
// attempts is logged; it only fails the table with StrictVerify.
func (d *Device) WriteTableVerify(table RegisterTable) error {
	for _, w := range table {
		if err := d.writeVerify(w); err != nil {
			return err
		}
		if w.Address == PLL_MULT.Address {
			d.config.Sleep(PLLSettleDelay)
		}
	}
	return nil
}

func (d *Device) writeVerify(w RegisterWrite) error {
	var read uint8
	attempts := d.config.VerifyRetries
	for attempt := 1; attempt <= attempts; attempt++ {
		d.log.Debugw("write register", "reg", fmt.Sprintf("0x%04X", w.Address), "value", fmt.Sprintf("0x%02X", w.Value), "attempt", attempt)
		if err := d.writeAddress(w.Address, w.Value); err != nil {
			return err
		}

		// The sensor is mid-reset, a readback would be meaningless.
		if w.Address == SW_RESET.Address {
			d.config.Sleep(ResetDelay)
			return nil
		}

		if slices.Contains(d.config.VerifySkip, w.Address) {
			return nil
		}

		var err error
		read, err = d.readAddress(w.Address)
		if err != nil {
			return err
		}
		d.log.Debugw("read register", "reg", fmt.Sprintf("0x%04X", w.Address), "value", fmt.Sprintf("0x%02X", read))

		d.config.Sleep(VerifyDelay)

		if read == w.Value {
			return nil
		}
	}

	d.log.Warnw("register verify mismatch",
		"reg", fmt.Sprintf("0x%04X", w.Address),
		"wrote", fmt.Sprintf("0x%02X", w.Value),
		"read", fmt.Sprintf("0x%02X", read),
		"attempts", attempts,
	)
	if d.config.StrictVerify {
		return &VerifyError{Address: w.Address, Wrote: w.Value, Read: read, Attempts: attempts}
	}
	return nil
}

// ReadTable reads back every register named in table and returns the live
// values in the same order. Entries for the soft reset register are skipped.
func (d *Device) ReadTable(table RegisterTable) (RegisterTable, error) {
	live := make(RegisterTable, 0, len(table))
	for _, w := range table {
		if w.Address == SW_RESET.Address {
			continue
		}
		value, err := d.readAddress(w.Address)
		if err != nil {
			return nil, err
		}
		live = append(live, RegisterWrite{Address: w.Address, Value: value})
	}
	return live, nil
}

// Diff returns the entries of want whose value differs from the entry with
// the same address in got.
func (want RegisterTable) Diff(got RegisterTable) []RegisterWrite {
	values := make(map[uint16]uint8, len(got))
	for _, w := range got {
		values[w.Address] = w.Value
	}

	// Later writes to the same register win.
	final := make(map[uint16]uint8, len(want))
	order := make([]uint16, 0, len(want))
	for _, w := range want {
		if _, ok := final[w.Address]; !ok {
			order = append(order, w.Address)
		}
		final[w.Address] = w.Value
	}

	var diff []RegisterWrite
	for _, addr := range order {
		if v, ok := values[addr]; ok && v != final[addr] {
			diff = append(diff, RegisterWrite{Address: addr, Value: final[addr]})
		}
	}
	return diff
}
