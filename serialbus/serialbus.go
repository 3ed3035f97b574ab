// Package serialbus is an ov5647.Transport for USB-CDC register bridges: a
// microcontroller that exposes the sensor's SCCB bus through a text protocol
// on a virtual serial port.
//
// Every packet is framed as "   #" + length (4 hex digits) + command (4
// characters) + payload + checksum (4 characters). The length counts the
// command, the payload and the checksum. The bridge ignores the checksum of
// host packets, so "XXXX" is sent.
package serialbus

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// USB ids of the bridge firmware (RP2040 CDC).
const VENDOR_ID = "2E8A"

var PRODUCT_IDs = []string{"000A", "0009"}

const DefaultBaud = 115200

const (
	packetStart = "   #"
	noChecksum  = "XXXX"
)

// Bus talks to one bridge. It serializes transactions, so several devices
// behind the same bridge may share it.
type Bus struct {
	port io.ReadWriteCloser
	mu   sync.Mutex
}

// Open opens the bridge on portName, or autodetects it when portName is "".
func Open(portName string, baud int) (*Bus, error) {
	if portName == "" {
		var err error
		portName, err = FindPort()
		if err != nil {
			return nil, err
		}
		if portName == "" {
			return nil, fmt.Errorf("failed to open register bridge: no bridge found")
		}
	}
	if baud == 0 {
		baud = DefaultBaud
	}

	p, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open register bridge %s: %w", portName, err)
	}
	return newBus(p), nil
}

func newBus(port io.ReadWriteCloser) *Bus {
	return &Bus{port: port}
}

// Init drops anything the bridge sent before the port was opened.
func (b *Bus) Init() error {
	if b.port == nil {
		return fmt.Errorf("register bridge not open")
	}
	if p, ok := b.port.(serial.Port); ok {
		if err := p.ResetInputBuffer(); err != nil {
			return fmt.Errorf("failed to reset bridge input buffer: %w", err)
		}
	}
	return nil
}

// DeInit closes the port.
func (b *Bus) DeInit() error {
	return b.port.Close()
}

// WriteReg writes one register of the device at addr.
func (b *Bus) WriteReg(addr, reg uint16, value uint8) error {
	if err := checkAddress(addr); err != nil {
		return fmt.Errorf("failed to write register: %w", err)
	}
	_, err := b.sendCommand(fmt.Sprintf("WREG%02X%04X%02X", uint8(addr), reg, value))
	if err != nil {
		return fmt.Errorf("failed to write register: %w", err)
	}
	return nil
}

// ReadReg reads one register of the device at addr.
func (b *Bus) ReadReg(addr, reg uint16) (uint8, error) {
	if err := checkAddress(addr); err != nil {
		return 0, fmt.Errorf("failed to read register: %w", err)
	}
	response, err := b.sendCommand(fmt.Sprintf("RREG%02X%04X", uint8(addr), reg))
	if err != nil {
		return 0, fmt.Errorf("failed to read register: %w", err)
	}

	value, err := hex.DecodeString(string(response))
	if err != nil {
		return 0, fmt.Errorf("failed to decode register value: %w", err)
	}
	if len(value) != 1 {
		return 0, fmt.Errorf("failed to read register: invalid response length (%d)", len(value))
	}
	return value[0], nil
}

// The bridge carries one address byte per command.
func checkAddress(addr uint16) error {
	if addr > 0x7F {
		return fmt.Errorf("invalid device address 0x%X, must be a 7-bit address", addr)
	}
	return nil
}

// sendCommand sends cmd and returns the data of the first reply with the same
// command type. Other packets are discarded.
func (b *Bus) sendCommand(cmd string) ([]byte, error) {
	cmdType := cmd[0:4]
	cmd += noChecksum
	frame := fmt.Sprintf("%s%04X%s", packetStart, len(cmd), cmd)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.port.Write([]byte(frame)); err != nil {
		return nil, fmt.Errorf("failed to write to serial port: %w", err)
	}

	for {
		packetType, data, err := b.readPacket()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if packetType == cmdType {
			return data, nil
		}
		if packetType == "ERRO" {
			return nil, fmt.Errorf("bridge rejected %s: %s", cmdType, strings.TrimSpace(string(data)))
		}
	}
}

func (b *Bus) readPacket() (packetType string, data []byte, err error) {
	if err = b.syncPacket(); err != nil {
		return "", nil, fmt.Errorf("failed to read header from serial port: %w", err)
	}

	header := make([]byte, 8)
	if _, err = io.ReadFull(b.port, header); err != nil {
		return "", nil, fmt.Errorf("failed to read header from serial port: %w", err)
	}

	packetType = string(header[4:])

	length, err := hex.DecodeString(string(header[:4]))
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode packet length: %w", err)
	}
	packetLength := binary.BigEndian.Uint16(length)
	if packetLength < 8 {
		return "", nil, fmt.Errorf("invalid packet length %d", packetLength)
	}

	data = make([]byte, packetLength-8)
	if _, err = io.ReadFull(b.port, data); err != nil {
		return "", nil, fmt.Errorf("failed to read data from serial port: %w", err)
	}

	checksum := make([]byte, 4)
	if _, err = io.ReadFull(b.port, checksum); err != nil {
		return "", nil, fmt.Errorf("failed to read checksum from serial port: %w", err)
	}

	return packetType, data, nil
}

// syncPacket consumes bytes up to and including the next packet start.
func (b *Bus) syncPacket() error {
	c := make([]byte, 1)
	for matched := 0; matched < len(packetStart); {
		if _, err := io.ReadFull(b.port, c); err != nil {
			return err
		}
		switch {
		case c[0] == packetStart[matched]:
			matched++
		case c[0] == ' ':
			// Extra padding after three spaces still leaves a valid prefix.
		default:
			matched = 0
		}
	}
	return nil
}

// FindPort returns the first serial port with the bridge's USB ids, or "" if
// there is none.
func FindPort() (string, error) {
	portDetails, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("failed to autodetect register bridge: %w", err)
	}

	for _, port := range portDetails {
		if port.IsUSB && strings.EqualFold(port.VID, VENDOR_ID) && slices.ContainsFunc(PRODUCT_IDs, func(pid string) bool {
			return strings.EqualFold(pid, port.PID)
		}) {
			return port.Name, nil
		}
	}

	return "", nil
}
