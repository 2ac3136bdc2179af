// Package serial opens the physical ports the bridge forwards between.
package serial

import (
	"fmt"
	"time"

	goserial "go.bug.st/serial"
)

// DefaultBaudRate matches the fixed rate of the LD2412 module.
const DefaultBaudRate = 115200

// Port is an opened serial device.
type Port struct {
	device string
	port   goserial.Port
}

// Open opens a serial device in 8-N-1 mode at the given baud rate.
func Open(device string, baudRate int) (*Port, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	mode := &goserial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}
	p, err := goserial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", device, err)
	}
	return &Port{device: device, port: p}, nil
}

// Device gets the device path the port was opened from.
func (p *Port) Device() string {
	return p.device
}

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close implements io.Closer.
func (p *Port) Close() error {
	return p.port.Close()
}

// Flush waits until all buffered output is transmitted.
func (p *Port) Flush() error {
	return p.port.Drain()
}

// DiscardInput drops bytes already buffered on the receive side.
func (p *Port) DiscardInput() error {
	return p.port.ResetInputBuffer()
}

// SetReadTimeout bounds Read calls; a negative value restores
// blocking reads.
func (p *Port) SetReadTimeout(d time.Duration) error {
	if d < 0 {
		return p.port.SetReadTimeout(goserial.NoTimeout)
	}
	return p.port.SetReadTimeout(d)
}

// List enumerates serial devices present on the system.
func List() ([]string, error) {
	return goserial.GetPortsList()
}
