// Package bridge relays raw bytes between an LD2412 radar module and
// the host computer. Each byte is forwarded independently and
// immediately, with no framing, batching or checksum. The only
// diagnostics are the startup banner and the periodic byte-count
// report owned by the Reporter.
package bridge

import (
	"fmt"
	"io"

	"github.com/golang/glog"

	fx "github.com/moneytom/LD2412-Tools/pkg/framework"
)

// Flusher waits until buffered output is fully transmitted.
type Flusher interface {
	Flush() error
}

// InputDiscarder drops input already buffered on the receive side.
type InputDiscarder interface {
	DiscardInput() error
}

// Wiring describes the attached devices for the banner.
type Wiring struct {
	HostDevice     string
	SensorRxDevice string
	SensorTxDevice string
	BaudRate       int
}

// Bridge owns the three channels and the reporting window.
type Bridge struct {
	Host     io.ReadWriter
	SensorRx io.Reader
	SensorTx io.Writer

	Wiring Wiring

	// LegacyBanner additionally writes the banner and reports into
	// the host data stream, as the original firmware did. This
	// corrupts any binary protocol being forwarded and is off by
	// default.
	LegacyBanner bool

	Reporter Reporter
}

// New creates a Bridge over the given channels.
func New(host io.ReadWriter, sensorRx io.Reader, sensorTx io.Writer) *Bridge {
	return &Bridge{
		Host:     host,
		SensorRx: sensorRx,
		SensorTx: sensorTx,
		Reporter: Reporter{Interval: DefaultReportInterval},
	}
}

// Start drops stale input on both receive channels and announces the
// bridge. Must be called before the loop starts forwarding, so a
// buffered stale byte is never reported as a first reading.
func (b *Bridge) Start() error {
	if err := discardInput(b.Host); err != nil {
		return fmt.Errorf("discard host input: %v", err)
	}
	if err := discardInput(b.SensorRx); err != nil {
		return fmt.Errorf("discard sensor input: %v", err)
	}
	for _, line := range b.bannerLines() {
		glog.Info(line)
		if b.LegacyBanner {
			if _, err := fmt.Fprintln(b.Host, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (b *Bridge) AddToLoop(loop *fx.Loop) {
	if b.LegacyBanner {
		b.Reporter.LegacyOut = b.Host
	}
	loop.AddRunnable(
		&pump{name: "sensor-to-host", dir: SensorToHost, src: b.SensorRx, dst: b.Host},
		&pump{name: "host-to-sensor", dir: HostToSensor, src: b.Host, dst: b.SensorTx},
	)
	loop.AddController(fx.PrLvNormal, &b.Reporter)
}

func (b *Bridge) bannerLines() []string {
	w := b.Wiring
	return []string{
		"LD2412 serial bridge started",
		fmt.Sprintf("wiring: LD2412 TX -> %s (receive), LD2412 RX <- %s (transmit), host <-> %s",
			w.SensorRxDevice, w.SensorTxDevice, w.HostDevice),
		fmt.Sprintf("baud rate: %d bps", w.BaudRate),
		"waiting for LD2412 data...",
	}
}

func flush(w io.Writer) error {
	if f, ok := w.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func discardInput(r io.Reader) error {
	if d, ok := r.(InputDiscarder); ok {
		return d.DiscardInput()
	}
	return nil
}
