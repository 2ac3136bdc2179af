package bridge

import (
	"context"
	"io"

	fx "github.com/moneytom/LD2412-Tools/pkg/framework"
)

// Direction identifies one side of the bridge.
type Direction int

const (
	// SensorToHost carries sensor output to the host.
	SensorToHost Direction = iota
	// HostToSensor carries host commands to the sensor.
	HostToSensor
)

// String implements Stringer.
func (d Direction) String() string {
	if d == HostToSensor {
		return "host-to-sensor"
	}
	return "sensor-to-host"
}

// ForwardedMsg reports forwarded bytes to the loop.
type ForwardedMsg struct {
	Dir Direction
	N   int
}

// NewMessage implements Message.
func (m *ForwardedMsg) NewMessage() fx.Message { return &ForwardedMsg{} }

// pump moves bytes from src to dst, one byte at a time. Each byte is
// written and flushed before the next read so forwarding order is the
// read order.
type pump struct {
	name string
	dir  Direction
	src  io.Reader
	dst  io.Writer
}

// Name implements Named.
func (p *pump) Name() string { return p.name }

// Run implements Runnable.
func (p *pump) Run(ctx context.Context) error {
	ctl := fx.LoopCtlFrom(ctx)
	run := func() error {
		buf := make([]byte, 1)
		for {
			n, err := p.src.Read(buf)
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			if _, err = p.dst.Write(buf[:n]); err != nil {
				return err
			}
			if err = flush(p.dst); err != nil {
				return err
			}
			ctl.PostMessage(&ForwardedMsg{Dir: p.dir, N: n})
		}
	}
	if closer, ok := p.src.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, run)
	}
	return fx.RunWithContext(ctx, run)
}
