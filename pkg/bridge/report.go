package bridge

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/moneytom/LD2412-Tools/pkg/framework"
	"github.com/moneytom/LD2412-Tools/pkg/telemetry"
)

// DefaultReportInterval matches the firmware's 5 second statistics window.
const DefaultReportInterval = 5 * time.Second

var hintLines = []string{
	"hint: no data received, check:",
	"  1. LD2412 power supply (3.3V)",
	"  2. receive pin wiring",
	"  3. LD2412 module health",
}

// Reporter owns the reporting window: the byte counters and the
// last-report timestamp live here and nowhere else. It consumes
// ForwardedMsg from the loop and emits a report once per interval,
// resetting the window counters afterwards.
type Reporter struct {
	Interval time.Duration
	Device   string
	Handlers []telemetry.ReportHandler

	// LegacyOut interleaves report text with the host data stream,
	// replicating the original firmware. Leave nil to keep the
	// forwarded stream clean.
	LegacyOut io.Writer

	count      uint64
	hostCount  uint64
	total      uint64
	hostTotal  uint64
	windows    uint64
	lastReport time.Time
}

// AddHandlers registers report handlers.
func (r *Reporter) AddHandlers(handlers ...telemetry.ReportHandler) *Reporter {
	r.Handlers = append(r.Handlers, handlers...)
	return r
}

// Control implements Controller.
func (r *Reporter) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(r.takeForwarded))
	interval := r.Interval
	if interval == 0 {
		interval = DefaultReportInterval
	}
	if r.lastReport.IsZero() {
		r.lastReport = cc.Time()
		return nil
	}
	if cc.Time().Sub(r.lastReport) <= interval {
		return nil
	}
	rep := r.closeWindow(cc.Time())
	r.print(rep)
	for _, h := range r.Handlers {
		h.HandleReport(cc.Context(), rep)
	}
	return nil
}

func (r *Reporter) takeForwarded(mc fx.MessageProcessingContext) {
	msg, ok := mc.CurrentMessage().(*ForwardedMsg)
	if !ok {
		return
	}
	mc.MessageTaken()
	switch msg.Dir {
	case SensorToHost:
		r.count += uint64(msg.N)
		r.total += uint64(msg.N)
	case HostToSensor:
		r.hostCount += uint64(msg.N)
		r.hostTotal += uint64(msg.N)
	}
}

func (r *Reporter) closeWindow(now time.Time) *telemetry.Report {
	r.windows++
	rep := &telemetry.Report{
		Device:         r.Device,
		Time:           now,
		WindowSeconds:  now.Sub(r.lastReport).Seconds(),
		Bytes:          r.count,
		HostBytes:      r.hostCount,
		TotalBytes:     r.total,
		TotalHostBytes: r.hostTotal,
		Windows:        r.windows,
		Hint:           r.count == 0,
	}
	r.count, r.hostCount = 0, 0
	r.lastReport = now
	return rep
}

func (r *Reporter) print(rep *telemetry.Report) {
	glog.Infof("bytes received: %d", rep.Bytes)
	if r.LegacyOut != nil {
		fmt.Fprintf(r.LegacyOut, "bytes received: %d\n", rep.Bytes)
	}
	if !rep.Hint {
		return
	}
	for _, line := range hintLines {
		glog.Info(line)
		if r.LegacyOut != nil {
			fmt.Fprintln(r.LegacyOut, line)
		}
	}
}
