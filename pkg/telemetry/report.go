// Package telemetry carries window reports out of the bridge without
// touching the forwarded byte stream.
package telemetry

import (
	"context"
	"encoding/json"
	"time"
)

// Report is the record of one reporting window.
type Report struct {
	Device         string    `json:"device,omitempty"`
	Time           time.Time `json:"time"`
	WindowSeconds  float64   `json:"window_seconds"`
	Bytes          uint64    `json:"bytes"`
	HostBytes      uint64    `json:"host_bytes"`
	TotalBytes     uint64    `json:"total_bytes"`
	TotalHostBytes uint64    `json:"total_host_bytes"`
	Windows        uint64    `json:"windows"`
	Hint           bool      `json:"hint,omitempty"`
}

// Encode encodes the report as a single JSON line.
func (r *Report) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeReport decodes an encoded report.
func DecodeReport(data []byte) (*Report, error) {
	rep := &Report{}
	if err := json.Unmarshal(data, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// ReportHandler receives completed window reports.
type ReportHandler interface {
	HandleReport(context.Context, *Report)
}

// HandleReportFunc is func type of ReportHandler.
type HandleReportFunc func(context.Context, *Report)

// HandleReport implements ReportHandler.
func (f HandleReportFunc) HandleReport(ctx context.Context, rep *Report) {
	f(ctx, rep)
}
