package mqtt

import (
	"context"

	"github.com/golang/glog"

	"github.com/moneytom/LD2412-Tools/pkg/telemetry"
)

// StatsTopic is the per-device topic suffix carrying window reports.
const StatsTopic = "/stats"

// Publisher publishes window reports to <prefix><device-id>/stats.
type Publisher struct {
	Queue    *Queue
	DeviceID string
}

// NewPublisher creates a Publisher over a broker URL.
// The URL path becomes the topic prefix, as in mqtt://host:1883/ld2412/.
func NewPublisher(brokerURL, deviceID string) (*Publisher, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if deviceID == "" {
		deviceID = telemetry.DeviceID()
	}
	return &Publisher{Queue: q, DeviceID: deviceID}, nil
}

// Topic gets the full topic suffix the publisher publishes to,
// relative to the queue's topic prefix.
func (p *Publisher) Topic() string {
	return p.DeviceID + StatsTopic
}

// HandleReport implements ReportHandler. The publish is fire and
// forget, the token is drained off the loop so a slow broker never
// stalls a report window.
func (p *Publisher) HandleReport(ctx context.Context, rep *telemetry.Report) {
	payload, err := rep.Encode()
	if err != nil {
		glog.Errorf("encode report: %v", err)
		return
	}
	topic := p.Topic()
	token := p.Queue.Pub(topic, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			glog.Warningf("publish %s: %v", topic, err)
		}
	}()
}

// Run implements Runnable. It keeps the broker connection alive for
// the lifetime of the loop.
func (p *Publisher) Run(ctx context.Context) error {
	token := p.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	defer p.Queue.Close()
	<-ctx.Done()
	return ctx.Err()
}
