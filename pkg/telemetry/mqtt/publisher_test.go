package mqtt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/moneytom/LD2412-Tools/pkg/telemetry"
)

func TestPublisherTopic(t *testing.T) {
	q, err := NewQueueFromURL("mqtt://localhost:1883/ld2412/")
	require.NoError(t, err)
	p := &Publisher{Queue: q, DeviceID: "bench"}
	require.Equal(t, "bench/stats", p.Topic())
}

func TestPublisherHandleReport(t *testing.T) {
	fc := &fakeClient{}
	p := &Publisher{
		Queue:    &Queue{Client: fc, TopicPrefix: "ld2412/"},
		DeviceID: "bench",
	}
	p.HandleReport(context.Background(), &telemetry.Report{Bytes: 7})

	require.Len(t, fc.pubs, 1)
	require.Equal(t, "ld2412/bench/stats", fc.pubs[0].topic)
	rep, err := telemetry.DecodeReport(fc.pubs[0].payload)
	require.NoError(t, err)
	require.Equal(t, uint64(7), rep.Bytes)
}

func TestPublisherAwaitsToken(t *testing.T) {
	fc := &fakeClient{pubErr: errors.New("broker gone")}
	p := &Publisher{
		Queue:    &Queue{Client: fc, TopicPrefix: "ld2412/"},
		DeviceID: "bench",
	}
	p.HandleReport(context.Background(), &telemetry.Report{Bytes: 7})

	require.Len(t, fc.pubs, 1)
	token := fc.pubs[0].token
	require.Eventually(t, token.Waited, time.Second, 10*time.Millisecond)
}
