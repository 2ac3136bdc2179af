package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReportEncoding(t *testing.T) {
	rep := &Report{
		Device:        "bench",
		Time:          time.Unix(1700000000, 0).UTC(),
		WindowSeconds: 5.0,
		Bytes:         42,
		TotalBytes:    100,
		Windows:       3,
	}
	payload, err := rep.Encode()
	require.NoError(t, err)
	require.Contains(t, string(payload), `"bytes":42`)
	require.NotContains(t, string(payload), `"hint"`)

	decoded, err := DecodeReport(payload)
	require.NoError(t, err)
	require.Equal(t, rep, decoded)

	_, err = DecodeReport([]byte("not json"))
	require.Error(t, err)
}

func TestFeedFanOut(t *testing.T) {
	feed := NewFeed(":0")
	fast := make(chan []byte, 4)
	slow := make(chan []byte) // nobody draining
	feed.clients[fast] = struct{}{}
	feed.clients[slow] = struct{}{}

	rep := &Report{Bytes: 7}
	feed.HandleReport(context.Background(), rep)

	select {
	case payload := <-fast:
		decoded, err := DecodeReport(payload)
		require.NoError(t, err)
		require.Equal(t, uint64(7), decoded.Bytes)
	default:
		t.Fatal("fast client got no report")
	}
	// the slow client misses the report instead of blocking the loop
	require.Empty(t, slow)
}
