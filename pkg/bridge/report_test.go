package bridge

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/moneytom/LD2412-Tools/pkg/framework"
	"github.com/moneytom/LD2412-Tools/pkg/telemetry"
)

// testControlCtx is a minimal ControlContext driving the Reporter
// directly, without a running loop.
type testControlCtx struct {
	now  time.Time
	msgs []fx.Message
}

func (c *testControlCtx) Time() time.Time          { return c.now }
func (c *testControlCtx) Context() context.Context { return context.Background() }
func (c *testControlCtx) PriorityLevel() int       { return fx.PrLvNormal }
func (c *testControlCtx) Messages() fx.MessageStore {
	return c
}
func (c *testControlCtx) PostMessage(msg fx.Message)     { c.msgs = append(c.msgs, msg) }
func (c *testControlCtx) TriggerNext()                   {}
func (c *testControlCtx) AddMessages(msgs ...fx.Message) { c.msgs = append(c.msgs, msgs...) }

func (c *testControlCtx) ProcessMessages(proc fx.MessageProcessor) {
	var remains []fx.Message
	for _, msg := range c.msgs {
		mc := &testMsgCtx{store: c, msg: msg}
		proc.ProcessMessage(mc)
		if !mc.taken {
			remains = append(remains, msg)
		}
	}
	c.msgs = remains
}

type testMsgCtx struct {
	store *testControlCtx
	msg   fx.Message
	taken bool
}

func (c *testMsgCtx) CurrentMessage() fx.Message     { return c.msg }
func (c *testMsgCtx) MessageTaken()                  { c.taken = true }
func (c *testMsgCtx) AddMessages(msgs ...fx.Message) { c.store.AddMessages(msgs...) }

type reporterTestCtx struct {
	t        *testing.T
	reporter *Reporter
	ctl      *testControlCtx
	reports  []*telemetry.Report
}

func newReporterTest(t *testing.T) *reporterTestCtx {
	tctx := &reporterTestCtx{
		t:        t,
		reporter: &Reporter{Interval: 5 * time.Second, Device: "test"},
		ctl:      &testControlCtx{now: time.Unix(1000, 0)},
	}
	tctx.reporter.AddHandlers(telemetry.HandleReportFunc(
		func(_ context.Context, rep *telemetry.Report) {
			tctx.reports = append(tctx.reports, rep)
		}))
	return tctx
}

func (c *reporterTestCtx) forward(dir Direction, n int) *reporterTestCtx {
	c.ctl.PostMessage(&ForwardedMsg{Dir: dir, N: n})
	return c
}

func (c *reporterTestCtx) tick(advance time.Duration) *reporterTestCtx {
	c.ctl.now = c.ctl.now.Add(advance)
	require.NoError(c.t, c.reporter.Control(c.ctl))
	return c
}

func (c *reporterTestCtx) expectNoReport() *reporterTestCtx {
	require.Empty(c.t, c.reports)
	return c
}

func (c *reporterTestCtx) expectReport() *telemetry.Report {
	require.NotEmpty(c.t, c.reports)
	rep := c.reports[0]
	c.reports = c.reports[1:]
	return rep
}

func TestReporterWindow(t *testing.T) {
	c := newReporterTest(t)
	c.tick(0) // first iteration only arms the window
	c.forward(SensorToHost, 1).forward(SensorToHost, 1).tick(time.Second).expectNoReport()
	c.forward(SensorToHost, 1).tick(3 * time.Second).expectNoReport()
	c.tick(2 * time.Second)

	rep := c.expectReport()
	require.Equal(t, uint64(3), rep.Bytes)
	require.Equal(t, uint64(3), rep.TotalBytes)
	require.Equal(t, uint64(1), rep.Windows)
	require.False(t, rep.Hint)
	require.Equal(t, "test", rep.Device)
	require.InDelta(t, 6.0, rep.WindowSeconds, 0.001)
}

func TestReporterCounterResets(t *testing.T) {
	c := newReporterTest(t)
	c.tick(0)
	c.forward(SensorToHost, 5).tick(6 * time.Second)
	require.Equal(t, uint64(5), c.expectReport().Bytes)

	c.forward(SensorToHost, 2).tick(6 * time.Second)
	rep := c.expectReport()
	require.Equal(t, uint64(2), rep.Bytes)
	require.Equal(t, uint64(7), rep.TotalBytes)
	require.Equal(t, uint64(2), rep.Windows)
}

func TestReporterHintOnSilence(t *testing.T) {
	c := newReporterTest(t)
	c.tick(0).tick(6 * time.Second)
	rep := c.expectReport()
	require.Equal(t, uint64(0), rep.Bytes)
	require.True(t, rep.Hint)

	// host-direction traffic alone does not suppress the hint
	c.forward(HostToSensor, 4).tick(6 * time.Second)
	rep = c.expectReport()
	require.True(t, rep.Hint)
	require.Equal(t, uint64(4), rep.HostBytes)
	require.Equal(t, uint64(4), rep.TotalHostBytes)
}

func TestReporterExactIntervalNotElapsed(t *testing.T) {
	c := newReporterTest(t)
	c.tick(0)
	// the source reports strictly after the interval, not at it
	c.tick(5 * time.Second).expectNoReport()
	c.tick(time.Millisecond)
	c.expectReport()
}

func TestReporterLegacyOut(t *testing.T) {
	var out bytes.Buffer
	c := newReporterTest(t)
	c.reporter.LegacyOut = &out
	c.tick(0)
	c.forward(SensorToHost, 3).tick(6 * time.Second)
	require.Equal(t, "bytes received: 3\n", out.String())

	out.Reset()
	c.tick(6 * time.Second)
	text := out.String()
	require.True(t, strings.HasPrefix(text, "bytes received: 0\n"))
	require.Contains(t, text, "power supply")
	require.Contains(t, text, "wiring")
	require.Contains(t, text, "module health")
	require.Equal(t, 5, strings.Count(text, "\n"))
}

type otherMsg struct{}

func (m *otherMsg) NewMessage() fx.Message { return &otherMsg{} }

func TestReporterIgnoresForeignMessages(t *testing.T) {
	c := newReporterTest(t)
	c.tick(0)
	c.ctl.PostMessage(&otherMsg{})
	c.forward(SensorToHost, 1).tick(6 * time.Second)
	require.Equal(t, uint64(1), c.expectReport().Bytes)
	// foreign message stays in the store for other controllers
	require.Len(t, c.ctl.msgs, 1)
}
