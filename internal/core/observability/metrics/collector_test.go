package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/raidbot/internal/agent"
	"github.com/zeusync/raidbot/internal/core/bt"
	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/events"
)

func report() agent.FrameReport {
	return agent.FrameReport{
		Frame:     1,
		Decision:  decision.Decision{Action: decision.ActionFlee, Priority: decision.PriorityCritical},
		Status:    bt.StatusSuccess,
		State:     decision.StateFleeing,
		Health:    42,
		Hunger:    70,
		Threats:   2,
		Resources: 1,
		Duration:  3 * time.Millisecond,
	}
}

func TestCollectorFromBus(t *testing.T) {
	c := New()
	bus := events.New()
	require.NoError(t, c.Attach(bus))

	require.NoError(t, bus.Publish(events.NewEvent(events.FrameProcessed, "test", report())))
	require.NoError(t, bus.Publish(events.NewEvent(events.StateChanged, "test", agent.StateChange{
		From: decision.StateIdle, To: decision.StateFleeing,
	})))
	require.NoError(t, bus.Publish(events.NewEvent(events.PerceptionRejected, "test", agent.Rejection{})))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.frames))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("flee", "CRITICAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.treeStatus.WithLabelValues("success")))
	assert.Equal(t, 42.0, testutil.ToFloat64(c.health))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.threats))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.state.WithLabelValues("fleeing")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.state.WithLabelValues("idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.stateChanges.WithLabelValues("idle", "fleeing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejected))
	assert.Equal(t, 1, testutil.CollectAndCount(c.frameDuration))

	c.Detach()
	require.NoError(t, bus.Publish(events.NewEvent(events.FrameProcessed, "test", report())))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.frames))
}

func TestCollectorCountsHandlerErrors(t *testing.T) {
	c := New()
	bus := events.New()
	require.NoError(t, c.Attach(bus))
	_, err := bus.Subscribe(events.FrameProcessed, func(events.Event) error { return errors.New("sink down") })
	require.NoError(t, err)

	assert.Error(t, bus.Publish(events.NewEvent(events.FrameProcessed, "test", report())))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.busErrors.WithLabelValues(events.FrameProcessed)))
}

func TestCollectorHandler(t *testing.T) {
	c := New()
	c.ObserveFrame(report())

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `raidbot_decisions_total{action="flee",priority="CRITICAL"} 1`))
	assert.Contains(t, string(body), "raidbot_hunger 70")
}
