package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/raidbot/internal/adapters/redis"
	"github.com/zeusync/raidbot/internal/agent"
	"github.com/zeusync/raidbot/internal/core/bt"
	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/events"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Journal) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	j := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = j.Close() })
	return mr, j
}

func frame(n uint64, action string) agent.FrameReport {
	return agent.FrameReport{
		RunID:    "run",
		Frame:    n,
		Decision: decision.Decision{Action: action, Priority: decision.PriorityLow},
		Status:   bt.StatusRunning,
		State:    decision.StateExploring,
		Health:   100,
	}
}

func TestJournalAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	_, j := setup(t, redis.WithPrefix("test"))
	require.NoError(t, j.Ping(ctx))
	assert.Equal(t, "test:journal", j.Key())

	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, j.Append(ctx, frame(i, decision.ActionExplore)))
	}

	recent, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, uint64(2), recent[0].Frame, "oldest first")
	assert.Equal(t, uint64(3), recent[1].Frame)
	assert.Equal(t, bt.StatusRunning, recent[1].Status)
	assert.Equal(t, decision.PriorityLow, recent[1].Decision.Priority)
}

func TestJournalStreamFields(t *testing.T) {
	ctx := context.Background()
	mr, j := setup(t)
	require.NoError(t, j.Append(ctx, frame(9, decision.ActionFlee)))

	reader := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer reader.Close()
	entries, err := reader.XRange(ctx, j.Key(), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, "9", values["frame"])
	assert.Equal(t, "flee", values["action"])
	assert.Equal(t, "LOW", values["priority"])
	assert.Equal(t, "run", values["run_id"])
}

func TestJournalFromBus(t *testing.T) {
	ctx := context.Background()
	_, j := setup(t)
	bus := events.New()
	require.NoError(t, j.Attach(bus))

	require.NoError(t, bus.Publish(events.NewEvent(events.FrameProcessed, "test", frame(1, decision.ActionGather))))
	require.NoError(t, bus.Publish(events.NewEvent(events.StateChanged, "test", agent.StateChange{})))

	n, err := j.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestJournalUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	j := redis.New(addr, "", 0)
	defer j.Close()
	assert.Error(t, j.Ping(context.Background()))
}
