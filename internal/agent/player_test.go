package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/raidbot/internal/core/bt"
	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/events"
	"github.com/zeusync/raidbot/internal/core/observability/log"
	"github.com/zeusync/raidbot/internal/core/world"
	"github.com/zeusync/raidbot/internal/feed"
	"github.com/zeusync/raidbot/internal/input"
)

func newPlayer(t *testing.T, r *rig, bus events.Bus, resetOnSwitch bool) *Player {
	t.Helper()
	tree, err := r.pb.Build()
	require.NoError(t, err)
	return NewPlayer(r.engine, tree, bus, log.Nop(), Options{TargetFPS: 1000, ResetOnSwitch: resetOnSwitch})
}

func collect(t *testing.T, bus events.Bus, typ string) *[]events.Event {
	t.Helper()
	var got []events.Event
	_, err := bus.Subscribe(typ, func(e events.Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	return &got
}

func TestProcessFrameReport(t *testing.T) {
	r := newRig()
	bus := events.New()
	reports := collect(t, bus, events.FrameProcessed)
	p := newPlayer(t, r, bus, true)

	rep := p.ProcessFrame(perception(80, det("wolf", 100, 100, 150, 150), det("tree", 0, 0, 10, 10)))

	assert.Equal(t, p.RunID(), rep.RunID)
	assert.Equal(t, uint64(1), rep.Frame, "unnumbered frames are numbered by the player")
	assert.Equal(t, decision.ActionCombat, rep.Decision.Action)
	assert.Equal(t, decision.StateCombat, rep.State)
	assert.Equal(t, bt.StatusSuccess, rep.Status)
	assert.Equal(t, 80.0, rep.Health)
	assert.Equal(t, 100.0, rep.Hunger)
	assert.Equal(t, 1, rep.Threats)
	assert.Equal(t, 1, rep.Resources)
	assert.Equal(t, []input.Key{input.KeyShift, "d"}, keysDown(r.rec), "the wolf is too strong to fight")

	require.Len(t, *reports, 1)
	assert.Equal(t, rep, (*reports)[0].Data())
}

func gatherThenFlee(t *testing.T, resetOnSwitch bool) (*rig, []FrameReport, []events.Event) {
	r := newRig()
	bus := events.New()
	changes := collect(t, bus, events.StateChanged)
	p := newPlayer(t, r, bus, resetOnSwitch)

	tree := det("tree", 100, 100, 110, 110)
	wolf := det("wolf", 100, 100, 150, 150)
	reps := []FrameReport{
		p.ProcessFrame(perception(80, tree)),
		p.ProcessFrame(perception(80, tree)),
	}
	r.rec.Reset()
	reps = append(reps, p.ProcessFrame(perception(45, wolf)))
	return r, reps, *changes
}

func TestModeSwitchResetsTree(t *testing.T) {
	r, reps, changes := gatherThenFlee(t, true)

	assert.Equal(t, bt.StatusRunning, reps[0].Status)
	assert.Equal(t, bt.StatusRunning, reps[1].Status)
	assert.Equal(t, decision.StateGathering, reps[1].State)

	assert.Equal(t, decision.ActionFlee, reps[2].Decision.Action)
	assert.Equal(t, decision.StateFleeing, reps[2].State)
	assert.Equal(t, bt.StatusSuccess, reps[2].Status)
	assert.Equal(t, []input.Key{input.KeyShift, "d"}, keysDown(r.rec))

	require.Len(t, changes, 2)
	last := changes[1].Data().(StateChange)
	assert.Equal(t, decision.StateGathering, last.From)
	assert.Equal(t, decision.StateFleeing, last.To)
	assert.Equal(t, uint64(3), last.Frame)
}

func TestModeSwitchWithoutResetResumes(t *testing.T) {
	r, reps, _ := gatherThenFlee(t, false)

	// The root resumes the parked gathering branch, which fails without a
	// resource, and falls through to exploring.
	assert.Equal(t, decision.StateFleeing, reps[2].State)
	assert.Equal(t, []input.Key{"w"}, keysDown(r.rec))
}

func TestRunStopsAtEOF(t *testing.T) {
	r := newRig()
	bus := events.New()
	rejections := collect(t, bus, events.PerceptionRejected)
	p := newPlayer(t, r, bus, true)

	src := feed.NewJSONLines(strings.NewReader(`{"health": 90}
{"detections": [{"class_name": "wolf", "bbox": [1, 2]}]}
{"health": 10}
`), 0.5)

	require.NoError(t, p.Run(context.Background(), src))
	assert.Equal(t, uint64(2), p.Frames())
	assert.Equal(t, uint64(1), p.Rejected())
	assert.Equal(t, decision.StateIdle, r.engine.GetState(), "heal maps to idle")
	require.Len(t, *rejections, 1)
	assert.Contains(t, (*rejections)[0].Data().(Rejection).Reason, "bbox")
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newRig()
	p := newPlayer(t, r, nil, true)

	ch := make(chan world.Perception)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, feed.NewChannel(ch)) }()

	ch <- world.Perception{}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("player did not stop")
	}
	assert.Equal(t, uint64(1), p.Frames())
}
