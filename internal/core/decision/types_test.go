package decision

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/raidbot/internal/core/world"
)

func TestGameStateText(t *testing.T) {
	for s := StateExploring; s <= StateIdle; s++ {
		parsed, err := ParseGameState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseGameState("sleeping")
	assert.ErrorIs(t, err, ErrUnknownState)
	assert.Equal(t, "unknown", GameState(42).String())
}

func TestPriorityOrdering(t *testing.T) {
	assert.Equal(t, 1, int(PriorityMinimal))
	assert.Equal(t, 5, int(PriorityCritical))
	assert.Less(t, PriorityHigh, PriorityCritical)
	assert.Equal(t, "CRITICAL", PriorityCritical.String())
	assert.Equal(t, "Priority(9)", Priority(9).String())

	var p Priority
	require.NoError(t, p.UnmarshalText([]byte("medium")))
	assert.Equal(t, PriorityMedium, p)
	assert.ErrorIs(t, p.UnmarshalText([]byte("URGENT")), ErrUnknownPriority)
}

func TestDecisionJSON(t *testing.T) {
	hp := 12.0
	d := Decision{Action: ActionHeal, Priority: PriorityCritical, Context: Payload{Health: &hp}}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"heal","priority":"CRITICAL","context":{"health":12}}`, string(b))
	assert.Equal(t, "Decision(action=heal, priority=CRITICAL)", d.String())

	var back Decision
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
}

func TestFingerprint(t *testing.T) {
	wolf := world.Detection{ClassName: "wolf", BBox: world.BBox{X2: 10, Y2: 10}}
	closerWolf := world.Detection{ClassName: "wolf", BBox: world.BBox{X2: 90, Y2: 90}}
	bear := world.Detection{ClassName: "bear"}

	a := Decision{Action: ActionCombat, Priority: PriorityHigh, Context: Payload{Threat: &wolf}}
	b := Decision{Action: ActionCombat, Priority: PriorityHigh, Context: Payload{Threat: &closerWolf}}
	c := Decision{Action: ActionCombat, Priority: PriorityHigh, Context: Payload{Threat: &bear}}
	d := Decision{Action: ActionFlee, Priority: PriorityCritical, Context: Payload{Threat: &wolf}}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())

	low := Decision{Action: ActionExplore, Priority: PriorityLow, Context: Payload{Goal: GoalFindResources}}
	minimal := Decision{Action: ActionExplore, Priority: PriorityMinimal, Context: Payload{Goal: GoalGeneralExploration}}
	assert.NotEqual(t, low.Fingerprint(), minimal.Fingerprint())
}

func TestStateForAction(t *testing.T) {
	assert.Equal(t, StateFleeing, StateForAction(ActionFlee))
	assert.Equal(t, StateCombat, StateForAction(ActionCombat))
	assert.Equal(t, StateGathering, StateForAction(ActionGather))
	assert.Equal(t, StateLooting, StateForAction(ActionFindFood))
	assert.Equal(t, StateExploring, StateForAction(ActionExplore))
	assert.Equal(t, StateIdle, StateForAction(ActionHeal))
}
