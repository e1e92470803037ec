package decision

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/raidbot/internal/core/world"
)

// GameState is an advisory mode label owned by the caller.
type GameState int

const (
	StateExploring GameState = iota
	StateGathering
	StateBuilding
	StateCombat
	StateFleeing
	StateLooting
	StateCrafting
	StateIdle
)

var gameStateNames = [...]string{
	StateExploring: "exploring",
	StateGathering: "gathering",
	StateBuilding:  "building",
	StateCombat:    "combat",
	StateFleeing:   "fleeing",
	StateLooting:   "looting",
	StateCrafting:  "crafting",
	StateIdle:      "idle",
}

func (s GameState) String() string {
	if s < 0 || int(s) >= len(gameStateNames) {
		return "unknown"
	}
	return gameStateNames[s]
}

func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameState) UnmarshalText(b []byte) error {
	parsed, err := ParseGameState(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseGameState(s string) (GameState, error) {
	for i, name := range gameStateNames {
		if strings.EqualFold(name, s) {
			return GameState(i), nil
		}
	}
	return StateIdle, fmt.Errorf("%w: %q", ErrUnknownState, s)
}

// Priority lets consumers arbitrate between decisions. Rule order, not
// priority, decides which rule fires.
type Priority int

const (
	PriorityMinimal Priority = iota + 1
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityMinimal:
		return "MINIMAL"
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	case PriorityCritical:
		return "CRITICAL"
	default:
		return "Priority(" + strconv.Itoa(int(p)) + ")"
	}
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	for candidate := PriorityMinimal; candidate <= PriorityCritical; candidate++ {
		if strings.EqualFold(candidate.String(), string(b)) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPriority, b)
}

// Action tags produced by the engine.
const (
	ActionHeal     = "heal"
	ActionFlee     = "flee"
	ActionCombat   = "combat"
	ActionFindFood = "find_food"
	ActionGather   = "gather_resource"
	ActionExplore  = "explore"
)

// Exploration goals attached to ActionExplore.
const (
	GoalFindResources      = "find_resources"
	GoalGeneralExploration = "general_exploration"
)

// Payload carries the rule-specific context of a decision. Only the fields
// relevant to the rule that fired are set.
type Payload struct {
	Health   *float64         `json:"health,omitempty"`
	Hunger   *float64         `json:"hunger,omitempty"`
	Threat   *world.Detection `json:"threat,omitempty"`
	Resource *world.Detection `json:"resource,omitempty"`
	Goal     string           `json:"goal,omitempty"`
}

// Decision is a single prioritized recommendation, rebuilt on every call.
type Decision struct {
	Action   string   `json:"action"`
	Priority Priority `json:"priority"`
	Context  Payload  `json:"context"`
}

func (d Decision) String() string {
	return fmt.Sprintf("Decision(action=%s, priority=%s)", d.Action, d.Priority)
}

// Target returns the detection the decision is about, if any.
func (d Decision) Target() *world.Detection {
	if d.Context.Threat != nil {
		return d.Context.Threat
	}
	return d.Context.Resource
}

// Fingerprint identifies the intent of a decision: action, priority and target
// class. Two decisions with the same fingerprint ask for the same behavior.
func (d Decision) Fingerprint() uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(d.Action)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(strconv.Itoa(int(d.Priority)))
	_, _ = h.WriteString("|")
	if t := d.Target(); t != nil {
		_, _ = h.WriteString(t.ClassName)
	}
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(d.Context.Goal)
	return h.Sum64()
}

// StateForAction maps a decision onto the mode label callers should set when
// they act on it.
func StateForAction(action string) GameState {
	switch action {
	case ActionFlee:
		return StateFleeing
	case ActionCombat:
		return StateCombat
	case ActionGather:
		return StateGathering
	case ActionFindFood:
		return StateLooting
	case ActionExplore:
		return StateExploring
	default:
		return StateIdle
	}
}
