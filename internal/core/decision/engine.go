package decision

import (
	"math"

	"github.com/zeusync/raidbot/internal/core/world"
)

// Rule thresholds. They encode the priority intent of the cascade and are not
// meant to be tuned per deployment.
const (
	criticalHealth  = 20.0
	fleeHealth      = 50.0
	starvingHunger  = 30.0
	smallInventory  = 5
	screenHalfWidth = 960.0
)

var threatRatings = map[string]float64{
	"player":    0.9,
	"bear":      0.95,
	"wolf":      0.7,
	"scientist": 0.85,
	"boar":      0.3,
}

const defaultThreatRating = 0.5

// resourceOrder ranks resource classes from most to least valuable.
var resourceOrder = []string{"ore", "stone", "tree", "hemp", "crate"}

// Engine turns the tracked world state into one Decision per frame.
type Engine struct {
	tracker *world.Tracker
	state   GameState
}

func NewEngine() *Engine {
	return &Engine{
		tracker: world.NewTracker(),
		state:   StateIdle,
	}
}

// Tracker exposes the belief state for building tick contexts. Callers must
// treat it as read-only.
func (e *Engine) Tracker() *world.Tracker {
	return e.tracker
}

func (e *Engine) UpdateGameState(p world.Perception) {
	e.tracker.Update(p)
}

// MakeDecision evaluates the rule cascade; the first matching rule wins.
func (e *Engine) MakeDecision() Decision {
	t := e.tracker

	if t.Health < criticalHealth {
		return Decision{
			Action:   ActionHeal,
			Priority: PriorityCritical,
			Context:  Payload{Health: float(t.Health)},
		}
	}

	if len(t.Threats) > 0 {
		threat := t.Threats[0]
		if t.Health < fleeHealth {
			return Decision{
				Action:   ActionFlee,
				Priority: PriorityCritical,
				Context:  Payload{Threat: &threat},
			}
		}
		return Decision{
			Action:   ActionCombat,
			Priority: PriorityHigh,
			Context:  Payload{Threat: &threat},
		}
	}

	if t.Hunger < starvingHunger {
		return Decision{
			Action:   ActionFindFood,
			Priority: PriorityHigh,
			Context:  Payload{Hunger: float(t.Hunger)},
		}
	}

	if len(t.Resources) > 0 {
		resource := e.SelectBestResource()
		return Decision{
			Action:   ActionGather,
			Priority: PriorityMedium,
			Context:  Payload{Resource: resource},
		}
	}

	if t.InventoryCount < smallInventory {
		return Decision{
			Action:   ActionExplore,
			Priority: PriorityLow,
			Context:  Payload{Goal: GoalFindResources},
		}
	}

	return Decision{
		Action:   ActionExplore,
		Priority: PriorityMinimal,
		Context:  Payload{Goal: GoalGeneralExploration},
	}
}

// SelectBestResource picks the most valuable visible resource, falling back
// to the first one reported. It returns nil when nothing is visible.
func (e *Engine) SelectBestResource() *world.Detection {
	resources := e.tracker.Resources
	if len(resources) == 0 {
		return nil
	}
	for _, class := range resourceOrder {
		for i := range resources {
			if resources[i].ClassName == class {
				best := resources[i]
				return &best
			}
		}
	}
	first := resources[0]
	return &first
}

// EvaluateThreatLevel rates a threat in [0, 1]. Bigger boxes are closer and
// therefore more dangerous.
func (e *Engine) EvaluateThreatLevel(threat world.Detection) float64 {
	base, ok := threatRatings[threat.ClassName]
	if !ok {
		base = defaultThreatRating
	}
	area := threat.BBox.Area()
	if math.IsNaN(area) {
		area = 0
	}
	distanceFactor := clamp(area/10000, 0, 1)
	return clamp(base*(1+distanceFactor), 0, 1)
}

// ShouldEngageCombat is deliberately conservative: anything between the
// explicit engage and avoid bands is a no.
func (e *Engine) ShouldEngageCombat(threat world.Detection) bool {
	level := e.EvaluateThreatLevel(threat)
	health := e.tracker.Health

	if health < 40 {
		return false
	}
	if level > 0.8 && health < 70 {
		return false
	}
	return health > 60 && level < 0.7
}

// Flee directions returned by CalculateFleeDirection.
const (
	FleeLeft  = "left"
	FleeRight = "right"
)

// CalculateFleeDirection runs away from the threat's side of the screen. It
// assumes a 1920 pixel wide capture.
func (e *Engine) CalculateFleeDirection(threat world.Detection) string {
	if threat.Center.X < screenHalfWidth {
		return FleeRight
	}
	return FleeLeft
}

func (e *Engine) SetState(state GameState) {
	e.state = state
}

func (e *Engine) GetState() GameState {
	return e.state
}

func float(v float64) *float64 { return &v }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
