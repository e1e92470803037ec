package bt

import (
	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/world"
)

// ContextVersion is bumped whenever a field changes meaning.
const ContextVersion = 1

// Context is everything a tick can look at. Optional fields are pointers or
// nil slices; the accessor methods resolve them to documented defaults.
type Context struct {
	Version    int
	Frame      uint64
	Decision   *decision.Decision
	Perception *world.Perception
	Health     *float64
	Hunger     *float64
	Threats    []world.Detection
	Resources  []world.Detection
	State      decision.GameState
}

// HealthOr returns the tracked health or def when the context has none.
func (c *Context) HealthOr(def float64) float64 {
	if c == nil || c.Health == nil {
		return def
	}
	return *c.Health
}

func (c *Context) HungerOr(def float64) float64 {
	if c == nil || c.Hunger == nil {
		return def
	}
	return *c.Hunger
}

func (c *Context) HasThreats() bool {
	return c != nil && len(c.Threats) > 0
}

func (c *Context) HasResources() bool {
	return c != nil && len(c.Resources) > 0
}

// PrimaryThreat is the first threat as reported by the detector.
func (c *Context) PrimaryThreat() (world.Detection, bool) {
	if !c.HasThreats() {
		return world.Detection{}, false
	}
	return c.Threats[0], true
}

// PrimaryResource prefers the resource chosen by the decision, if any.
func (c *Context) PrimaryResource() (world.Detection, bool) {
	if c == nil {
		return world.Detection{}, false
	}
	if c.Decision != nil && c.Decision.Context.Resource != nil {
		return *c.Decision.Context.Resource, true
	}
	if !c.HasResources() {
		return world.Detection{}, false
	}
	return c.Resources[0], true
}

// Action returns the decided action tag, or "" without a decision.
func (c *Context) Action() string {
	if c == nil || c.Decision == nil {
		return ""
	}
	return c.Decision.Action
}
