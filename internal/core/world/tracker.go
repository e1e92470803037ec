package world

const (
	DefaultHealth = 100.0
	DefaultHunger = 100.0
)

// Tracker is the agent's belief about itself and its surroundings. It has a
// single writer: Update is called once per frame by the frame loop.
type Tracker struct {
	Health         float64
	Hunger         float64
	InventoryCount int
	Threats        []Detection
	Resources      []Detection
}

func NewTracker() *Tracker {
	return &Tracker{
		Health: DefaultHealth,
		Hunger: DefaultHunger,
	}
}

// Update replaces the threat and resource lists with the ones found in p and
// overwrites vitals that p carries. Absent vitals keep their previous value.
func (t *Tracker) Update(p Perception) {
	threats := make([]Detection, 0)
	resources := make([]Detection, 0)
	for _, d := range p.Detections {
		switch {
		case IsThreat(d.ClassName):
			threats = append(threats, d)
		case IsResource(d.ClassName):
			resources = append(resources, d)
		}
	}
	t.Threats = threats
	t.Resources = resources

	if p.Health != nil {
		t.Health = *p.Health
	}
	if p.Hunger != nil {
		t.Hunger = *p.Hunger
	}
	if p.InventoryCount != nil {
		t.InventoryCount = *p.InventoryCount
	}
}
