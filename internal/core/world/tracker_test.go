package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func det(class string, x1, y1, x2, y2 float64) Detection {
	b := BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
	return Detection{ClassName: class, Confidence: 0.9, BBox: b, Center: b.Center()}
}

func ptr[T any](v T) *T { return &v }

func TestTrackerDefaults(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, 100.0, tr.Health)
	assert.Equal(t, 100.0, tr.Hunger)
	assert.Zero(t, tr.InventoryCount)
	assert.Empty(t, tr.Threats)
	assert.Empty(t, tr.Resources)
}

func TestTrackerPartitionsDetections(t *testing.T) {
	tr := NewTracker()
	tr.Update(Perception{Detections: []Detection{
		det("tree", 0, 0, 10, 10),
		det("wolf", 0, 0, 10, 10),
		det("car", 0, 0, 10, 10),
		det("ore", 0, 0, 10, 10),
		det("player", 0, 0, 10, 10),
		det("boar", 0, 0, 10, 10),
	}})

	var threats, resources []string
	for _, d := range tr.Threats {
		threats = append(threats, d.ClassName)
	}
	for _, d := range tr.Resources {
		resources = append(resources, d.ClassName)
	}
	assert.Equal(t, []string{"wolf", "player"}, threats)
	assert.Equal(t, []string{"tree", "ore"}, resources)
}

func TestTrackerReplacesListsEveryUpdate(t *testing.T) {
	tr := NewTracker()
	tr.Update(Perception{Detections: []Detection{det("bear", 0, 0, 1, 1), det("stone", 0, 0, 1, 1)}})
	assert.Len(t, tr.Threats, 1)
	assert.Len(t, tr.Resources, 1)

	tr.Update(Perception{Detections: []Detection{det("hemp", 0, 0, 1, 1)}})
	assert.Empty(t, tr.Threats)
	assert.Len(t, tr.Resources, 1)
	assert.Equal(t, "hemp", tr.Resources[0].ClassName)

	tr.Update(Perception{})
	assert.Empty(t, tr.Threats)
	assert.Empty(t, tr.Resources)
}

func TestTrackerVitalsCarryForward(t *testing.T) {
	tr := NewTracker()
	tr.Update(Perception{Health: ptr(45.0), Hunger: ptr(20.0), InventoryCount: ptr(3)})
	assert.Equal(t, 45.0, tr.Health)
	assert.Equal(t, 20.0, tr.Hunger)
	assert.Equal(t, 3, tr.InventoryCount)

	tr.Update(Perception{Hunger: ptr(80.0)})
	assert.Equal(t, 45.0, tr.Health)
	assert.Equal(t, 80.0, tr.Hunger)
	assert.Equal(t, 3, tr.InventoryCount)
}
