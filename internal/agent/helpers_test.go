package agent

import (
	"github.com/zeusync/raidbot/internal/config"
	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/observability/log"
	"github.com/zeusync/raidbot/internal/core/world"
	"github.com/zeusync/raidbot/internal/input"
)

type rig struct {
	engine *decision.Engine
	rec    *input.Recorder
	pb     *Playbook
}

func newRig() *rig {
	rec := input.NewRecorder(0)
	engine := decision.NewEngine()
	kb := input.NewKeyboard(rec, rec, 0)
	mouse := input.NewMouse(rec, rec, 1)
	return &rig{
		engine: engine,
		rec:    rec,
		pb:     NewPlaybook(engine, kb, mouse, config.Default().Playbook, log.Nop()),
	}
}

func det(class string, x1, y1, x2, y2 float64) world.Detection {
	b := world.BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
	return world.Detection{ClassName: class, Confidence: 0.9, BBox: b, Center: b.Center()}
}

func perception(health float64, ds ...world.Detection) world.Perception {
	return world.Perception{Health: &health, Detections: ds}
}

func keysDown(rec *input.Recorder) []input.Key {
	var out []input.Key
	for _, e := range rec.Filter(input.EventKeyDown) {
		out = append(out, e.Key)
	}
	return out
}
