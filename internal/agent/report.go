package agent

import (
	"time"

	"github.com/zeusync/raidbot/internal/core/bt"
	"github.com/zeusync/raidbot/internal/core/decision"
)

// FrameReport summarizes one processed frame. It is published on the bus and
// is what the telemetry stream and the journal carry.
type FrameReport struct {
	RunID     string             `json:"run_id"`
	Frame     uint64             `json:"frame"`
	Time      time.Time          `json:"time"`
	Decision  decision.Decision  `json:"decision"`
	Status    bt.Status          `json:"status"`
	State     decision.GameState `json:"state"`
	Health    float64            `json:"health"`
	Hunger    float64            `json:"hunger"`
	Threats   int                `json:"threats"`
	Resources int                `json:"resources"`
	Duration  time.Duration      `json:"duration_ns"`
}

// StateChange is published when the player switches mode.
type StateChange struct {
	RunID string             `json:"run_id"`
	Frame uint64             `json:"frame"`
	From  decision.GameState `json:"from"`
	To    decision.GameState `json:"to"`
}

// Rejection is published for each perception dropped at the feed boundary.
type Rejection struct {
	RunID  string `json:"run_id"`
	Reason string `json:"reason"`
}
