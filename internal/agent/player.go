package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/zeusync/raidbot/internal/core/bt"
	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/events"
	"github.com/zeusync/raidbot/internal/core/observability/log"
	"github.com/zeusync/raidbot/internal/core/world"
	"github.com/zeusync/raidbot/internal/feed"
)

const (
	DefaultTargetFPS   = 10
	DefaultStatusEvery = 100
)

type Options struct {
	TargetFPS float64
	// ResetOnSwitch discards in-flight Running state when the decided action
	// changes.
	ResetOnSwitch bool
	StatusEvery   uint64
}

// Player drives the perceive, decide, act loop. It is single threaded: all
// methods must be called from the goroutine running the loop, except RunID.
type Player struct {
	engine  *decision.Engine
	tree    *bt.Tree
	bus     events.Bus
	log     log.Log
	opts    Options
	runID   string
	limiter *rate.Limiter

	frames    uint64
	rejected  uint64
	fps       float64
	lastTick  time.Time
	lastAct   string
	lastPrint uint64
}

func NewPlayer(engine *decision.Engine, tree *bt.Tree, bus events.Bus, logger log.Log, opts Options) *Player {
	if opts.TargetFPS <= 0 {
		opts.TargetFPS = DefaultTargetFPS
	}
	if opts.StatusEvery == 0 {
		opts.StatusEvery = DefaultStatusEvery
	}
	runID := uuid.NewString()
	return &Player{
		engine:  engine,
		tree:    tree,
		bus:     bus,
		log:     logger.Named("player").With(log.String("run_id", runID)),
		opts:    opts,
		runID:   runID,
		limiter: rate.NewLimiter(rate.Limit(opts.TargetFPS), 1),
	}
}

func (p *Player) RunID() string            { return p.runID }
func (p *Player) Frames() uint64           { return p.frames }
func (p *Player) Rejected() uint64         { return p.rejected }
func (p *Player) FPS() float64             { return p.fps }
func (p *Player) Tree() *bt.Tree           { return p.tree }
func (p *Player) Engine() *decision.Engine { return p.engine }

// ProcessFrame runs one full cycle for perc: update beliefs, decide, switch
// mode if needed and tick the tree.
func (p *Player) ProcessFrame(perc world.Perception) FrameReport {
	start := time.Now()
	p.frames++
	if perc.Frame == 0 {
		perc.Frame = p.frames
	}

	p.engine.UpdateGameState(perc)
	d := p.engine.MakeDecision()
	if d.Action != p.lastAct {
		p.switchMode(perc.Frame, d)
	}
	if fp := d.Fingerprint(); fp != p.lastPrint {
		p.lastPrint = fp
		fields := []log.Field{
			log.Uint64("frame", perc.Frame),
			log.String("action", d.Action),
			log.Stringer("priority", d.Priority),
		}
		if target := d.Target(); target != nil {
			fields = append(fields, log.Stringer("target", target))
		}
		p.log.Info("decision", fields...)
	}

	t := p.engine.Tracker()
	health, hunger := t.Health, t.Hunger
	ctx := &bt.Context{
		Version:    bt.ContextVersion,
		Frame:      perc.Frame,
		Decision:   &d,
		Perception: &perc,
		Health:     &health,
		Hunger:     &hunger,
		Threats:    t.Threats,
		Resources:  t.Resources,
		State:      p.engine.GetState(),
	}
	status := p.tree.Tick(ctx)

	report := FrameReport{
		RunID:     p.runID,
		Frame:     perc.Frame,
		Time:      start,
		Decision:  d,
		Status:    status,
		State:     p.engine.GetState(),
		Health:    health,
		Hunger:    hunger,
		Threats:   len(t.Threats),
		Resources: len(t.Resources),
		Duration:  time.Since(start),
	}
	p.publish(events.FrameProcessed, report)
	return report
}

func (p *Player) switchMode(frame uint64, d decision.Decision) {
	if p.lastAct != "" && p.opts.ResetOnSwitch {
		p.tree.Reset()
	}
	p.lastAct = d.Action

	from := p.engine.GetState()
	to := decision.StateForAction(d.Action)
	if from == to {
		return
	}
	p.engine.SetState(to)
	p.log.Debug("state changed", log.Stringer("from", from), log.Stringer("to", to))
	p.publish(events.StateChanged, StateChange{RunID: p.runID, Frame: frame, From: from, To: to})
}

// Run pulls perceptions from src at the target rate until the feed ends or
// ctx is cancelled. Both are a clean stop.
func (p *Player) Run(ctx context.Context, src feed.Source) error {
	p.log.Info("player started", log.Float64("target_fps", p.opts.TargetFPS))
	defer func() {
		p.log.Info("player stopped",
			log.Uint64("frames", p.frames),
			log.Uint64("rejected", p.rejected),
		)
	}()

	for {
		if err := p.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("frame limiter: %w", err)
		}

		perc, err := src.Next(ctx)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			p.log.Info("perception feed exhausted")
			return nil
		case errors.Is(err, feed.ErrRejected):
			p.reject(err)
			continue
		case ctx.Err() != nil:
			return nil
		default:
			return fmt.Errorf("read perception: %w", err)
		}

		p.ProcessFrame(perc)
		p.measure()
	}
}

func (p *Player) measure() {
	now := time.Now()
	if !p.lastTick.IsZero() {
		if elapsed := now.Sub(p.lastTick); elapsed > 0 {
			p.fps = 1 / elapsed.Seconds()
		}
	}
	p.lastTick = now

	if p.frames%p.opts.StatusEvery == 0 {
		p.log.Info("status", log.Uint64("frames", p.frames), log.Float64("fps", p.fps))
	}
}

func (p *Player) reject(err error) {
	p.rejected++
	p.log.Warn("perception rejected", log.Error(err))
	p.publish(events.PerceptionRejected, Rejection{RunID: p.runID, Reason: err.Error()})
}

func (p *Player) publish(typ string, data any) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(events.NewEvent(typ, "player", data)); err != nil {
		p.log.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}
