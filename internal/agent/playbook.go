package agent

import (
	"time"

	"github.com/zeusync/raidbot/internal/config"
	"github.com/zeusync/raidbot/internal/core/bt"
	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/observability/log"
	"github.com/zeusync/raidbot/internal/core/world"
	"github.com/zeusync/raidbot/internal/input"
)

// Playbook holds the game actions the behavior tree leaves call into.
type Playbook struct {
	engine *decision.Engine
	kb     *input.Keyboard
	mouse  *input.Mouse
	cfg    config.Playbook
	log    log.Log
}

func NewPlaybook(engine *decision.Engine, kb *input.Keyboard, mouse *input.Mouse, cfg config.Playbook, logger log.Log) *Playbook {
	return &Playbook{engine: engine, kb: kb, mouse: mouse, cfg: cfg, log: logger.Named("playbook")}
}

type leaf struct {
	fn func(*Playbook, *bt.Context) bt.Status
	// duration is the timing a "duration" node parameter overrides, nil when
	// the leaf takes none.
	duration func(*config.Playbook) *time.Duration
}

var leaves = map[string]leaf{
	"find_cover":       {(*Playbook).FindCover, func(c *config.Playbook) *time.Duration { return &c.MoveDuration }},
	"heal":             {(*Playbook).Heal, func(c *config.Playbook) *time.Duration { return &c.HealDuration }},
	"aim":              {fn: (*Playbook).Aim},
	"shoot":            {(*Playbook).Shoot, func(c *config.Playbook) *time.Duration { return &c.FireDuration }},
	"flee":             {(*Playbook).Flee, func(c *config.Playbook) *time.Duration { return &c.MoveDuration }},
	"move_to_resource": {(*Playbook).MoveToResource, func(c *config.Playbook) *time.Duration { return &c.MoveDuration }},
	"gather":           {(*Playbook).Gather, func(c *config.Playbook) *time.Duration { return &c.GatherDuration }},
	"explore":          {(*Playbook).Explore, func(c *config.Playbook) *time.Duration { return &c.ExploreDuration }},
}

// Register exposes the playbook leaves to tree definitions loaded from files.
// Timed leaves accept a "duration" parameter ("300ms" or milliseconds).
func (pb *Playbook) Register(reg *bt.Registry) {
	for name, l := range leaves {
		reg.RegisterAction(name, pb.factory(l))
	}
	reg.RegisterCondition("can_win_fight", func(bt.Params) (bt.ConditionFunc, error) {
		return pb.CanWinFight, nil
	})
}

func (pb *Playbook) factory(l leaf) bt.ActionFactory {
	return func(params bt.Params) (bt.ActionFunc, error) {
		if l.duration == nil {
			return func(ctx *bt.Context) bt.Status { return l.fn(pb, ctx) }, nil
		}
		tuned := *pb
		field := l.duration(&tuned.cfg)
		d, err := params.Duration("duration", *field)
		if err != nil {
			return nil, err
		}
		*field = d
		return func(ctx *bt.Context) bt.Status { return l.fn(&tuned, ctx) }, nil
	}
}

// Build assembles the default strategy: survive, fight what can be beaten,
// run from the rest, gather, otherwise explore.
func (pb *Playbook) Build() (*bt.Tree, error) {
	lowHealth := pb.cfg.CoverThreshold
	root := bt.NewSelector("Root Strategy",
		bt.NewSequence("Survival",
			bt.NewCondition("Low Health?", func(ctx *bt.Context) bool { return ctx.HealthOr(world.DefaultHealth) < lowHealth }),
			bt.NewAction("Find Cover", pb.FindCover),
			bt.NewAction("Heal", pb.Heal),
		),
		bt.NewSequence("Combat",
			bt.NewCondition("Enemy Nearby?", (*bt.Context).HasThreats),
			bt.NewCondition("Can Win Fight?", pb.CanWinFight),
			bt.NewAction("Aim at Enemy", pb.Aim),
			bt.NewAction("Shoot", pb.Shoot),
		),
		bt.NewSequence("Evade",
			bt.NewCondition("Enemy Nearby?", (*bt.Context).HasThreats),
			bt.NewAction("Flee", pb.Flee),
		),
		bt.NewSequence("Gathering",
			bt.NewCondition("Resource Nearby?", (*bt.Context).HasResources),
			bt.NewAction("Move to Resource", pb.MoveToResource),
			bt.NewAction("Gather", pb.Gather),
		),
		bt.NewAction("Explore", pb.Explore),
	)
	return bt.NewTree(root)
}

func (pb *Playbook) CanWinFight(ctx *bt.Context) bool {
	threat, ok := ctx.PrimaryThreat()
	return ok && pb.engine.ShouldEngageCombat(threat)
}

// FindCover crouches in place.
func (pb *Playbook) FindCover(*bt.Context) bt.Status {
	return pb.result("find cover", pb.kb.Crouch(pb.cfg.MoveDuration))
}

// Heal switches to the heal slot, uses it and switches back to the weapon.
func (pb *Playbook) Heal(*bt.Context) bt.Status {
	if err := pb.kb.SelectHotbar(pb.cfg.HealSlot); err != nil {
		return pb.result("heal", err)
	}
	if err := pb.mouse.Shoot(pb.cfg.HealDuration); err != nil {
		return pb.result("heal", err)
	}
	return pb.result("heal", pb.kb.SelectHotbar(pb.cfg.WeaponSlot))
}

func (pb *Playbook) Aim(ctx *bt.Context) bt.Status {
	threat, ok := ctx.PrimaryThreat()
	if !ok {
		return bt.StatusFailure
	}
	if err := pb.kb.SelectHotbar(pb.cfg.WeaponSlot); err != nil {
		return pb.result("aim", err)
	}
	return pb.result("aim", pb.mouse.AimAt(int(threat.Center.X), int(threat.Center.Y), true))
}

func (pb *Playbook) Shoot(*bt.Context) bt.Status {
	return pb.result("shoot", pb.mouse.Shoot(pb.cfg.FireDuration))
}

// Flee sprints sideways away from the primary threat.
func (pb *Playbook) Flee(ctx *bt.Context) bt.Status {
	threat, ok := ctx.PrimaryThreat()
	if !ok {
		return bt.StatusFailure
	}
	strafe := input.Key("a")
	if pb.engine.CalculateFleeDirection(threat) == decision.FleeRight {
		strafe = "d"
	}
	return pb.result("flee", pb.kb.Combination([]input.Key{input.KeyShift, strafe}, pb.cfg.MoveDuration))
}

// MoveToResource turns toward the target and walks. It keeps running until
// the target's box covers ArriveArea, i.e. it is within reach.
func (pb *Playbook) MoveToResource(ctx *bt.Context) bt.Status {
	res, ok := ctx.PrimaryResource()
	if !ok {
		return bt.StatusFailure
	}
	if res.BBox.Area() >= pb.cfg.ArriveArea {
		return bt.StatusSuccess
	}
	if err := pb.mouse.AimAt(int(res.Center.X), int(res.Center.Y), true); err != nil {
		return pb.result("move to resource", err)
	}
	if err := pb.kb.MoveForward(pb.cfg.MoveDuration); err != nil {
		return pb.result("move to resource", err)
	}
	return bt.StatusRunning
}

// Gather loots containers and hemp, and swings the held tool at everything
// else.
func (pb *Playbook) Gather(ctx *bt.Context) bt.Status {
	res, ok := ctx.PrimaryResource()
	if !ok {
		return bt.StatusFailure
	}
	switch res.ClassName {
	case "crate", "hemp":
		return pb.result("gather", pb.kb.Interact())
	default:
		return pb.result("gather", pb.mouse.Shoot(pb.cfg.GatherDuration))
	}
}

func (pb *Playbook) Explore(*bt.Context) bt.Status {
	if err := pb.mouse.LookAround(pb.cfg.ExploreTurn, pb.cfg.ExploreDuration/2); err != nil {
		return pb.result("explore", err)
	}
	return pb.result("explore", pb.kb.MoveForward(pb.cfg.ExploreDuration))
}

func (pb *Playbook) result(action string, err error) bt.Status {
	if err != nil {
		pb.log.Warn("action failed", log.String("action", action), log.Error(err))
		return bt.StatusFailure
	}
	return bt.StatusSuccess
}

// BuildPlaybook returns the default strategy tree wired to the given devices.
func BuildPlaybook(engine *decision.Engine, kb *input.Keyboard, mouse *input.Mouse, cfg config.Playbook, logger log.Log) (*bt.Tree, error) {
	return NewPlaybook(engine, kb, mouse, cfg, logger).Build()
}
