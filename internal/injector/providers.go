package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/raidbot/internal/agent"
	"github.com/zeusync/raidbot/internal/config"
	"github.com/zeusync/raidbot/internal/core/bt"
	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/events"
	"github.com/zeusync/raidbot/internal/core/observability/log"
	"github.com/zeusync/raidbot/internal/core/observability/metrics"
	"github.com/zeusync/raidbot/internal/input"
	"github.com/zeusync/raidbot/internal/telemetry"
)

// recorderLimit bounds the input history kept in memory during long runs.
const recorderLimit = 4096

// App is the assembled bot.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Bus       events.Bus
	Engine    *decision.Engine
	Recorder  *input.Recorder
	Tree      *bt.Tree
	Player    *agent.Player
	Metrics   *metrics.Collector
	Hub       *telemetry.Hub
	Telemetry *telemetry.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideLog,
	events.New,
	decision.NewEngine,
	ProvideRecorder,
	ProvideDriver,
	ProvideSleeper,
	ProvideKeyboard,
	ProvideMouse,
	ProvidePlaybook,
	ProvideTree,
	ProvidePlayer,
	ProvideCollector,
	ProvideHub,
	ProvideTelemetry,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	level, ok := log.ParseLevel(cfg.LogLevel)
	if !ok {
		return nil, fmt.Errorf("%w: log_level %q", config.ErrInvalid, cfg.LogLevel)
	}
	if cfg.DebugMode {
		return log.NewConsole(log.LevelDebug)
	}
	return log.New(level)
}

func ProvideLog(l *log.Logger) log.Log { return l }

func ProvideRecorder() *input.Recorder {
	return input.NewRecorder(recorderLimit)
}

func ProvideDriver(rec *input.Recorder, logger log.Log) input.Driver {
	return input.NewLoggingDriver(rec, logger)
}

// ProvideSleeper skips waits in dry runs so recorded sessions replay quickly.
func ProvideSleeper(cfg *config.Config, rec *input.Recorder) input.Sleeper {
	if cfg.DryRun {
		return rec
	}
	return input.RealSleeper
}

func ProvideKeyboard(driver input.Driver, sleeper input.Sleeper, cfg *config.Config) *input.Keyboard {
	return input.NewKeyboard(driver, sleeper, cfg.KeyDelay.Std())
}

func ProvideMouse(driver input.Driver, sleeper input.Sleeper, cfg *config.Config) *input.Mouse {
	return input.NewMouse(driver, sleeper, cfg.MouseSensitivity)
}

func ProvidePlaybook(engine *decision.Engine, kb *input.Keyboard, mouse *input.Mouse, cfg *config.Config, logger log.Log) *agent.Playbook {
	return agent.NewPlaybook(engine, kb, mouse, cfg.Playbook, logger)
}

// ProvideTree loads tree_file when set and falls back to the built-in
// strategy otherwise.
func ProvideTree(cfg *config.Config, pb *agent.Playbook) (*bt.Tree, error) {
	if cfg.TreeFile == "" {
		return pb.Build()
	}
	reg := bt.NewRegistry()
	bt.RegisterBuiltins(reg)
	pb.Register(reg)

	def, err := bt.LoadFile(cfg.TreeFile)
	if err != nil {
		return nil, err
	}
	tree, err := def.Build(reg)
	if err != nil {
		return nil, fmt.Errorf("build tree %s: %w", cfg.TreeFile, err)
	}
	return tree, nil
}

func ProvidePlayer(engine *decision.Engine, tree *bt.Tree, bus events.Bus, logger log.Log, cfg *config.Config) *agent.Player {
	return agent.NewPlayer(engine, tree, bus, logger, agent.Options{
		TargetFPS:     cfg.TargetFPS,
		ResetOnSwitch: cfg.ResetOnSwitch,
	})
}

func ProvideCollector(bus events.Bus) (*metrics.Collector, error) {
	c := metrics.New()
	if err := c.Attach(bus); err != nil {
		return nil, err
	}
	return c, nil
}

func ProvideHub(bus events.Bus, logger log.Log) (*telemetry.Hub, error) {
	hub := telemetry.NewHub(logger)
	if err := hub.Attach(bus); err != nil {
		return nil, err
	}
	return hub, nil
}

func ProvideTelemetry(cfg *config.Config, player *agent.Player, hub *telemetry.Hub, collector *metrics.Collector, logger log.Log) *telemetry.Server {
	return telemetry.NewServer(cfg.Telemetry.Addr, player.RunID(), hub, collector.Handler(), logger)
}
