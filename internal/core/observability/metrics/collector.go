package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zeusync/raidbot/internal/agent"
	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/events"
)

const namespace = "raidbot"

// Collector turns bus events into prometheus series on its own registry.
type Collector struct {
	registry *prometheus.Registry

	frames        prometheus.Counter
	decisions     *prometheus.CounterVec
	treeStatus    *prometheus.CounterVec
	frameDuration prometheus.Histogram
	health        prometheus.Gauge
	hunger        prometheus.Gauge
	threats       prometheus.Gauge
	resources     prometheus.Gauge
	state         *prometheus.GaugeVec
	stateChanges  *prometheus.CounterVec
	rejected      prometheus.Counter
	busErrors     *prometheus.CounterVec

	subs []events.Subscription
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames processed by the player.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Decisions made, by action and priority.",
		}, []string{"action", "priority"}),
		treeStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_ticks_total",
			Help:      "Behavior tree ticks, by resulting status.",
		}, []string{"status"}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent deciding and acting on one frame.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		health: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "health",
			Help:      "Last tracked health.",
		}),
		hunger: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hunger",
			Help:      "Last tracked hunger.",
		}),
		threats: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "threats",
			Help:      "Threats visible in the last frame.",
		}),
		resources: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resources",
			Help:      "Resources visible in the last frame.",
		}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Current mode; 1 for the active state.",
		}, []string{"state"}),
		stateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_changes_total",
			Help:      "Mode switches.",
		}, []string{"from", "to"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "perceptions_rejected_total",
			Help:      "Perceptions dropped at the feed boundary.",
		}),
		busErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_handler_errors_total",
			Help:      "Publishes where at least one handler failed.",
		}, []string{"event"}),
	}
	c.registry.MustRegister(
		c.frames, c.decisions, c.treeStatus, c.frameDuration,
		c.health, c.hunger, c.threats, c.resources,
		c.state, c.stateChanges, c.rejected, c.busErrors,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Attach subscribes to the player events on bus and observes its deliveries.
func (c *Collector) Attach(bus events.Bus) error {
	handlers := map[string]events.Handler{
		events.FrameProcessed:     c.onFrame,
		events.StateChanged:       c.onStateChange,
		events.PerceptionRejected: c.onRejected,
	}
	for typ, h := range handlers {
		sub, err := bus.Subscribe(typ, h)
		if err != nil {
			c.Detach()
			return err
		}
		c.subs = append(c.subs, sub)
	}
	bus.AddObserver(c)
	return nil
}

// Detach cancels the subscriptions made by Attach.
func (c *Collector) Detach() {
	for _, sub := range c.subs {
		_ = sub.Cancel()
	}
	c.subs = nil
}

func (c *Collector) ObserveFrame(r agent.FrameReport) {
	c.frames.Inc()
	c.decisions.WithLabelValues(r.Decision.Action, r.Decision.Priority.String()).Inc()
	c.treeStatus.WithLabelValues(r.Status.String()).Inc()
	c.frameDuration.Observe(r.Duration.Seconds())
	c.health.Set(r.Health)
	c.hunger.Set(r.Hunger)
	c.threats.Set(float64(r.Threats))
	c.resources.Set(float64(r.Resources))
	c.setState(r.State)
}

func (c *Collector) setState(current decision.GameState) {
	for s := decision.StateExploring; s <= decision.StateIdle; s++ {
		v := 0.0
		if s == current {
			v = 1
		}
		c.state.WithLabelValues(s.String()).Set(v)
	}
}

func (c *Collector) onFrame(e events.Event) error {
	if r, ok := e.Data().(agent.FrameReport); ok {
		c.ObserveFrame(r)
	}
	return nil
}

func (c *Collector) onStateChange(e events.Event) error {
	if sc, ok := e.Data().(agent.StateChange); ok {
		c.stateChanges.WithLabelValues(sc.From.String(), sc.To.String()).Inc()
		c.setState(sc.To)
	}
	return nil
}

func (c *Collector) onRejected(events.Event) error {
	c.rejected.Inc()
	return nil
}

func (c *Collector) OnPublish(string, events.Event) {}

func (c *Collector) OnDelivered(eventType string, _ int, err error, _ time.Duration) {
	if err != nil {
		c.busErrors.WithLabelValues(eventType).Inc()
	}
}
