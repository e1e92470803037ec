package bt

import (
	"fmt"
	"sort"
	"time"

	"github.com/zeusync/raidbot/internal/core/decision"
)

// Params are the free-form parameters of a node definition.
type Params map[string]any

// Float returns a numeric parameter, def when absent.
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidParam, key, v)
	}
}

func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidParam, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidParam, key)
	}
	return s, nil
}

// Duration accepts Go duration strings ("250ms") or a number of milliseconds.
func (p Params) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	if s, isString := v.(string); isString {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, key, err)
		}
		return d, nil
	}
	ms, err := p.Float(key, 0)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}

type ActionFactory func(params Params) (ActionFunc, error)
type ConditionFactory func(params Params) (ConditionFunc, error)

// Registry resolves the action and condition names used by tree definitions.
type Registry struct {
	actions    map[string]ActionFactory
	conditions map[string]ConditionFactory
}

func NewRegistry() *Registry {
	return &Registry{
		actions:    make(map[string]ActionFactory),
		conditions: make(map[string]ConditionFactory),
	}
}

func (r *Registry) RegisterAction(name string, f ActionFactory) {
	r.actions[name] = f
}

func (r *Registry) RegisterCondition(name string, f ConditionFactory) {
	r.conditions[name] = f
}

func (r *Registry) NewAction(name string, params Params) (ActionFunc, error) {
	f, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return f(params)
}

func (r *Registry) NewCondition(name string, params Params) (ConditionFunc, error) {
	f, ok := r.conditions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCondition, name)
	}
	return f(params)
}

// Actions lists registered action names, sorted.
func (r *Registry) Actions() []string {
	return sortedKeys(r.actions)
}

// Conditions lists registered condition names, sorted.
func (r *Registry) Conditions() []string {
	return sortedKeys(r.conditions)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RegisterBuiltins adds the context-only conditions and constant actions.
func RegisterBuiltins(r *Registry) {
	r.RegisterCondition("health_below", func(params Params) (ConditionFunc, error) {
		threshold, err := params.Float("threshold", 30)
		if err != nil {
			return nil, err
		}
		return func(ctx *Context) bool { return ctx.HealthOr(100) < threshold }, nil
	})
	r.RegisterCondition("hunger_below", func(params Params) (ConditionFunc, error) {
		threshold, err := params.Float("threshold", 30)
		if err != nil {
			return nil, err
		}
		return func(ctx *Context) bool { return ctx.HungerOr(100) < threshold }, nil
	})
	r.RegisterCondition("threats_nearby", func(Params) (ConditionFunc, error) {
		return func(ctx *Context) bool { return ctx.HasThreats() }, nil
	})
	r.RegisterCondition("resources_nearby", func(Params) (ConditionFunc, error) {
		return func(ctx *Context) bool { return ctx.HasResources() }, nil
	})
	r.RegisterCondition("decision_is", func(params Params) (ConditionFunc, error) {
		action, err := params.String("action")
		if err != nil {
			return nil, err
		}
		return func(ctx *Context) bool { return ctx.Action() == action }, nil
	})
	r.RegisterCondition("state_is", func(params Params) (ConditionFunc, error) {
		name, err := params.String("state")
		if err != nil {
			return nil, err
		}
		state, err := decision.ParseGameState(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParam, err)
		}
		return func(ctx *Context) bool { return ctx != nil && ctx.State == state }, nil
	})

	r.RegisterAction("succeed", constant(StatusSuccess))
	r.RegisterAction("fail", constant(StatusFailure))
	r.RegisterAction("running", constant(StatusRunning))
}

func constant(s Status) ActionFactory {
	return func(Params) (ActionFunc, error) {
		return func(*Context) Status { return s }, nil
	}
}
