package bt

import (
	"fmt"
	"strings"
)

// Status is the outcome of a single tick.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRunning:
		return "running"
	default:
		return "invalid"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "success":
		*s = StatusSuccess
	case "failure":
		*s = StatusFailure
	case "running":
		*s = StatusRunning
	default:
		return fmt.Errorf("unknown node status %q", b)
	}
	return nil
}

// Node is a single node in the behavior tree.
//
// Tick is not a pure function for composites: Sequence and Selector keep a
// cursor so a Running child is resumed on the next tick.
type Node interface {
	// Name returns the node identifier used in logs and tree dumps.
	Name() string

	// Status returns the status observed on the last tick, Failure before the
	// first one and after Reset.
	Status() Status

	// Tick evaluates the node once against ctx.
	Tick(ctx *Context) Status

	// Reset discards any in-flight Running state, recursively.
	Reset()
}

// Composite is a node owning ordered children.
type Composite interface {
	Node

	Children() []Node
}

// ActionFunc performs a side effect and reports how it went. It may block.
type ActionFunc func(ctx *Context) Status

// ConditionFunc tests the context without side effects.
type ConditionFunc func(ctx *Context) bool
