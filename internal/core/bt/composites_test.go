package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stub returns scripted statuses and counts ticks. Past the end of the
// script it repeats the last status.
type stub struct {
	baseNode
	script []Status
	ticks  int
	resets int
}

func newStub(name string, script ...Status) *stub {
	return &stub{baseNode: newBaseNode(name), script: script}
}

func (s *stub) Tick(*Context) Status {
	i := s.ticks
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.ticks++
	return s.set(s.script[i])
}

func (s *stub) Reset() {
	s.baseNode.Reset()
	s.resets++
}

func TestNewNodeStartsFailed(t *testing.T) {
	assert.Equal(t, StatusFailure, NewAction("a", nil).Status())
	assert.Equal(t, StatusFailure, NewSequence("s").Status())
	assert.Equal(t, StatusFailure, NewParallel("p", 1).Status())
}

func TestActionReportsVerbatim(t *testing.T) {
	for _, st := range []Status{StatusSuccess, StatusFailure, StatusRunning} {
		a := NewAction("a", func(*Context) Status { return st })
		assert.Equal(t, st, a.Tick(nil))
		assert.Equal(t, st, a.Status())
	}
	assert.Equal(t, StatusFailure, NewAction("nil", nil).Tick(nil))
}

func TestConditionNeverRuns(t *testing.T) {
	yes := NewCondition("yes", func(*Context) bool { return true })
	no := NewCondition("no", func(*Context) bool { return false })
	assert.Equal(t, StatusSuccess, yes.Tick(nil))
	assert.Equal(t, StatusFailure, no.Tick(nil))
	assert.Equal(t, StatusFailure, NewCondition("nil", nil).Tick(nil))
}

func TestSequenceResumesRunningChild(t *testing.T) {
	a := newStub("a", StatusSuccess)
	b := newStub("b", StatusRunning, StatusSuccess)
	c := newStub("c", StatusSuccess)
	seq := NewSequence("seq", a, b, c)

	assert.Equal(t, StatusRunning, seq.Tick(nil))
	assert.Equal(t, 1, seq.Cursor())
	assert.Equal(t, 1, a.ticks)
	assert.Equal(t, 0, c.ticks)

	assert.Equal(t, StatusSuccess, seq.Tick(nil))
	assert.Equal(t, 1, a.ticks, "first child is not re-ticked after resuming")
	assert.Equal(t, 2, b.ticks)
	assert.Equal(t, 1, c.ticks)
	assert.Equal(t, 0, seq.Cursor())
}

func TestSequenceFailureRestarts(t *testing.T) {
	a := newStub("a", StatusSuccess)
	b := newStub("b", StatusFailure)
	c := newStub("c", StatusSuccess)
	seq := NewSequence("seq", a, b, c)

	assert.Equal(t, StatusFailure, seq.Tick(nil))
	assert.Equal(t, 0, seq.Cursor())
	assert.Equal(t, 0, c.ticks)

	assert.Equal(t, StatusFailure, seq.Tick(nil))
	assert.Equal(t, 2, a.ticks)
}

func TestSequenceAllSucceed(t *testing.T) {
	seq := NewSequence("seq", newStub("a", StatusSuccess), newStub("b", StatusSuccess))
	assert.Equal(t, StatusSuccess, seq.Tick(nil))
	assert.Equal(t, StatusSuccess, seq.Status())
}

func TestSelector(t *testing.T) {
	t.Run("first success wins", func(t *testing.T) {
		a := newStub("a", StatusFailure)
		b := newStub("b", StatusSuccess)
		c := newStub("c", StatusSuccess)
		sel := NewSelector("sel", a, b, c)

		assert.Equal(t, StatusSuccess, sel.Tick(nil))
		assert.Equal(t, 0, c.ticks)
		assert.Equal(t, 0, sel.Cursor())
	})

	t.Run("resumes running child", func(t *testing.T) {
		a := newStub("a", StatusFailure)
		b := newStub("b", StatusRunning, StatusFailure)
		c := newStub("c", StatusSuccess)
		sel := NewSelector("sel", a, b, c)

		assert.Equal(t, StatusRunning, sel.Tick(nil))
		assert.Equal(t, 1, sel.Cursor())
		assert.Equal(t, StatusSuccess, sel.Tick(nil))
		assert.Equal(t, 1, a.ticks)
		assert.Equal(t, 1, c.ticks)
	})

	t.Run("all fail", func(t *testing.T) {
		sel := NewSelector("sel", newStub("a", StatusFailure), newStub("b", StatusFailure))
		assert.Equal(t, StatusFailure, sel.Tick(nil))
		assert.Equal(t, 0, sel.Cursor())
	})
}

func TestParallelThreshold(t *testing.T) {
	cases := []struct {
		name     string
		children []Status
		want     Status
	}{
		{"two successes", []Status{StatusSuccess, StatusSuccess, StatusFailure}, StatusSuccess},
		{"unreachable", []Status{StatusSuccess, StatusFailure, StatusFailure}, StatusFailure},
		{"still possible", []Status{StatusSuccess, StatusRunning, StatusFailure}, StatusRunning},
		{"all running", []Status{StatusRunning, StatusRunning, StatusRunning}, StatusRunning},
		{"success success running", []Status{StatusSuccess, StatusSuccess, StatusRunning}, StatusSuccess},
		{"failure failure running", []Status{StatusFailure, StatusFailure, StatusRunning}, StatusFailure},
		{"success running running", []Status{StatusSuccess, StatusRunning, StatusRunning}, StatusRunning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			children := make([]Node, 0, len(tc.children))
			for i, st := range tc.children {
				children = append(children, newStub(string(rune('a'+i)), st))
			}
			p := NewParallel("par", 2, children...)
			assert.Equal(t, tc.want, p.Tick(nil))
			for _, c := range children {
				assert.Equal(t, 1, c.(*stub).ticks, "every child is ticked")
			}
		})
	}
}

func TestParallelRetainsNothing(t *testing.T) {
	a := newStub("a", StatusSuccess)
	b := newStub("b", StatusRunning)
	p := NewParallel("par", 2, a, b)

	assert.Equal(t, StatusRunning, p.Tick(nil))
	assert.Equal(t, StatusRunning, p.Tick(nil))
	assert.Equal(t, 2, a.ticks, "finished children are ticked again")
}

func TestResetCascades(t *testing.T) {
	leaf := newStub("leaf", StatusRunning)
	inner := NewSelector("inner", leaf)
	par := NewParallel("par", 1, newStub("p", StatusRunning))
	root := NewSequence("root", newStub("ok", StatusSuccess), inner, par)

	require.Equal(t, StatusRunning, root.Tick(nil))
	require.Equal(t, 1, root.Cursor())

	root.Reset()
	assert.Equal(t, StatusFailure, root.Status())
	assert.Equal(t, 0, root.Cursor())
	assert.Equal(t, StatusFailure, inner.Status())
	assert.Equal(t, 0, inner.Cursor())
	assert.Equal(t, StatusFailure, leaf.Status())
	assert.Equal(t, 1, leaf.resets)
	assert.Equal(t, StatusFailure, par.Status())
}

func TestStatusText(t *testing.T) {
	b, err := StatusRunning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "running", string(b))

	var s Status
	require.NoError(t, s.UnmarshalText([]byte("success")))
	assert.Equal(t, StatusSuccess, s)
	assert.Error(t, s.UnmarshalText([]byte("maybe")))
}
