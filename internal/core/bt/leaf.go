package bt

// baseNode implements name and last status storage for nodes.
type baseNode struct {
	name   string
	status Status
}

func newBaseNode(name string) baseNode {
	return baseNode{name: name, status: StatusFailure}
}

func (b *baseNode) Name() string   { return b.name }
func (b *baseNode) Status() Status { return b.status }

func (b *baseNode) set(s Status) Status {
	b.status = s
	return s
}

func (b *baseNode) Reset() {
	b.status = StatusFailure
}

// ActionNode runs its function synchronously and reports the result verbatim.
// Retries and buffering are up to the function.
type ActionNode struct {
	baseNode
	fn ActionFunc
}

func NewAction(name string, fn ActionFunc) *ActionNode {
	return &ActionNode{baseNode: newBaseNode(name), fn: fn}
}

func (a *ActionNode) Tick(ctx *Context) Status {
	if a.fn == nil {
		return a.set(StatusFailure)
	}
	return a.set(a.fn(ctx))
}

// ConditionNode maps a predicate onto Success or Failure. It never runs.
type ConditionNode struct {
	baseNode
	fn ConditionFunc
}

func NewCondition(name string, fn ConditionFunc) *ConditionNode {
	return &ConditionNode{baseNode: newBaseNode(name), fn: fn}
}

func (c *ConditionNode) Tick(ctx *Context) Status {
	if c.fn != nil && c.fn(ctx) {
		return c.set(StatusSuccess)
	}
	return c.set(StatusFailure)
}
