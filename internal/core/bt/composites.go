package bt

// SequenceNode ticks children in order until one fails (AND).
//
// A Running child parks the cursor so the next tick resumes there. Any
// terminal result resets the cursor: a failed attempt starts over from the
// first child.
type SequenceNode struct {
	baseNode
	children []Node
	cursor   int
}

func NewSequence(name string, children ...Node) *SequenceNode {
	return &SequenceNode{baseNode: newBaseNode(name), children: children}
}

func (s *SequenceNode) AddChild(child Node) { s.children = append(s.children, child) }
func (s *SequenceNode) Children() []Node    { return s.children }
func (s *SequenceNode) Cursor() int         { return s.cursor }

func (s *SequenceNode) Tick(ctx *Context) Status {
	for s.cursor < len(s.children) {
		switch s.children[s.cursor].Tick(ctx) {
		case StatusFailure:
			s.cursor = 0
			return s.set(StatusFailure)
		case StatusRunning:
			return s.set(StatusRunning)
		}
		s.cursor++
	}
	s.cursor = 0
	return s.set(StatusSuccess)
}

func (s *SequenceNode) Reset() {
	s.baseNode.Reset()
	s.cursor = 0
	for _, child := range s.children {
		child.Reset()
	}
}

// SelectorNode ticks children in order until one succeeds (OR). Cursor
// handling mirrors SequenceNode with success and failure swapped.
type SelectorNode struct {
	baseNode
	children []Node
	cursor   int
}

func NewSelector(name string, children ...Node) *SelectorNode {
	return &SelectorNode{baseNode: newBaseNode(name), children: children}
}

func (s *SelectorNode) AddChild(child Node) { s.children = append(s.children, child) }
func (s *SelectorNode) Children() []Node    { return s.children }
func (s *SelectorNode) Cursor() int         { return s.cursor }

func (s *SelectorNode) Tick(ctx *Context) Status {
	for s.cursor < len(s.children) {
		switch s.children[s.cursor].Tick(ctx) {
		case StatusSuccess:
			s.cursor = 0
			return s.set(StatusSuccess)
		case StatusRunning:
			return s.set(StatusRunning)
		}
		s.cursor++
	}
	s.cursor = 0
	return s.set(StatusFailure)
}

func (s *SelectorNode) Reset() {
	s.baseNode.Reset()
	s.cursor = 0
	for _, child := range s.children {
		child.Reset()
	}
}

// ParallelNode ticks every child on every tick and succeeds once
// successThreshold of them succeed in the same tick.
//
// It keeps no memory between ticks: children that already finished are
// ticked again, so actions under a parallel fire every frame unless they gate
// themselves.
type ParallelNode struct {
	baseNode
	children         []Node
	successThreshold int
}

func NewParallel(name string, successThreshold int, children ...Node) *ParallelNode {
	return &ParallelNode{
		baseNode:         newBaseNode(name),
		children:         children,
		successThreshold: successThreshold,
	}
}

func (p *ParallelNode) AddChild(child Node)   { p.children = append(p.children, child) }
func (p *ParallelNode) Children() []Node      { return p.children }
func (p *ParallelNode) SuccessThreshold() int { return p.successThreshold }

func (p *ParallelNode) Tick(ctx *Context) Status {
	successCount := 0
	failureCount := 0
	for _, child := range p.children {
		switch child.Tick(ctx) {
		case StatusSuccess:
			successCount++
		case StatusFailure:
			failureCount++
		}
	}

	if successCount >= p.successThreshold {
		return p.set(StatusSuccess)
	}
	// Even if every undecided child succeeded the threshold is out of reach.
	if len(p.children)-failureCount < p.successThreshold {
		return p.set(StatusFailure)
	}
	return p.set(StatusRunning)
}

func (p *ParallelNode) Reset() {
	p.baseNode.Reset()
	for _, child := range p.children {
		child.Reset()
	}
}
