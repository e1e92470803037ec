package bt

import (
	"fmt"
	"reflect"
)

// Tree owns the root of a behavior tree. Its shape is fixed once built.
type Tree struct {
	root Node
}

// NewTree validates the node graph under root and wraps it.
func NewTree(root Node) (*Tree, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}
	return &Tree{root: root}, nil
}

func (t *Tree) Root() Node { return t.root }

func (t *Tree) Tick(ctx *Context) Status {
	return t.root.Tick(ctx)
}

func (t *Tree) Reset() {
	t.root.Reset()
}

// Walk visits every node depth first, parents before children.
func (t *Tree) Walk(fn func(depth int, n Node)) {
	walk(t.root, 0, fn)
}

func walk(n Node, depth int, fn func(depth int, n Node)) {
	fn(depth, n)
	if c, ok := n.(Composite); ok {
		for _, child := range c.Children() {
			walk(child, depth+1, fn)
		}
	}
}

// Validate reports configuration mistakes that would make a tree meaningless:
// nil nodes or functions, empty composites, unreachable parallel thresholds
// and nodes reachable through more than one parent.
func Validate(root Node) error {
	seen := make(map[Node]string)
	return validate(root, "", seen)
}

func validate(n Node, parent string, seen map[Node]string) error {
	if isNil(n) {
		return fmt.Errorf("%s: %w", pathOr(parent, "root"), ErrNilNode)
	}
	path := n.Name()
	if parent != "" {
		path = parent + "/" + n.Name()
	}
	if first, ok := seen[n]; ok {
		return fmt.Errorf("%s: %w (also at %s)", path, ErrSharedNode, first)
	}
	seen[n] = path

	c, isComposite := n.(Composite)
	if isComposite && len(c.Children()) == 0 {
		return fmt.Errorf("%s: %w", path, ErrNoChildren)
	}

	switch node := n.(type) {
	case *ActionNode:
		if node.fn == nil {
			return fmt.Errorf("%s: %w", path, ErrNilFunc)
		}
	case *ConditionNode:
		if node.fn == nil {
			return fmt.Errorf("%s: %w", path, ErrNilFunc)
		}
	case *ParallelNode:
		if node.successThreshold < 1 || node.successThreshold > len(node.children) {
			return fmt.Errorf("%s: %w: %d of %d children", path, ErrInvalidThreshold, node.successThreshold, len(node.children))
		}
	}

	if !isComposite {
		return nil
	}
	for _, child := range c.Children() {
		if err := validate(child, path, seen); err != nil {
			return err
		}
	}
	return nil
}

// isNil also catches typed nils such as (*ActionNode)(nil) stored in a Node.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := reflect.ValueOf(n); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func pathOr(path, def string) string {
	if path == "" {
		return def
	}
	return path
}
