package bt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition describes a tree in YAML or JSON. Nodes are declared flat and
// referenced by name; each name may be used by exactly one parent.
type Definition struct {
	Root  string                    `json:"root" yaml:"root"`
	Nodes map[string]NodeDefinition `json:"nodes" yaml:"nodes"`
}

type NodeDefinition struct {
	Type      string   `json:"type" yaml:"type"`
	Children  []string `json:"children,omitempty" yaml:"children,omitempty"`
	Action    string   `json:"action,omitempty" yaml:"action,omitempty"`
	Condition string   `json:"condition,omitempty" yaml:"condition,omitempty"`
	Threshold int      `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Params    Params   `json:"params,omitempty" yaml:"params,omitempty"`
}

// LoadJSON loads a definition from a JSON reader.
func LoadJSON(r io.Reader) (*Definition, error) {
	var d Definition
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadYAML loads a definition from a YAML reader.
func LoadYAML(r io.Reader) (*Definition, error) {
	var d Definition
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var d *Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		d, err = LoadJSON(f)
	default:
		d, err = LoadYAML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("load tree %s: %w", path, err)
	}
	return d, nil
}

// Build instantiates the described tree using reg for leaves and validates it.
func (d *Definition) Build(reg *Registry) (*Tree, error) {
	if d.Root == "" {
		return nil, fmt.Errorf("%w: definition has no root", ErrUnknownNode)
	}
	used := make(map[string]bool)

	var build func(name string) (Node, error)
	build = func(name string) (Node, error) {
		if used[name] {
			return nil, fmt.Errorf("%s: %w", name, ErrSharedNode)
		}
		used[name] = true

		nd, ok := d.Nodes[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
		}

		children := make([]Node, 0, len(nd.Children))
		for _, childName := range nd.Children {
			child, err := build(childName)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			children = append(children, child)
		}

		switch strings.ToLower(nd.Type) {
		case "sequence":
			return NewSequence(name, children...), nil
		case "selector":
			return NewSelector(name, children...), nil
		case "parallel":
			threshold := nd.Threshold
			if threshold == 0 {
				threshold = 1
			}
			return NewParallel(name, threshold, children...), nil
		case "action":
			fn, err := reg.NewAction(nd.Action, nd.Params)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return NewAction(name, fn), nil
		case "condition":
			fn, err := reg.NewCondition(nd.Condition, nd.Params)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return NewCondition(name, fn), nil
		default:
			return nil, fmt.Errorf("%s: %w: %q", name, ErrUnknownNodeType, nd.Type)
		}
	}

	root, err := build(d.Root)
	if err != nil {
		return nil, err
	}
	return NewTree(root)
}
