package config

import (
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// Seconds is a duration that reads either a plain number of seconds
// (key_delay: 0.05) or a Go duration string (key_delay: 50ms).
type Seconds time.Duration

func (s Seconds) Std() time.Duration { return time.Duration(s) }

func (s Seconds) String() string { return time.Duration(s).String() }

func (s *Seconds) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: duration must be a scalar", ErrInvalid, node.Line)
	}

	switch node.ShortTag() {
	case "!!int", "!!float":
		var secs float64
		if err := node.Decode(&secs); err != nil {
			return err
		}
		*s = Seconds(math.Round(secs * float64(time.Second)))
		return nil
	}

	d, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("%w: line %d: %w", ErrInvalid, node.Line, err)
	}
	*s = Seconds(d)
	return nil
}

func (s Seconds) MarshalYAML() (any, error) {
	return time.Duration(s).String(), nil
}
