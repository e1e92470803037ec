package world

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Perception is one snapshot handed over by the detection collaborator.
// Optional vitals are nil when the frame did not carry them.
type Perception struct {
	Frame          uint64      `json:"frame"`
	Detections     []Detection `json:"detections"`
	Health         *float64    `json:"health,omitempty"`
	Hunger         *float64    `json:"hunger,omitempty"`
	InventoryCount *int        `json:"inventory_count,omitempty"`
}

type rawPerception struct {
	Frame          uint64         `mapstructure:"frame"`
	Detections     []rawDetection `mapstructure:"detections"`
	Health         *float64       `mapstructure:"health"`
	Hunger         *float64       `mapstructure:"hunger"`
	InventoryCount *int           `mapstructure:"inventory_count"`
}

type rawDetection struct {
	ClassID    int       `mapstructure:"class_id"`
	ClassName  string    `mapstructure:"class_name"`
	Confidence float64   `mapstructure:"confidence"`
	BBox       []float64 `mapstructure:"bbox"`
	Center     []float64 `mapstructure:"center"`
}

// DecodePerception turns the loosely typed payload produced by the detector
// into a Perception. Malformed detections are rejected here so nothing past the
// boundary has to validate them again.
func DecodePerception(payload map[string]any) (Perception, error) {
	var raw rawPerception
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Perception{}, err
	}
	if err = dec.Decode(payload); err != nil {
		return Perception{}, fmt.Errorf("%w: %v", ErrMalformedPerception, err)
	}

	p := Perception{
		Frame:          raw.Frame,
		Health:         raw.Health,
		Hunger:         raw.Hunger,
		InventoryCount: raw.InventoryCount,
		Detections:     make([]Detection, 0, len(raw.Detections)),
	}
	for i, rd := range raw.Detections {
		d, err := rd.toDetection()
		if err != nil {
			return Perception{}, fmt.Errorf("detection %d: %w", i, err)
		}
		p.Detections = append(p.Detections, d)
	}
	return p, nil
}

func (rd rawDetection) toDetection() (Detection, error) {
	if rd.ClassName == "" {
		return Detection{}, fmt.Errorf("%w: empty class_name", ErrMalformedDetection)
	}
	if len(rd.BBox) != 4 {
		return Detection{}, fmt.Errorf("%w: bbox has %d values, want 4", ErrMalformedDetection, len(rd.BBox))
	}
	d := Detection{
		ClassID:    rd.ClassID,
		ClassName:  rd.ClassName,
		Confidence: rd.Confidence,
		BBox:       BBox{X1: rd.BBox[0], Y1: rd.BBox[1], X2: rd.BBox[2], Y2: rd.BBox[3]},
	}
	switch len(rd.Center) {
	case 0:
		d.Center = d.BBox.Center()
	case 2:
		d.Center = Point{X: rd.Center[0], Y: rd.Center[1]}
	default:
		return Detection{}, fmt.Errorf("%w: center has %d values, want 2", ErrMalformedDetection, len(rd.Center))
	}
	return d, nil
}

// FilterConfidence drops detections below min, keeping the original order.
func (p Perception) FilterConfidence(min float64) Perception {
	if min <= 0 {
		return p
	}
	kept := make([]Detection, 0, len(p.Detections))
	for _, d := range p.Detections {
		if d.Confidence >= min {
			kept = append(kept, d)
		}
	}
	p.Detections = kept
	return p
}
