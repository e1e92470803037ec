package world

import "fmt"

// Point is a screen-space coordinate in capture pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BBox is an axis-aligned box given as top-left and bottom-right corners.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (b BBox) Width() float64  { return b.X2 - b.X1 }
func (b BBox) Height() float64 { return b.Y2 - b.Y1 }
func (b BBox) Area() float64   { return b.Width() * b.Height() }

func (b BBox) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

// Detection is one classified object reported by the detector.
type Detection struct {
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
	Center     Point   `json:"center"`
}

func (d Detection) String() string {
	return fmt.Sprintf("%s(%.2f @ %.0f,%.0f)", d.ClassName, d.Confidence, d.Center.X, d.Center.Y)
}

// Threat classes are hostile to the player; everything else is ignored.
var threatClasses = map[string]struct{}{
	"player":    {},
	"bear":      {},
	"wolf":      {},
	"scientist": {},
}

var resourceClasses = map[string]struct{}{
	"tree":  {},
	"stone": {},
	"ore":   {},
	"hemp":  {},
	"crate": {},
}

func IsThreat(className string) bool {
	_, ok := threatClasses[className]
	return ok
}

func IsResource(className string) bool {
	_, ok := resourceClasses[className]
	return ok
}
