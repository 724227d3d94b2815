package gesture

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/zeusync/quadworld/internal/core/geometry"
)

// Circle recognition thresholds.
const (
	MinSamples      = 10
	RadiusTolerance = 0.5
	MinPassRatio    = 0.8
	MinSweep        = 0.75 * 2 * math32.Pi
)

// Kind is the classification of a touch path.
type Kind uint8

const (
	Unfinished Kind = iota
	Unrecognized
	Circle
)

func (k Kind) String() string {
	switch k {
	case Unfinished:
		return "unfinished"
	case Unrecognized:
		return "unrecognized"
	case Circle:
		return "circle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Tracker records the path of one touch and classifies it once on release.
type Tracker struct {
	id     int64
	points []geometry.Vec2
	kind   Kind
	center geometry.Vec2
}

func NewTracker(id int64) *Tracker {
	return &Tracker{id: id, points: make([]geometry.Vec2, 0, 100)}
}

func (t *Tracker) ID() int64               { return t.id }
func (t *Tracker) Kind() Kind              { return t.kind }
func (t *Tracker) Finished() bool          { return t.kind != Unfinished }
func (t *Tracker) Points() []geometry.Vec2 { return t.points }

// Center is the fitted circle center. It is only set for Circle gestures.
func (t *Tracker) Center() geometry.Vec2 { return t.center }

// Add appends a sample. Samples after Finish are ignored.
func (t *Tracker) Add(p geometry.Vec2) {
	if t.Finished() {
		return
	}
	t.points = append(t.points, p)
}

// Finish classifies the recorded path. Later calls return the first result.
func (t *Tracker) Finish() Kind {
	if t.Finished() {
		return t.kind
	}
	kind, center := Classify(t.points)
	t.kind = kind
	if kind == Circle {
		t.center = center
	}
	return t.kind
}

// Fit holds the measurements Classify bases its decision on.
type Fit struct {
	Center  geometry.Vec2
	Radius  float32
	Passing int
	Sweep   float32
}

// Analyze fits a circle to the bounding box of the points and measures how
// well the path follows it. Sweep is the signed rotation in radians.
func Analyze(points []geometry.Vec2) Fit {
	bounds := geometry.BoundsOf(points)
	fit := Fit{
		Center: bounds.Center(),
		Radius: bounds.Min.Distance(bounds.Max) * 0.5,
	}

	for _, p := range points {
		if math32.Abs(p.Distance(fit.Center)-fit.Radius) < fit.Radius*RadiusTolerance {
			fit.Passing++
		}
	}
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Sub(fit.Center)
		curr := points[i].Sub(fit.Center)
		fit.Sweep += geometry.SignedAngle(prev, curr)
	}
	return fit
}

// Classify decides whether the path is a circle. Sparse paths are never
// recognized.
func Classify(points []geometry.Vec2) (Kind, geometry.Vec2) {
	if len(points) < MinSamples {
		return Unrecognized, geometry.Zero2
	}
	fit := Analyze(points)
	ratio := float32(fit.Passing) / float32(len(points))
	if ratio >= MinPassRatio && math32.Abs(fit.Sweep) > MinSweep {
		return Circle, fit.Center
	}
	return Unrecognized, geometry.Zero2
}
