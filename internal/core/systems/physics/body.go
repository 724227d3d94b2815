package physics

import (
	"github.com/chewxy/math32"

	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/input"
	"github.com/zeusync/quadworld/internal/core/models"
)

var _ models.Updater = (*Body)(nil)

// Body moves its owner with a constant planar velocity every frame.
// Static bodies never move, whatever their velocity.
type Body struct {
	models.Base

	Velocity geometry.Vec2
	Static   bool
	// MaxSpeed caps the velocity magnitude when positive.
	MaxSpeed float32
}

// NewBody attaches a body to owner.
func NewBody(owner *models.Entity, velocity geometry.Vec2) *Body {
	b := &Body{Base: models.NewBase(owner), Velocity: velocity}
	owner.AddComponent(b)
	return b
}

// NewStatic attaches a body that never moves.
func NewStatic(owner *models.Entity) *Body {
	b := NewBody(owner, geometry.Zero2)
	b.Static = true
	return b
}

func (b *Body) Update(dt float32, _ []input.Touch) {
	if b.Static || dt <= 0 {
		return
	}
	step := b.velocity().Scale(dt)
	if step == geometry.Zero2 {
		return
	}
	b.Owner().Transform().Translate(step.XZ())
}

func (b *Body) velocity() geometry.Vec2 {
	if b.MaxSpeed <= 0 {
		return b.Velocity
	}
	speed := b.Velocity.Len()
	if speed <= b.MaxSpeed {
		return b.Velocity
	}
	return b.Velocity.Scale(b.MaxSpeed / speed)
}

// Speed is the magnitude of the effective velocity.
func (b *Body) Speed() float32 {
	if b.Static {
		return 0
	}
	v := b.velocity()
	return math32.Hypot(v.X, v.Y)
}

// Distance is the planar distance between the owners of two bodies.
func Distance(a, b *models.Entity) float32 {
	return a.Position().Plane().Distance(b.Position().Plane())
}
