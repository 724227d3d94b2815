package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/models"
)

func TestBodyMovesOwner(t *testing.T) {
	e := models.NewEntity("ball", geometry.V3(1, 2, 3))
	b := NewBody(e, geometry.V2(10, -4))

	b.Update(0.5, nil)
	assert.Equal(t, geometry.V3(6, 2, 1), e.Position())
	assert.Equal(t, geometry.V3(5, 0, -2), e.Transform().Delta())

	b.Update(0, nil)
	assert.Equal(t, geometry.V3(6, 2, 1), e.Position(), "zero dt does not move")
}

func TestStaticBodyNeverMoves(t *testing.T) {
	e := models.NewEntity("wall", geometry.Zero3)
	b := NewStatic(e)
	b.Velocity = geometry.V2(3, 3)

	b.Update(1, nil)
	assert.Equal(t, geometry.Zero3, e.Position())
	assert.Zero(t, b.Speed())
}

func TestMaxSpeedCapsVelocity(t *testing.T) {
	e := models.NewEntity("runner", geometry.Zero3)
	b := NewBody(e, geometry.V2(30, 40))
	b.MaxSpeed = 5

	assert.InDelta(t, 5, b.Speed(), 1e-5)
	b.Update(1, nil)
	assert.InDelta(t, 3, e.Position().X, 1e-5)
	assert.InDelta(t, 4, e.Position().Z, 1e-5)

	other := models.NewEntity("origin", geometry.Zero3)
	assert.InDelta(t, 5, Distance(e, other), 1e-5)
}
