package collision

import (
	"fmt"

	"github.com/zeusync/quadworld/internal/core/geometry"
	"github.com/zeusync/quadworld/internal/core/models"
)

// Kind tags the collider shape. The zero Kind is not a valid shape.
type Kind uint8

const (
	KindAABB Kind = iota + 1
	KindConvex
)

func (k Kind) String() string {
	switch k {
	case KindAABB:
		return "aabb"
	case KindConvex:
		return "convex"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Collider is a shape attached to an entity. Its local geometry is expressed
// relative to the owner's position.
type Collider struct {
	models.Base

	kind     Kind
	local    geometry.BoundingBox
	vertices []geometry.Vec2
}

// NewAABB attaches an axis-aligned box collider to owner. The box follows the
// owner's position but ignores its scale.
func NewAABB(owner *models.Entity, local geometry.BoundingBox) *Collider {
	c := &Collider{Base: models.NewBase(owner), kind: KindAABB, local: local}
	owner.AddComponent(c)
	return c
}

// NewConvex attaches a convex polygon collider to owner. Vertices are scaled by
// the owner's X/Z scale and then offset by its position.
func NewConvex(owner *models.Entity, vertices []geometry.Vec2) (*Collider, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDegenerateShape, len(vertices))
	}
	c := &Collider{
		Base:     models.NewBase(owner),
		kind:     KindConvex,
		local:    geometry.BoundsOf(vertices),
		vertices: append([]geometry.Vec2(nil), vertices...),
	}
	owner.AddComponent(c)
	return c, nil
}

func (c *Collider) Kind() Kind {
	return c.kind
}

// WorldBounds returns the collider's box in world space.
func (c *Collider) WorldBounds() geometry.BoundingBox {
	t := c.Owner().Transform()
	if c.kind == KindConvex {
		return c.local.Scale3(t.Scale()).Translate3(t.Position())
	}
	return c.local.Translate3(t.Position())
}

// WorldVertices returns the polygon in world space. Box colliders report the
// corners of their world bounds.
func (c *Collider) WorldVertices() []geometry.Vec2 {
	if c.kind != KindConvex {
		corners := c.WorldBounds().Corners()
		return corners[:]
	}
	t := c.Owner().Transform()
	scale := t.Scale().Plane()
	offset := t.Position().Plane()
	out := make([]geometry.Vec2, len(c.vertices))
	for i, v := range c.vertices {
		out[i] = v.Mul(scale).Add(offset)
	}
	return out
}

// Center is the midpoint of the world bounds.
func (c *Collider) Center() geometry.Vec2 {
	return c.WorldBounds().Center()
}
