package geometry

import (
	"math"

	"github.com/chewxy/math32"
)

// epsilon is the containment tolerance for world positions. It only admits
// points that sit exactly on an edge, nothing further out.
const epsilon = math.SmallestNonzeroFloat32

// Quadrant order produced by BoundingBox.Split.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// BoundingBox is an axis-aligned box on the ground plane. Min is expected to be
// component-wise less than or equal to Max; this is not enforced.
type BoundingBox struct {
	Min Vec2 `json:"min" yaml:"min"`
	Max Vec2 `json:"max" yaml:"max"`
}

func NewBoundingBox(min, max Vec2) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

// BoxAround returns the box of the given half extents centered on c.
func BoxAround(c Vec2, halfWidth, halfHeight float32) BoundingBox {
	h := Vec2{halfWidth, halfHeight}
	return BoundingBox{Min: c.Sub(h), Max: c.Add(h)}
}

func (b BoundingBox) Translate(by Vec2) BoundingBox {
	return BoundingBox{Min: b.Min.Add(by), Max: b.Max.Add(by)}
}

// Translate3 offsets the box by the X/Z components of a world vector.
func (b BoundingBox) Translate3(by Vec3) BoundingBox {
	return b.Translate(by.Plane())
}

// Scale3 multiplies both corners by the X/Z components of a world vector.
// Negative factors yield an inverted box.
func (b BoundingBox) Scale3(by Vec3) BoundingBox {
	s := by.Plane()
	return BoundingBox{Min: b.Min.Mul(s), Max: b.Max.Mul(s)}
}

// Intersects reports whether the boxes overlap. Touching edges count as overlap.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return !(b.Max.X < o.Min.X ||
		b.Min.X > o.Max.X ||
		b.Max.Y < o.Min.Y ||
		b.Min.Y > o.Max.Y)
}

// IntersectsRay runs the slab test of a world ray against the box lying flat
// at height zero. A ray parallel to a slab misses unless its origin lies
// within that slab.
func (b BoundingBox) IntersectsRay(r Ray) bool {
	lo := [3]float32{b.Min.X, 0, b.Min.Y}
	hi := [3]float32{b.Max.X, 0, b.Max.Y}
	origin := [3]float32{r.Position.X, r.Position.Y, r.Position.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}

	tmin, tmax := math32.Inf(-1), math32.Inf(1)
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return false
			}
			continue
		}
		inv := 1 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		tmin = math32.Max(tmin, math32.Min(t1, t2))
		tmax = math32.Min(tmax, math32.Max(t1, t2))
	}
	return tmin <= tmax
}

// Contains reports whether p lies strictly inside the box.
func (b BoundingBox) Contains(p Vec2) bool {
	return p.X > b.Min.X &&
		p.X < b.Max.X &&
		p.Y > b.Min.Y &&
		p.Y < b.Max.Y
}

// ContainsXZ reports whether a world position falls inside the box on the
// ground plane. Edges are inclusive and the height is ignored.
func (b BoundingBox) ContainsXZ(p Vec3) bool {
	return p.X >= b.Min.X-epsilon &&
		p.X <= b.Max.X+epsilon &&
		p.Z >= b.Min.Y-epsilon &&
		p.Z <= b.Max.Y+epsilon
}

// Split divides the box at its midpoint into TopLeft, TopRight, BottomRight and
// BottomLeft quadrants, in that order.
func (b BoundingBox) Split() [4]BoundingBox {
	c := b.Center()
	return [4]BoundingBox{
		TopLeft:     {Min: b.Min, Max: c},
		TopRight:    {Min: Vec2{c.X, b.Min.Y}, Max: Vec2{b.Max.X, c.Y}},
		BottomRight: {Min: c, Max: b.Max},
		BottomLeft:  {Min: Vec2{b.Min.X, c.Y}, Max: Vec2{c.X, b.Max.Y}},
	}
}

// Corners returns the vertices in winding order starting at Min.
func (b BoundingBox) Corners() [4]Vec2 {
	return [4]Vec2{
		b.Min,
		{b.Min.X, b.Max.Y},
		b.Max,
		{b.Max.X, b.Min.Y},
	}
}

func (b BoundingBox) Center() Vec2 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b BoundingBox) Size() Vec2 {
	return b.Max.Sub(b.Min)
}

func (b BoundingBox) Area() float32 {
	return (b.Max.X - b.Min.X) * (b.Max.Y - b.Min.Y)
}

// Ray is a world-space half line.
type Ray struct {
	Position  Vec3
	Direction Vec3
}
