package geometry

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Vec2 is a point or direction on the ground plane. Y maps to the world Z axis.
type Vec2 struct{ X, Y float32 }

// Vec3 is a world-space position. Only X and Z take part in spatial indexing.
type Vec3 struct{ X, Y, Z float32 }

var (
	Zero2 = Vec2{}
	Zero3 = Vec3{}
	One3  = Vec3{X: 1, Y: 1, Z: 1}
)

func V2(x, y float32) Vec2    { return Vec2{X: x, Y: y} }
func V3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2         { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Scale(f float32) Vec2    { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Neg() Vec2               { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dot(o Vec2) float32      { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float32    { return v.X*o.Y - v.Y*o.X }
func (v Vec2) Len() float32            { return math32.Hypot(v.X, v.Y) }
func (v Vec2) Distance(o Vec2) float32 { return o.Sub(v).Len() }

// Perp returns the left-hand perpendicular (-Y, X).
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Normalize returns the unit vector, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Zero2
	}
	return Vec2{v.X / l, v.Y / l}
}

func (v Vec2) Min(o Vec2) Vec2 { return Vec2{math32.Min(v.X, o.X), math32.Min(v.Y, o.Y)} }
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{math32.Max(v.X, o.X), math32.Max(v.Y, o.Y)} }

// XZ lifts the vector back into world space at height zero.
func (v Vec2) XZ() Vec3 { return Vec3{X: v.X, Z: v.Y} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(o Vec3) Vec3      { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Scale(f float32) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }
func (v Vec3) Len() float32         { return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Plane projects the position onto the ground plane (X, Z).
func (v Vec3) Plane() Vec2 { return Vec2{v.X, v.Z} }

// AddPlane offsets X and Z by the plane vector, leaving the height untouched.
func (v Vec3) AddPlane(o Vec2) Vec3 { return Vec3{v.X + o.X, v.Y, v.Z + o.Y} }

func (v Vec3) IsNaN() bool {
	return math32.IsNaN(v.X) || math32.IsNaN(v.Y) || math32.IsNaN(v.Z)
}

// SignedAngle returns the rotation in radians from a to b in (-Pi, Pi].
// Zero-length inputs produce no rotation.
func SignedAngle(a, b Vec2) float32 {
	if a.Len() < epsilon || b.Len() < epsilon {
		return 0
	}
	return math32.Atan2(a.Cross(b), a.Dot(b))
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
