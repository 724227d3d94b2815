package collision

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/zeusync/quadworld/internal/core/geometry"
)

const separationEpsilon = math.SmallestNonzeroFloat32

// Result of a narrow-phase test. Axis is a unit vector pointing from B's
// center toward A's; moving A by Axis*Depth separates the shapes.
type Result struct {
	Collides bool
	Depth    float32
	Axis     geometry.Vec2
}

// Test runs the separating axis test on two convex polygons. The first axis
// that separates the projections ends the test.
func Test(a, b []geometry.Vec2) Result {
	axes := append(geometry.EdgeNormals(a), geometry.EdgeNormals(b)...)
	if len(axes) == 0 {
		return Result{}
	}

	best := Result{Collides: true, Depth: math32.MaxFloat32}
	for _, axis := range axes {
		minA, maxA := geometry.Project(a, axis)
		minB, maxB := geometry.Project(b, axis)
		if maxA+separationEpsilon < minB || maxB+separationEpsilon < minA {
			return Result{}
		}
		if depth := math32.Min(maxA-minB, maxB-minA); depth < best.Depth {
			best.Depth = depth
			best.Axis = axis
		}
	}

	if best.Axis.Dot(geometry.Centroid(a).Sub(geometry.Centroid(b))) < 0 {
		best.Axis = best.Axis.Neg()
	}
	return best
}

// ResolveAABB returns the push that moves box a out of box b along the axis of
// least overlap. Equal overlaps resolve along Z.
func ResolveAABB(a, b geometry.BoundingBox) (axis geometry.Vec2, depth float32) {
	overlapX := math32.Min(a.Max.X, b.Max.X) - math32.Max(a.Min.X, b.Min.X)
	overlapZ := math32.Min(a.Max.Y, b.Max.Y) - math32.Max(a.Min.Y, b.Min.Y)
	ca, cb := a.Center(), b.Center()

	if overlapX < overlapZ {
		if ca.X < cb.X {
			return geometry.V2(-1, 0), overlapX
		}
		return geometry.V2(1, 0), overlapX
	}
	if ca.Y < cb.Y {
		return geometry.V2(0, -1), overlapZ
	}
	return geometry.V2(0, 1), overlapZ
}
