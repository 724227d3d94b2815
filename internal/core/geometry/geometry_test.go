package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(minX, minY, maxX, maxY float32) BoundingBox {
	return NewBoundingBox(V2(minX, minY), V2(maxX, maxY))
}

func TestTranslateAndScale(t *testing.T) {
	b := box(-1, -1, 1, 1)

	assert.Equal(t, box(1, 2, 3, 4), b.Translate(V2(2, 3)))
	// height is ignored, Z drives the second plane axis
	assert.Equal(t, box(4, 9, 6, 11), b.Translate3(V3(5, 100, 10)))
	assert.Equal(t, box(-2, -3, 2, 3), b.Scale3(V3(2, 7, 3)))
}

func TestIntersectsSymmetric(t *testing.T) {
	boxes := []BoundingBox{
		box(0, 0, 1, 1),
		box(0.5, 0.5, 2, 2),
		box(1, 0, 2, 1), // shares an edge with the first
		box(3, 3, 4, 4),
		box(-10, -10, 10, 10),
		box(0.2, -5, 0.3, 5),
	}
	for i, a := range boxes {
		for j, b := range boxes {
			assert.Equalf(t, a.Intersects(b), b.Intersects(a), "pair %d/%d", i, j)
		}
	}

	assert.True(t, boxes[0].Intersects(boxes[1]))
	assert.True(t, boxes[0].Intersects(boxes[2]))
	assert.False(t, boxes[0].Intersects(boxes[3]))
	assert.True(t, boxes[4].Intersects(boxes[5]))
}

func TestContains(t *testing.T) {
	b := box(0, 0, 10, 10)

	assert.True(t, b.Contains(V2(5, 5)))
	assert.False(t, b.Contains(V2(0, 5)), "2D containment is strict")
	assert.False(t, b.Contains(V2(11, 5)))

	assert.True(t, b.ContainsXZ(V3(0, 99, 10)), "world containment includes edges and ignores height")
	assert.True(t, b.ContainsXZ(V3(5, -3, 5)))
	assert.False(t, b.ContainsXZ(V3(5, 0, 10.01)))
	assert.False(t, b.ContainsXZ(V3(float32(math.NaN()), 0, 5)))
}

func TestSplitExactness(t *testing.T) {
	b := box(-100, -40, 60, 20)
	quads := b.Split()

	c := b.Center()
	assert.Equal(t, box(-100, -40, c.X, c.Y), quads[TopLeft])
	assert.Equal(t, box(c.X, -40, 60, c.Y), quads[TopRight])
	assert.Equal(t, box(c.X, c.Y, 60, 20), quads[BottomRight])
	assert.Equal(t, box(-100, c.Y, c.X, 20), quads[BottomLeft])

	var area float32
	for _, q := range quads {
		area += q.Area()
	}
	assert.InDelta(t, b.Area(), area, 1e-3)

	// every sampled interior point belongs to exactly one quadrant interior,
	// points on the split lines belong to none
	for x := float32(-99.5); x < 60; x += 3 {
		for y := float32(-39.5); y < 20; y += 3 {
			p := V2(x, y)
			hits := 0
			for _, q := range quads {
				if q.Contains(p) {
					hits++
				}
			}
			if x == c.X || y == c.Y {
				assert.Zero(t, hits)
				continue
			}
			assert.Equalf(t, 1, hits, "point %v", p)
		}
	}
}

func TestCornersAndArea(t *testing.T) {
	b := box(1, 2, 4, 6)
	assert.Equal(t, [4]Vec2{V2(1, 2), V2(1, 6), V2(4, 6), V2(4, 2)}, b.Corners())
	assert.Equal(t, float32(12), b.Area())
	assert.Equal(t, V2(2.5, 4), b.Center())
}

func TestIntersectsRay(t *testing.T) {
	b := box(-1, -1, 1, 1)

	tests := []struct {
		name string
		ray  Ray
		want bool
	}{
		{"along x through box", Ray{Position: V3(-5, 0, 0), Direction: V3(1, 0, 0)}, true},
		{"parallel ray outside z slab", Ray{Position: V3(-5, 0, 3), Direction: V3(1, 0, 0)}, false},
		{"parallel ray above the ground", Ray{Position: V3(-5, 1, 0), Direction: V3(1, 0, 0)}, false},
		{"diagonal hit", Ray{Position: V3(-5, 0, -5), Direction: V3(1, 0, 1)}, true},
		{"diagonal miss", Ray{Position: V3(-5, 0, -3), Direction: V3(1, 0, -1)}, false},
		{"downward pick ray hits", Ray{Position: V3(0.5, 10, 0.5), Direction: V3(0, -1, 0)}, true},
		{"downward pick ray outside footprint", Ray{Position: V3(50, 10, 50), Direction: V3(0, -1, 0)}, false},
		{"ray along z outside x slab", Ray{Position: V3(100, 0, -5), Direction: V3(0, 0, 1)}, false},
		{"downward pick ray on the edge", Ray{Position: V3(1, 10, -1), Direction: V3(0, -1, 0)}, true},
		{"slanted pick ray misses", Ray{Position: V3(0, 10, 0), Direction: V3(1, -1, 0)}, false},
		{"slanted pick ray hits", Ray{Position: V3(0, 10, 0), Direction: V3(0.05, -1, 0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.IntersectsRay(tt.ray))
		})
	}
}

func TestPolygonHelpers(t *testing.T) {
	square := []Vec2{V2(0, 0), V2(0, 1), V2(1, 1), V2(1, 0)}

	assert.Equal(t, box(0, 0, 1, 1), BoundsOf(square))
	assert.Equal(t, V2(0.5, 0.5), Centroid(square))

	normals := EdgeNormals(square)
	require.Len(t, normals, 4)
	for _, n := range normals {
		assert.InDelta(t, 1, n.Len(), 1e-6)
	}

	min, max := Project(square, V2(1, 0))
	assert.Equal(t, float32(0), min)
	assert.Equal(t, float32(1), max)

	withDuplicate := []Vec2{V2(0, 0), V2(0, 0), V2(1, 0), V2(0, 1)}
	assert.Len(t, EdgeNormals(withDuplicate), 3)
}

func TestSignedAngle(t *testing.T) {
	assert.InDelta(t, math.Pi/2, SignedAngle(V2(1, 0), V2(0, 1)), 1e-6)
	assert.InDelta(t, -math.Pi/2, SignedAngle(V2(1, 0), V2(0, -1)), 1e-6)
	assert.Zero(t, SignedAngle(Zero2, V2(0, 1)))
	assert.Equal(t, 3, Clamp(7, 0, 3))
	assert.Equal(t, float32(-1), Clamp(float32(-2), -1, 1))
}
