package geometry

import "github.com/chewxy/math32"

// BoundsOf returns the tightest box around the vertices. An empty slice yields
// the zero box.
func BoundsOf(vertices []Vec2) BoundingBox {
	if len(vertices) == 0 {
		return BoundingBox{}
	}
	min := Vec2{math32.MaxFloat32, math32.MaxFloat32}
	max := Vec2{-math32.MaxFloat32, -math32.MaxFloat32}
	for _, v := range vertices {
		min = min.Min(v)
		max = max.Max(v)
	}
	return BoundingBox{Min: min, Max: max}
}

// Centroid returns the vertex average.
func Centroid(vertices []Vec2) Vec2 {
	if len(vertices) == 0 {
		return Zero2
	}
	var sum Vec2
	for _, v := range vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float32(len(vertices)))
}

// EdgeNormals returns the unit normal of every edge, wrapping from the last
// vertex to the first. Degenerate edges are skipped.
func EdgeNormals(vertices []Vec2) []Vec2 {
	normals := make([]Vec2, 0, len(vertices))
	for i := range vertices {
		edge := vertices[(i+1)%len(vertices)].Sub(vertices[i])
		if edge.Len() < epsilon {
			continue
		}
		normals = append(normals, edge.Perp().Normalize())
	}
	return normals
}

// Project returns the scalar interval covered by the vertices along axis.
func Project(vertices []Vec2, axis Vec2) (min, max float32) {
	min, max = math32.MaxFloat32, -math32.MaxFloat32
	for _, v := range vertices {
		d := v.Dot(axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}
