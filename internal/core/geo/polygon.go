package geo

import "math"

// Polygon is a convex polygon defined by its vertices in order.
type Polygon struct {
	Vertices []Vec2
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Vec2) Polygon {
	return Polygon{Vertices: pts}
}

// BoundingBox returns the axis-aligned bounding box of the polygon.
func (p Polygon) BoundingBox() Rect {
	if len(p.Vertices) == 0 {
		return Rect{}
	}
	box := Rect{Min: p.Vertices[0], Max: p.Vertices[0]}
	for _, v := range p.Vertices[1:] {
		box.Min.X = math.Min(box.Min.X, v.X)
		box.Min.Y = math.Min(box.Min.Y, v.Y)
		box.Max.X = math.Max(box.Max.X, v.X)
		box.Max.Y = math.Max(box.Max.Y, v.Y)
	}
	return box
}

// IntersectsRect reports whether the polygon and the rectangle overlap,
// using the separating-axis test over the polygon's edge normals and
// the two rectangle axes. Both shapes must be convex; the polygon is by
// construction.
func (p Polygon) IntersectsRect(r Rect) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	if !p.BoundingBox().Intersects(r) {
		return false
	}

	rv := r.Vertices()
	axes := make([]Vec2, 0, n+2)
	for i := 0; i < n; i++ {
		e := p.Vertices[(i+1)%n].Sub(p.Vertices[i])
		axes = append(axes, Vec2{X: -e.Y, Y: e.X})
	}
	axes = append(axes, Vec2{X: 1}, Vec2{Y: 1})

	for _, axis := range axes {
		loA, hiA := project(p.Vertices, axis)
		loB, hiB := project(rv[:], axis)
		if hiA < loB || hiB < loA {
			return false
		}
	}
	return true
}

func project(pts []Vec2, axis Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, pt := range pts {
		d := pt.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
