package geo

import "math"

// Vec2 is a point or displacement in the simulation plane.
// The coordinate system matches the scene: x grows right, y grows down.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is a shorthand constructor for Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the Euclidean length of the vector.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the Euclidean distance from v to o.
func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAngle wraps an angle in degrees into [0, 360).
// Repeated avoidance turns can push a heading arbitrarily far outside
// the range, so any finite input must be handled.
func NormalizeAngle(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// RotatePoint rotates p about the origin by the given angle in radians.
func RotatePoint(p Vec2, rad float64) Vec2 {
	sin, cos := math.Sincos(rad)
	return Vec2{
		X: cos*p.X - sin*p.Y,
		Y: sin*p.X + cos*p.Y,
	}
}
