package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Arithmetic(t *testing.T) {
	v := V(3, 4)

	assert.Equal(t, V(4, 6), v.Add(V(1, 2)))
	assert.Equal(t, V(2, 2), v.Sub(V(1, 2)))
	assert.Equal(t, V(6, 8), v.Scale(2))
	assert.InDelta(t, 5.0, v.Len(), 1e-12)
	assert.InDelta(t, 5.0, V(0, 0).Distance(v), 1e-12)
	assert.InDelta(t, 11.0, v.Dot(V(1, 2)), 1e-12)
}

func TestAngleConversion(t *testing.T) {
	assert.InDelta(t, math.Pi, Radians(180), 1e-12)
	assert.InDelta(t, 90.0, Degrees(math.Pi/2), 1e-12)
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-360, 0},
		// Many accumulated avoidance turns can push the heading far
		// outside a single revolution in either direction.
		{360*1000 + 45, 45},
		{-360*1000 - 45, 315},
	}
	for _, c := range cases {
		got := NormalizeAngle(c.in)
		assert.InDelta(t, c.want, got, 1e-9, "NormalizeAngle(%v)", c.in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 360.0)
	}
}

func TestRotatePoint(t *testing.T) {
	// Quarter turn maps the x axis onto the y axis.
	got := RotatePoint(V(1, 0), Radians(90))
	assert.InDelta(t, 0.0, got.X, 1e-12)
	assert.InDelta(t, 1.0, got.Y, 1e-12)

	// Full turn is the identity.
	got = RotatePoint(V(3, -2), Radians(360))
	assert.InDelta(t, 3.0, got.X, 1e-12)
	assert.InDelta(t, -2.0, got.Y, 1e-12)

	// Rotation preserves length.
	got = RotatePoint(V(3, 4), Radians(33))
	assert.InDelta(t, 5.0, got.Len(), 1e-12)
}
