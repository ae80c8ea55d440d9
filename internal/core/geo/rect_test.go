package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectBasics(t *testing.T) {
	r := R(10, 20, 30, 40)

	assert.Equal(t, V(10, 20), r.Min)
	assert.Equal(t, V(40, 60), r.Max)
	assert.InDelta(t, 30.0, r.Width(), 1e-12)
	assert.InDelta(t, 40.0, r.Height(), 1e-12)
	assert.Equal(t, V(25, 40), r.Center())
}

func TestRectAround(t *testing.T) {
	r := RectAround(V(5, 5), 20)
	assert.Equal(t, V(-15, -15), r.Min)
	assert.Equal(t, V(25, 25), r.Max)
}

func TestRectContains(t *testing.T) {
	r := R(0, 0, 10, 10)

	assert.True(t, r.Contains(V(5, 5)))
	assert.True(t, r.Contains(V(0, 0)), "edges count as inside")
	assert.True(t, r.Contains(V(10, 10)))
	assert.False(t, r.Contains(V(10.01, 5)))
}

func TestRectIntersects(t *testing.T) {
	r := R(0, 0, 10, 10)

	assert.True(t, r.Intersects(R(5, 5, 10, 10)))
	assert.True(t, r.Intersects(R(10, 0, 5, 5)), "touching edges overlap")
	assert.False(t, r.Intersects(R(10.5, 0, 5, 5)))
	assert.False(t, r.Intersects(R(0, -20, 10, 10)))
}
