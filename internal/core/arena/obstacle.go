package arena

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/robosim/robosim/internal/core/geo"
)

// Obstacle is a static axis-aligned square region. Its geometry never
// changes after creation; the marked flag is a purely visual hint used
// by delete mode.
type Obstacle struct {
	id     uuid.UUID
	pos    geo.Vec2 // top-left corner
	size   float64
	marked bool
}

// NewObstacle creates an obstacle with its top-left corner at (x, y).
func NewObstacle(x, y, size float64) (*Obstacle, error) {
	if size <= 0 {
		return nil, fmt.Errorf("obstacle size must be positive, got %v", size)
	}
	return &Obstacle{
		id:   uuid.New(),
		pos:  geo.V(x, y),
		size: size,
	}, nil
}

// ID returns the obstacle's unique identifier.
func (o *Obstacle) ID() uuid.UUID {
	return o.id
}

// Kind returns KindObstacle.
func (o *Obstacle) Kind() Kind {
	return KindObstacle
}

// Bounds returns the occupied square region.
func (o *Obstacle) Bounds() geo.Rect {
	return geo.R(o.pos.X, o.pos.Y, o.size, o.size)
}

// Position returns the top-left corner.
func (o *Obstacle) Position() geo.Vec2 {
	return o.pos
}

// Size returns the side length.
func (o *Obstacle) Size() float64 {
	return o.size
}

// SetMarked toggles the visual delete marker. Detection ignores it.
func (o *Obstacle) SetMarked(marked bool) {
	o.marked = marked
}

// Marked reports whether the visual delete marker is set.
func (o *Obstacle) Marked() bool {
	return o.marked
}
