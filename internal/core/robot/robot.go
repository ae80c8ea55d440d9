package robot

import (
	"math"

	"github.com/google/uuid"

	"github.com/robosim/robosim/internal/core/arena"
	"github.com/robosim/robosim/internal/core/geo"
)

// Radius is the drawn radius of every robot. Bounds and the near edge
// of the sensor cone are derived from it.
const Radius = 20.0

// stepFraction is the share of the remaining distance to the full-speed
// target covered each tick. The target is recomputed from the live
// heading every tick, which gives the characteristic eased approach.
const stepFraction = 0.1

// SpatialQuery answers overlap queries against the scene. Robots only
// read from it; scene membership is managed elsewhere.
type SpatialQuery interface {
	ItemsIntersecting(region geo.Rect) []arena.Entity
}

// Agent is the per-tick update contract shared by both robot kinds.
type Agent interface {
	arena.Entity
	Update()
	DetectObstacle() bool
	Position() geo.Vec2
	Heading() float64
	Speed() int
	Moving() bool
}

// base carries the pose, motion and sensing shared by both robot kinds.
type base struct {
	id              uuid.UUID
	pos             geo.Vec2
	heading         float64 // degrees, kept in [0, 360)
	speed           int
	detectionRadius float64
	moving          bool
	scene           SpatialQuery
}

// ID returns the robot's unique identifier.
func (b *base) ID() uuid.UUID {
	return b.id
}

// Position returns the current position.
func (b *base) Position() geo.Vec2 {
	return b.pos
}

// Heading returns the current heading in degrees, in [0, 360).
func (b *base) Heading() float64 {
	return b.heading
}

// Speed returns the full-speed displacement per tick.
func (b *base) Speed() int {
	return b.speed
}

// Moving reports whether the robot advances on the next tick.
func (b *base) Moving() bool {
	return b.moving
}

// DetectionRadius returns the length of the sensor cone.
func (b *base) DetectionRadius() float64 {
	return b.detectionRadius
}

// Bounds returns the square region the robot occupies in the scene.
func (b *base) Bounds() geo.Rect {
	return geo.RectAround(b.pos, Radius)
}

// advance moves the robot a tenth of the way toward the point one full
// step ahead on the current heading. Zero speed leaves the position
// untouched.
func (b *base) advance() {
	rad := geo.Radians(b.heading)
	target := b.pos.Add(geo.V(
		float64(b.speed)*math.Cos(rad),
		float64(b.speed)*math.Sin(rad),
	))
	b.pos = b.pos.Add(target.Sub(b.pos).Scale(stepFraction))
}

// fieldOfView builds the forward sensor trapezoid in world space: a
// narrow edge at the robot rim widening to detectionRadius·tan(30°) at
// full range, rotated by the heading and placed at the robot's
// position.
func (b *base) fieldOfView() geo.Polygon {
	halfFar := b.detectionRadius * math.Tan(math.Pi/6)
	halfNear := halfFar / 4
	if halfNear > Radius/3 {
		halfNear = Radius / 3
	}

	rad := geo.Radians(b.heading)
	corners := [4]geo.Vec2{
		{X: Radius, Y: -halfNear},
		{X: Radius, Y: halfNear},
		{X: b.detectionRadius + Radius, Y: halfFar},
		{X: b.detectionRadius + Radius, Y: -halfFar},
	}

	pts := make([]geo.Vec2, 0, len(corners))
	for _, c := range corners {
		pts = append(pts, geo.RotatePoint(c, rad).Add(b.pos))
	}
	return geo.NewPolygon(pts...)
}

// detect reports whether any obstacle overlaps the sensor cone. Other
// robots and the sensing robot itself never count as hits. A scene with
// nothing in range is the common case, not a failure.
func (b *base) detect() bool {
	if b.scene == nil {
		return false
	}

	cone := b.fieldOfView()
	for _, e := range b.scene.ItemsIntersecting(cone.BoundingBox()) {
		if e.Kind() != arena.KindObstacle {
			continue
		}
		if cone.IntersectsRect(e.Bounds()) {
			return true
		}
	}
	return false
}
