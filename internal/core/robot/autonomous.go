package robot

import (
	"github.com/google/uuid"

	"github.com/robosim/robosim/internal/core/arena"
	"github.com/robosim/robosim/internal/core/geo"
)

// Orientation is one of the four initial facings an autonomous robot
// can be created with.
type Orientation int

const (
	OrientationTop Orientation = iota
	OrientationRight
	OrientationBottom
	OrientationLeft
)

// Heading returns the heading in degrees for the facing. Unknown values
// fall back to facing right.
func (o Orientation) Heading() float64 {
	switch o {
	case OrientationTop:
		return 270
	case OrientationRight:
		return 0
	case OrientationBottom:
		return 90
	case OrientationLeft:
		return 180
	default:
		return 0
	}
}

// Autonomous is a self-driving robot. It advances along its heading
// every tick and turns by its avoidance angle whenever the sensor cone
// reports an obstacle. It never halts, it only reorients.
type Autonomous struct {
	base
	avoidanceAngle float64
	avoiding       bool
}

// NewAutonomous creates an autonomous robot at (x, y) with the given
// initial facing.
func NewAutonomous(scene SpatialQuery, x, y float64, orient Orientation, detectionRadius, avoidanceAngle float64, speed int) *Autonomous {
	return &Autonomous{
		base: base{
			id:              uuid.New(),
			pos:             geo.V(x, y),
			heading:         orient.Heading(),
			speed:           speed,
			detectionRadius: detectionRadius,
			moving:          true,
			scene:           scene,
		},
		avoidanceAngle: avoidanceAngle,
	}
}

// Kind returns KindAutonomous.
func (a *Autonomous) Kind() arena.Kind {
	return arena.KindAutonomous
}

// AvoidanceAngle returns the turn increment applied on detection.
func (a *Autonomous) AvoidanceAngle() float64 {
	return a.avoidanceAngle
}

// Avoiding reports whether the last Update saw an obstacle in the cone.
func (a *Autonomous) Avoiding() bool {
	return a.avoiding
}

// Update advances one tick: integrate along the current heading, then
// turn if an obstacle sits in the sensor cone. The turn changes the
// heading only; it steers the motion starting with the next tick. While
// an obstacle stays in the cone the turn accumulates tick after tick.
func (a *Autonomous) Update() {
	a.advance()
	a.heading = geo.NormalizeAngle(a.heading)

	a.avoiding = a.DetectObstacle()
	if a.avoiding {
		a.heading = geo.NormalizeAngle(a.heading + a.avoidanceAngle)
	}
}

// DetectObstacle reports whether an obstacle overlaps the sensor cone.
func (a *Autonomous) DetectObstacle() bool {
	return a.detect()
}
