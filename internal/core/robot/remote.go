package robot

import (
	"github.com/google/uuid"

	"github.com/robosim/robosim/internal/core/arena"
	"github.com/robosim/robosim/internal/core/geo"
)

// DefaultRotationStep is the heading change in degrees a remote robot
// receives per tick while a rotation intent is latched.
const DefaultRotationStep = 10.0

// RotationDirection is the latched rotation intent of a remote robot.
type RotationDirection int

const (
	NoRotation RotationDirection = iota
	RotateLeft
	RotateRight
)

// String returns a stable name for the direction.
func (d RotationDirection) String() string {
	switch d {
	case RotateLeft:
		return "left"
	case RotateRight:
		return "right"
	default:
		return "none"
	}
}

// Remote is a remote-controlled robot. It moves only between an
// explicit MoveForward and the next Stop, and rotates only while a
// rotation intent is latched. Rotation commands record intent; the
// engine applies at most one rotation step per tick no matter how often
// the command arrives.
type Remote struct {
	base
	rotation     RotationDirection
	rotationStep float64
}

// NewRemote creates a stopped remote robot at (x, y) facing right.
func NewRemote(scene SpatialQuery, x, y float64, speed int, detectionRadius float64) *Remote {
	return &Remote{
		base: base{
			id:              uuid.New(),
			pos:             geo.V(x, y),
			speed:           speed,
			detectionRadius: detectionRadius,
			scene:           scene,
		},
		rotationStep: DefaultRotationStep,
	}
}

// Kind returns KindRemote.
func (r *Remote) Kind() arena.Kind {
	return arena.KindRemote
}

// MoveForward switches the robot into the moving state. No effect while
// already moving.
func (r *Remote) MoveForward() {
	r.moving = true
}

// Stop halts the robot. Idempotent.
func (r *Remote) Stop() {
	r.moving = false
}

// RotateLeft latches a left rotation intent. The heading changes only
// when the engine applies the intent on a tick.
func (r *Remote) RotateLeft() {
	r.rotation = RotateLeft
}

// RotateRight latches a right rotation intent.
func (r *Remote) RotateRight() {
	r.rotation = RotateRight
}

// RotationDirection returns the latched intent.
func (r *Remote) RotationDirection() RotationDirection {
	return r.rotation
}

// ApplyRotation performs one rotation step for the latched direction.
// Called by the engine once per tick, whether or not the robot moves.
func (r *Remote) ApplyRotation() {
	switch r.rotation {
	case RotateLeft:
		r.heading = geo.NormalizeAngle(r.heading - r.rotationStep)
	case RotateRight:
		r.heading = geo.NormalizeAngle(r.heading + r.rotationStep)
	}
}

// Update advances one tick while moving and self-stops when an obstacle
// enters the sensor cone. Once stopped this way the robot stays put
// until the next MoveForward; the obstacle is not re-checked while
// stopped.
func (r *Remote) Update() {
	if !r.moving {
		return
	}

	r.advance()
	r.heading = geo.NormalizeAngle(r.heading)

	if r.DetectObstacle() {
		r.Stop()
	}
}

// DetectObstacle reports whether an obstacle overlaps the sensor cone.
func (r *Remote) DetectObstacle() bool {
	return r.detect()
}
