package robot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robosim/robosim/internal/core/arena"
	"github.com/robosim/robosim/internal/core/geo"
)

func sceneWithObstacle(t *testing.T, x, y, size float64) *arena.Scene {
	t.Helper()
	s := arena.NewScene()
	o, err := arena.NewObstacle(x, y, size)
	require.NoError(t, err)
	require.NoError(t, s.Add(o))
	return s
}

func TestOrientationHeading(t *testing.T) {
	assert.Equal(t, 270.0, OrientationTop.Heading())
	assert.Equal(t, 0.0, OrientationRight.Heading())
	assert.Equal(t, 90.0, OrientationBottom.Heading())
	assert.Equal(t, 180.0, OrientationLeft.Heading())
	assert.Equal(t, 0.0, Orientation(42).Heading())
}

func TestAdvanceMovesTenthOfSpeedPerTick(t *testing.T) {
	r := NewAutonomous(arena.NewScene(), 0, 0, OrientationRight, 30, 45, 10)

	r.Update()
	assert.InDelta(t, 1.0, r.Position().X, 1e-9)
	assert.InDelta(t, 0.0, r.Position().Y, 1e-9)

	// The target is recomputed from the live pose every tick, so the
	// per-tick displacement stays a constant tenth of the speed.
	for i := 0; i < 9; i++ {
		r.Update()
	}
	assert.InDelta(t, 10.0, r.Position().X, 1e-9)
}

func TestAdvanceFollowsHeading(t *testing.T) {
	r := NewAutonomous(arena.NewScene(), 0, 0, OrientationBottom, 30, 45, 20)

	r.Update()
	assert.InDelta(t, 0.0, r.Position().X, 1e-9)
	assert.InDelta(t, 2.0, r.Position().Y, 1e-9)
}

func TestZeroSpeedStaysPut(t *testing.T) {
	r := NewAutonomous(arena.NewScene(), 5, 5, OrientationRight, 30, 45, 0)

	for i := 0; i < 10; i++ {
		r.Update()
	}
	assert.Equal(t, geo.V(5, 5), r.Position())
	assert.True(t, r.Moving(), "autonomous robots never halt")
}

func TestAutonomousAvoidsObstacle(t *testing.T) {
	scene := sceneWithObstacle(t, 25, -5, 10)
	r := NewAutonomous(scene, 0, 0, OrientationRight, 30, 45, 10)
	require.NoError(t, scene.Add(r))

	require.True(t, r.DetectObstacle(), "obstacle sits in the cone before the first tick")

	r.Update()
	assert.InDelta(t, 1.0, r.Position().X, 1e-9)
	assert.InDelta(t, 0.0, r.Position().Y, 1e-9)
	assert.True(t, r.Avoiding())
	assert.InDelta(t, 45.0, r.Heading(), 1e-9, "turn applied after the move")
}

func TestAutonomousTurnAccumulatesWhileDetecting(t *testing.T) {
	// The robot sits inside a huge obstacle, so the cone reports a hit
	// on every tick regardless of heading.
	scene := sceneWithObstacle(t, -1000, -1000, 2000)
	r := NewAutonomous(scene, 0, 0, OrientationRight, 30, 45, 0)

	r.Update()
	assert.InDelta(t, 45.0, r.Heading(), 1e-9)
	r.Update()
	assert.InDelta(t, 90.0, r.Heading(), 1e-9)

	// Eight 45-degree turns wrap back to the start.
	for i := 0; i < 6; i++ {
		r.Update()
	}
	assert.InDelta(t, 0.0, r.Heading(), 1e-9)
}

func TestAutonomousPassesClearSpace(t *testing.T) {
	scene := sceneWithObstacle(t, 500, 500, 10)
	r := NewAutonomous(scene, 0, 0, OrientationRight, 30, 45, 10)

	r.Update()
	assert.False(t, r.Avoiding())
	assert.InDelta(t, 0.0, r.Heading(), 1e-9)
}

func TestOtherRobotsAreNotObstacles(t *testing.T) {
	scene := arena.NewScene()
	other := NewRemote(scene, 30, 0, 0, 30)
	require.NoError(t, scene.Add(other))

	r := NewAutonomous(scene, 0, 0, OrientationRight, 30, 45, 10)
	assert.False(t, r.DetectObstacle(), "robots in the cone never count as hits")
}

func TestDetectWithoutScene(t *testing.T) {
	r := NewAutonomous(nil, 0, 0, OrientationRight, 30, 45, 10)
	assert.False(t, r.DetectObstacle())
}

func TestRemoteStartsStopped(t *testing.T) {
	r := NewRemote(arena.NewScene(), 0, 0, 10, 30)

	assert.False(t, r.Moving())
	assert.Equal(t, 0.0, r.Heading())
	assert.Equal(t, arena.KindRemote, r.Kind())

	r.Update()
	assert.Equal(t, geo.V(0, 0), r.Position(), "stopped robots never move")
}

func TestRemoteMoveAndStop(t *testing.T) {
	r := NewRemote(arena.NewScene(), 0, 0, 10, 30)

	r.MoveForward()
	assert.True(t, r.Moving())
	r.Update()
	assert.InDelta(t, 1.0, r.Position().X, 1e-9)

	r.Stop()
	r.Stop() // idempotent
	assert.False(t, r.Moving())
	r.Update()
	assert.InDelta(t, 1.0, r.Position().X, 1e-9)
}

func TestRemoteSelfStopsOnDetection(t *testing.T) {
	scene := sceneWithObstacle(t, 25, -5, 10)
	r := NewRemote(scene, 0, 0, 10, 30)
	require.NoError(t, scene.Add(r))

	r.MoveForward()
	r.Update()
	assert.InDelta(t, 1.0, r.Position().X, 1e-9)
	assert.False(t, r.Moving(), "detection halts the robot within the same tick")

	// The robot stays put until explicitly restarted.
	r.Update()
	assert.InDelta(t, 1.0, r.Position().X, 1e-9)

	// A fresh MoveForward overrides the self-stop; the sensor fires
	// again on the next tick.
	r.MoveForward()
	r.Update()
	assert.InDelta(t, 2.0, r.Position().X, 1e-9)
	assert.False(t, r.Moving())
}

func TestRemoteRotationIsLatchedIntent(t *testing.T) {
	r := NewRemote(arena.NewScene(), 0, 0, 10, 30)

	r.RotateLeft()
	r.RotateLeft()
	assert.Equal(t, RotateLeft, r.RotationDirection())
	assert.Equal(t, 0.0, r.Heading(), "commands latch intent, they do not rotate")

	r.ApplyRotation()
	assert.InDelta(t, 350.0, r.Heading(), 1e-9)
	r.ApplyRotation()
	assert.InDelta(t, 340.0, r.Heading(), 1e-9)

	r.RotateRight()
	r.ApplyRotation()
	assert.InDelta(t, 350.0, r.Heading(), 1e-9)
}

func TestRemoteRotatesWhileStopped(t *testing.T) {
	r := NewRemote(arena.NewScene(), 0, 0, 10, 30)

	r.RotateRight()
	r.ApplyRotation()
	r.Update()

	assert.Equal(t, geo.V(0, 0), r.Position())
	assert.InDelta(t, 10.0, r.Heading(), 1e-9)
}

func TestRotationDirectionString(t *testing.T) {
	assert.Equal(t, "none", NoRotation.String())
	assert.Equal(t, "left", RotateLeft.String())
	assert.Equal(t, "right", RotateRight.String())
}

func TestFieldOfViewGeometry(t *testing.T) {
	r := NewAutonomous(arena.NewScene(), 0, 0, OrientationRight, 30, 45, 10)
	cone := r.fieldOfView()
	require.Len(t, cone.Vertices, 4)

	box := cone.BoundingBox()
	assert.InDelta(t, 20.0, box.Min.X, 1e-9, "near edge starts at the robot rim")
	assert.InDelta(t, 50.0, box.Max.X, 1e-9, "far edge at rim plus detection radius")

	halfFar := 30 * math.Tan(math.Pi/6)
	assert.InDelta(t, -halfFar, box.Min.Y, 1e-9)
	assert.InDelta(t, halfFar, box.Max.Y, 1e-9)
}

func TestFieldOfViewNearEdgeClamp(t *testing.T) {
	// A long cone would make the near edge wider than a third of the
	// radius; it gets clamped so the cone never swallows the robot.
	r := NewAutonomous(arena.NewScene(), 0, 0, OrientationRight, 200, 45, 10)
	cone := r.fieldOfView()
	require.Len(t, cone.Vertices, 4)

	nearHalf := math.Abs(cone.Vertices[0].Y)
	assert.InDelta(t, Radius/3, nearHalf, 1e-9)
}

func TestBoundsCenteredOnPosition(t *testing.T) {
	r := NewRemote(arena.NewScene(), 100, 50, 10, 30)
	b := r.Bounds()

	assert.Equal(t, geo.V(80, 30), b.Min)
	assert.Equal(t, geo.V(120, 70), b.Max)
}
