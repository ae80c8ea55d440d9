package engine

import (
	"github.com/google/uuid"

	"github.com/robosim/robosim/internal/core/arena"
)

// RobotSnapshot is a read-only view of one robot for rendering and
// telemetry.
type RobotSnapshot struct {
	ID      uuid.UUID `json:"id"`
	Kind    string    `json:"kind"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Heading float64   `json:"heading"`
	Speed   int       `json:"speed"`
	Moving  bool      `json:"moving"`
}

// ObstacleSnapshot is a read-only view of one obstacle.
type ObstacleSnapshot struct {
	ID   uuid.UUID `json:"id"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Size float64   `json:"size"`
}

// Snapshot is a consistent view of the whole simulation at one tick
// boundary.
type Snapshot struct {
	Tick        uint64             `json:"tick"`
	Running     bool               `json:"running"`
	Paused      bool               `json:"paused"`
	Fingerprint uint64             `json:"fingerprint,omitempty"`
	Robots      []RobotSnapshot    `json:"robots"`
	Obstacles   []ObstacleSnapshot `json:"obstacles"`
}

// Snapshot captures every robot pose and obstacle in insertion order.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Tick:        e.tickCount,
		Running:     e.running,
		Paused:      e.paused,
		Fingerprint: e.fingerprint,
		Robots:      make([]RobotSnapshot, 0, len(e.robots)),
	}

	for _, a := range e.robots {
		pos := a.Position()
		snap.Robots = append(snap.Robots, RobotSnapshot{
			ID:      a.ID(),
			Kind:    a.Kind().String(),
			X:       pos.X,
			Y:       pos.Y,
			Heading: a.Heading(),
			Speed:   a.Speed(),
			Moving:  a.Moving(),
		})
	}

	for _, ent := range e.scene.Entities() {
		obstacle, ok := ent.(*arena.Obstacle)
		if !ok {
			continue
		}
		pos := obstacle.Position()
		snap.Obstacles = append(snap.Obstacles, ObstacleSnapshot{
			ID:   obstacle.ID(),
			X:    pos.X,
			Y:    pos.Y,
			Size: obstacle.Size(),
		})
	}

	return snap
}
