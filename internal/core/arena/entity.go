package arena

import (
	"github.com/google/uuid"

	"github.com/robosim/robosim/internal/core/geo"
)

// Kind discriminates scene entities without runtime type inspection.
type Kind uint8

const (
	KindObstacle Kind = iota
	KindAutonomous
	KindRemote
)

// String returns a stable name for the kind, used in logs and snapshots.
func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindAutonomous:
		return "autonomous"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Entity is anything the scene can hold and answer spatial queries
// about.
type Entity interface {
	ID() uuid.UUID
	Kind() Kind
	Bounds() geo.Rect
}
