package arena

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/robosim/robosim/internal/core/geo"
)

// Scene is the registry of every placed entity. It preserves insertion
// order so spatial query results and per-tick iteration stay
// deterministic. The engine only reads from it during a tick;
// membership changes come from the creation and control layers.
type Scene struct {
	mu       sync.RWMutex
	entities []Entity
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add registers an entity. Entities with a duplicate ID are rejected.
func (s *Scene) Add(e Entity) error {
	if e == nil {
		return fmt.Errorf("cannot add nil entity")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.entities {
		if existing.ID() == e.ID() {
			return fmt.Errorf("entity %s already in scene", e.ID())
		}
	}
	s.entities = append(s.entities, e)
	return nil
}

// Remove deletes the entity with the given ID, keeping the order of the
// remaining entities. Returns false if no such entity exists.
func (s *Scene) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entities {
		if e.ID() == id {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every entity.
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = nil
}

// Len returns the number of entities in the scene.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Entities returns a copy of all entities in insertion order.
func (s *Scene) Entities() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// ItemsIntersecting returns the entities whose bounds overlap region,
// in insertion order.
func (s *Scene) ItemsIntersecting(region geo.Rect) []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entity
	for _, e := range s.entities {
		if e.Bounds().Intersects(region) {
			out = append(out, e)
		}
	}
	return out
}

// Occupied reports whether any entity overlaps region. The creation
// layer uses this to reject placements on occupied space before an
// entity ever reaches the scene.
func (s *Scene) Occupied(region geo.Rect) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entities {
		if e.Bounds().Intersects(region) {
			return true
		}
	}
	return false
}
