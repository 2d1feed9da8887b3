package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lixenwraith/breakout/entity"
	"github.com/lixenwraith/breakout/geom"
)

// ErrIndexOutOfRange is returned by Get for an index outside [0, Count())
var ErrIndexOutOfRange = errors.New("entity index out of range")

// World owns the ordered entity collection and the playfield bounds
// A single mutex guards every entity read and write; the move loop holds it for one tick
type World struct {
	mu       sync.Mutex
	field    geom.Rect
	entities []*entity.Entity
}

// NewWorld creates an empty world with a playfield of width x height anchored at the origin
func NewWorld(width, height int) *World {
	return &World{
		field:    geom.NewRect(0, 0, width, height),
		entities: make([]*entity.Entity, 0, 64),
	}
}

// Playfield returns the bounds entities must stay within
func (w *World) Playfield() geom.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.field
}

// Add appends an entity, insertion order is preserved
func (w *World) Add(e *entity.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entities = append(w.entities, e)
}

// Count returns the number of entities
func (w *World) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entities)
}

// Get returns the entity at insertion index i
func (w *World) Get(i int) (*entity.Entity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if i < 0 || i >= len(w.entities) {
		return nil, fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfRange, i, len(w.entities))
	}
	return w.entities[i], nil
}

// Reset restores every entity to its setup state, the collection is left intact
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, e := range w.entities {
		e.Reset()
	}
}

// RunSafe executes fn with the entity slice while holding the world lock
// fn must not call other World methods
func (w *World) RunSafe(fn func(field geom.Rect, entities []*entity.Entity)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.field, w.entities)
}

// Snapshot returns value copies of all entities for rendering outside the lock
func (w *World) Snapshot() []entity.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]entity.Entity, len(w.entities))
	for i, e := range w.entities {
		out[i] = *e
	}
	return out
}

// tick runs one move step under the world lock
func (w *World) tick() []entity.Contact {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stepMoveables()
}

// stepMoveables advances every moveable entity once; caller holds the lock
// Bricks hit during the step are broken before the next ball moves
func (w *World) stepMoveables() []entity.Contact {
	var contacts []entity.Contact
	obstacles := make([]*entity.Entity, 0, len(w.entities))

	for _, e := range w.entities {
		if !e.Moveable() {
			continue
		}

		obstacles = obstacles[:0]
		for _, o := range w.entities {
			if o.Obstacle() {
				obstacles = append(obstacles, o)
			}
		}

		c := e.Step(w.field, obstacles)
		for _, hit := range c.Hits {
			hit.Break()
		}
		if !c.Empty() {
			contacts = append(contacts, c)
		}
	}
	return contacts
}
