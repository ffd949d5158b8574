package world

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/udisondev/creatureai/internal/ai"
	"github.com/udisondev/creatureai/internal/model"
)

// ErrObjectExists is returned when an objectID is added twice.
var ErrObjectExists = errors.New("object already in world")

// World indexes every live player and creature by objectID.
// Thread-safe via sync.Map; one World per encounter.
type World struct {
	objects   sync.Map // map[uint32]model.Target, players and creatures
	players   sync.Map // map[uint32]*model.Unit
	creatures sync.Map // map[uint32]*model.Creature
	count     atomic.Int32
	ids       *ObjectIDGenerator
}

// New creates an empty world with its own ID generator.
func New() *World {
	return &World{ids: NewObjectIDGenerator()}
}

// IDs returns the world's object ID generator.
func (w *World) IDs() *ObjectIDGenerator {
	return w.ids
}

func (w *World) add(id uint32, obj model.Target) error {
	if _, loaded := w.objects.LoadOrStore(id, obj); loaded {
		return fmt.Errorf("adding object %d: %w", id, ErrObjectExists)
	}
	w.count.Add(1)
	return nil
}

// AddPlayer adds a player.
func (w *World) AddPlayer(p *model.Unit) error {
	if err := w.add(p.ObjectID(), p); err != nil {
		return err
	}
	w.players.Store(p.ObjectID(), p)
	return nil
}

// AddCreature adds a creature.
func (w *World) AddCreature(c *model.Creature) error {
	if err := w.add(c.ObjectID(), c); err != nil {
		return err
	}
	w.creatures.Store(c.ObjectID(), c)
	return nil
}

// RemoveObject removes a player or creature.
func (w *World) RemoveObject(objectID uint32) {
	if _, ok := w.objects.LoadAndDelete(objectID); !ok {
		return
	}
	w.count.Add(-1)
	w.players.Delete(objectID)
	w.creatures.Delete(objectID)
}

// GetObject returns the player or creature with objectID.
// Matches model.ObjectLookupFunc.
func (w *World) GetObject(objectID uint32) (model.Target, bool) {
	value, ok := w.objects.Load(objectID)
	if !ok {
		return nil, false
	}
	return value.(model.Target), true
}

// GetPlayer returns the player with objectID.
func (w *World) GetPlayer(objectID uint32) (*model.Unit, bool) {
	value, ok := w.players.Load(objectID)
	if !ok {
		return nil, false
	}
	return value.(*model.Unit), true
}

// GetCreature returns the creature with objectID.
func (w *World) GetCreature(objectID uint32) (*model.Creature, bool) {
	value, ok := w.creatures.Load(objectID)
	if !ok {
		return nil, false
	}
	return value.(*model.Creature), true
}

// Passenger resolves a seated passenger. Matches ai.PassengerLookupFunc.
// Only units that can actually sit in a vehicle are returned.
func (w *World) Passenger(objectID uint32) (ai.Passenger, bool) {
	value, ok := w.objects.Load(objectID)
	if !ok {
		return nil, false
	}
	p, ok := value.(ai.Passenger)
	return p, ok
}

// ForEachCreature calls fn for every creature until fn returns false.
func (w *World) ForEachCreature(fn func(*model.Creature) bool) {
	w.creatures.Range(func(_, value any) bool {
		return fn(value.(*model.Creature))
	})
}

// PlayersInRange returns the living players within radius of loc.
func (w *World) PlayersInRange(loc model.Location, radius float64) []*model.Unit {
	var out []*model.Unit
	radiusSq := radius * radius
	w.players.Range(func(_, value any) bool {
		p := value.(*model.Unit)
		if p.IsAlive() && p.Location().DistanceSquared(loc) <= radiusSq {
			out = append(out, p)
		}
		return true
	})
	return out
}

// ObjectCount returns the number of objects (O(1) cached count).
func (w *World) ObjectCount() int {
	return int(w.count.Load())
}
