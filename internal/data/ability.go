package data

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrAbilityExists is returned when an (id, difficulty) pair is registered twice.
var ErrAbilityExists = errors.New("ability already registered")

// Trigger classifies when a creature fires an ability on its own.
type Trigger int8

const (
	TriggerNone   Trigger = iota // not used by generic AI
	TriggerAggro                 // cast once when combat starts
	TriggerDeath                 // cast at the killer on death
	TriggerCombat                // recurring cooldown loop while in combat
)

// String returns human-readable trigger name
func (t Trigger) String() string {
	switch t {
	case TriggerNone:
		return "NONE"
	case TriggerAggro:
		return "AGGRO"
	case TriggerDeath:
		return "DEATH"
	case TriggerCombat:
		return "COMBAT"
	default:
		return "UNKNOWN"
	}
}

// ParseTrigger maps a data-file name onto a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	switch s {
	case "", "none":
		return TriggerNone, nil
	case "aggro", "on_aggro":
		return TriggerAggro, nil
	case "death", "on_death":
		return TriggerDeath, nil
	case "combat", "cooldown_loop", "on_cooldown_loop":
		return TriggerCombat, nil
	default:
		return TriggerNone, fmt.Errorf("unknown ability trigger %q", s)
	}
}

// AbilityDescriptor is the immutable AI-facing metadata of one ability
// for one difficulty tier. Shared across all creatures; never modify after
// registration.
type AbilityDescriptor struct {
	ID         int32
	Difficulty Difficulty
	Name       string

	// Cooldown is the base value used by the fuzzed melee-caster loop.
	Cooldown time.Duration
	// RealCooldown is the post-database cooldown used by ranged casters.
	RealCooldown time.Duration
	CastTime     time.Duration

	MinRange float64
	MaxRange float64

	Trigger Trigger
}

type abilityKey struct {
	id         int32
	difficulty Difficulty
}

// AbilityRegistry indexes ability descriptors by (id, difficulty).
//
// Safe for concurrent Lookup. Register is expected during loading only.
type AbilityRegistry struct {
	mu    sync.RWMutex
	table map[abilityKey]*AbilityDescriptor
}

// NewAbilityRegistry returns an empty registry.
func NewAbilityRegistry() *AbilityRegistry {
	return &AbilityRegistry{table: make(map[abilityKey]*AbilityDescriptor, 64)}
}

// Register stores a copy of desc. Returns ErrAbilityExists on collision.
func (r *AbilityRegistry) Register(desc AbilityDescriptor) error {
	if desc.ID <= 0 {
		return fmt.Errorf("registering ability %d: id must be positive", desc.ID)
	}
	key := abilityKey{id: desc.ID, difficulty: desc.Difficulty}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.table[key]; exists {
		return fmt.Errorf("registering ability %d (%s): %w", desc.ID, desc.Difficulty, ErrAbilityExists)
	}
	d := desc
	r.table[key] = &d
	return nil
}

// Lookup returns the descriptor for id on the given tier. A tier-specific
// entry wins over the tier-independent one. Returns nil, false when the
// ability is not defined for the tier.
func (r *AbilityRegistry) Lookup(id int32, difficulty Difficulty) (*AbilityDescriptor, bool) {
	if id <= 0 {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.table[abilityKey{id: id, difficulty: difficulty}]; ok {
		return d, true
	}
	if difficulty != DifficultyNone {
		if d, ok := r.table[abilityKey{id: id, difficulty: DifficultyNone}]; ok {
			return d, true
		}
	}
	return nil, false
}

// Len returns number of registered descriptors.
func (r *AbilityRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.table)
}

// All returns a copy of every registered descriptor, in no particular order.
func (r *AbilityRegistry) All() []AbilityDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]AbilityDescriptor, 0, len(r.table))
	for _, d := range r.table {
		out = append(out, *d)
	}
	return out
}
