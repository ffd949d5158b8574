package data

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// MaxCreatureSpells is the number of ability slots on a creature template.
const MaxCreatureSpells = 8

// ErrTemplateExists is returned when a template entry is registered twice.
var ErrTemplateExists = errors.New("creature template already registered")

// CreatureTemplate is the static definition a creature is spawned from.
type CreatureTemplate struct {
	Entry  int32
	Name   string
	AIName string // explicit controller name; empty selects by permission

	// Spells holds ability ids by slot; zero means the slot is unset.
	Spells [MaxCreatureSpells]int32

	Level          int32
	MaxHP          int32
	MeleeDamage    int32
	MeleeRange     float64
	AggroRange     float64 // players closer than this are engaged on sight
	AttackInterval time.Duration

	Civilian     bool
	NeutralToAll bool
	Vehicle      bool
	Seats        int
}

// TemplateRegistry indexes creature templates by entry.
type TemplateRegistry struct {
	mu        sync.RWMutex
	templates map[int32]*CreatureTemplate
}

// NewTemplateRegistry returns an empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[int32]*CreatureTemplate, 16)}
}

// Register stores tmpl. Returns ErrTemplateExists on collision.
func (r *TemplateRegistry) Register(tmpl CreatureTemplate) error {
	if tmpl.Entry <= 0 {
		return fmt.Errorf("registering template %q: entry must be positive", tmpl.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[tmpl.Entry]; exists {
		return fmt.Errorf("registering template %d: %w", tmpl.Entry, ErrTemplateExists)
	}
	t := tmpl
	r.templates[tmpl.Entry] = &t
	return nil
}

// Get returns the template for entry.
func (r *TemplateRegistry) Get(entry int32) (*CreatureTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[entry]
	return t, ok
}

// All returns every registered template, in no particular order.
func (r *TemplateRegistry) All() []*CreatureTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*CreatureTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	return out
}
