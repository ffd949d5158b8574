package model

import (
	"sync"
	"time"

	"github.com/udisondev/creatureai/internal/ai"
)

// Aura is an effect on a unit.
type Aura struct {
	ID       int32
	CasterID uint32
	// CrowdControl marks loss-of-control effects (stun, polymorph, fear).
	CrowdControl bool
	// BreaksOnDamage removes the aura when its holder takes damage.
	BreaksOnDamage bool
	// Channeled auras last only while the caster keeps channeling.
	Channeled bool
	// Remaining is the time left; zero means permanent.
	Remaining time.Duration
}

// Target is anything a creature can fight: players and other creatures.
type Target interface {
	ai.Unit
	Name() string
	IsPlayer() bool
	Location() Location
	// TakeDamage applies damage from attacker and reports whether it killed.
	TakeDamage(amount int32, attacker ai.Unit) bool
}

// ObjectLookupFunc resolves a live object by objectID.
// Injected by the world to avoid an import cycle.
type ObjectLookupFunc func(objectID uint32) (Target, bool)

// Unit is the state shared by players and creatures: identity, position,
// health and auras. Safe for concurrent use.
type Unit struct {
	objectID uint32
	name     string
	level    int32
	player   bool

	mu       sync.RWMutex
	location Location
	flying   bool
	hp       int32
	maxHP    int32
	auras    []Aura
	seat     *VehicleKit
}

func (u *Unit) init(objectID uint32, name string, level, maxHP int32, player bool, loc Location) {
	u.objectID = objectID
	u.name = name
	u.level = level
	u.player = player
	u.location = loc
	u.hp = maxHP
	u.maxHP = maxHP
}

// NewPlayer creates a player unit at full health.
func NewPlayer(objectID uint32, name string, level, maxHP int32, loc Location) *Unit {
	u := &Unit{}
	u.init(objectID, name, level, maxHP, true, loc)
	return u
}

// ObjectID returns the unique object ID (immutable after creation).
func (u *Unit) ObjectID() uint32 {
	return u.objectID
}

// Name returns the unit name.
func (u *Unit) Name() string {
	return u.name
}

// Level returns the unit level.
func (u *Unit) Level() int32 {
	return u.level
}

// IsPlayer reports whether the unit is player controlled.
func (u *Unit) IsPlayer() bool {
	return u.player
}

// Location returns a copy of the unit position.
func (u *Unit) Location() Location {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.location
}

// SetLocation moves the unit.
func (u *Unit) SetLocation(loc Location) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.location = loc
}

// IsFlying reports whether the unit is airborne.
func (u *Unit) IsFlying() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.flying
}

// SetFlying sets the airborne flag.
func (u *Unit) SetFlying(flying bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.flying = flying
}

// HP returns current health.
func (u *Unit) HP() int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.hp
}

// MaxHP returns maximum health.
func (u *Unit) MaxHP() int32 {
	return u.maxHP
}

// IsAlive reports whether health is above zero.
func (u *Unit) IsAlive() bool {
	return u.HP() > 0
}

// TakeDamage subtracts amount from health and breaks damage-breakable
// auras. Returns true if this damage killed the unit.
func (u *Unit) TakeDamage(amount int32, _ ai.Unit) bool {
	if amount <= 0 {
		return false
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.hp <= 0 {
		return false
	}
	u.hp = max(u.hp-amount, 0)
	u.auras = removeBreakable(u.auras)
	return u.hp == 0
}

// Revive restores full health.
func (u *Unit) Revive() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hp = u.maxHP
}

// AddAura applies aura, replacing an aura with the same ID.
func (u *Unit) AddAura(aura Aura) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := range u.auras {
		if u.auras[i].ID == aura.ID {
			u.auras[i] = aura
			return
		}
	}
	u.auras = append(u.auras, aura)
}

// RemoveAura removes the aura with id, if present.
func (u *Unit) RemoveAura(id int32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := range u.auras {
		if u.auras[i].ID == id {
			u.auras = append(u.auras[:i], u.auras[i+1:]...)
			return
		}
	}
}

// HasAura reports whether an aura with id is active.
func (u *Unit) HasAura(id int32) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, a := range u.auras {
		if a.ID == id {
			return true
		}
	}
	return false
}

// HasBreakableByDamageCrowdControl reports whether a crowd-control aura
// that damage would break is active. Auras channeled by caster are
// ignored: the caster keeps them up itself.
func (u *Unit) HasBreakableByDamageCrowdControl(caster ai.Unit) bool {
	var casterID uint32
	if caster != nil {
		casterID = caster.ObjectID()
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, a := range u.auras {
		if !a.CrowdControl || !a.BreaksOnDamage {
			continue
		}
		if a.Channeled && a.CasterID == casterID {
			continue
		}
		return true
	}
	return false
}

// UpdateAuras expires timed auras.
func (u *Unit) UpdateAuras(diff time.Duration) {
	u.mu.Lock()
	defer u.mu.Unlock()

	kept := u.auras[:0]
	for _, a := range u.auras {
		if a.Remaining > 0 {
			if a.Remaining <= diff {
				continue
			}
			a.Remaining -= diff
		}
		kept = append(kept, a)
	}
	u.auras = kept
}

// Vehicle returns the vehicle kit the unit is seated in, or nil.
func (u *Unit) Vehicle() *VehicleKit {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.seat
}

func (u *Unit) setSeat(kit *VehicleKit) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seat = kit
}

// ExitVehicle leaves the current vehicle, if any.
func (u *Unit) ExitVehicle() {
	kit := u.Vehicle()
	if kit == nil {
		return
	}
	kit.RemovePassenger(u.objectID)
}

func removeBreakable(auras []Aura) []Aura {
	kept := auras[:0]
	for _, a := range auras {
		if a.BreaksOnDamage {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}
