package ai

import (
	"time"

	"github.com/udisondev/creatureai/internal/condition"
	"github.com/udisondev/creatureai/internal/data"
)

// Unit is any entity a creature can target.
type Unit interface {
	ObjectID() uint32
	IsAlive() bool
	IsFlying() bool

	// HasBreakableByDamageCrowdControl reports whether the unit is held by a
	// crowd-control effect that damage from caster would break.
	HasBreakableByDamageCrowdControl(caster Unit) bool
}

// Combatant is the host's victim handling and melee primitives.
type Combatant interface {
	// UpdateVictim re-selects the victim and reports whether a valid
	// hostile target exists.
	UpdateVictim() bool
	Victim() Unit
	// Attack starts attacking who. melee=false keeps a ranged stance.
	Attack(who Unit, melee bool) bool
	// DoMeleeAttackIfReady swings at the victim if the swing timer allows.
	DoMeleeAttackIfReady()
	// IsWithinCombatRange reports distance(who) <= dist.
	IsWithinCombatRange(who Unit, dist float64) bool
}

// Caster is the host's spell-cast primitives.
type Caster interface {
	// CastSpell casts abilityID at target. A non-triggered cast interrupts
	// the one in progress.
	CastSpell(target Unit, abilityID int32, triggered bool)
	// DoSpellAttackIfReady casts abilityID at the victim if the ability's
	// own cooldown allows and the creature is not already casting.
	DoSpellAttackIfReady(abilityID int32)
	IsCasting() bool
	// CurrentCastTime returns the cast duration of abilityID if it is the
	// spell currently being cast, zero otherwise.
	CurrentCastTime(abilityID int32) time.Duration
	InterruptNonMeleeSpells()
}

// Mover is the host's motion primitives.
type Mover interface {
	// MoveChase follows who, stopping at dist. Zero means melee distance.
	MoveChase(who Unit, dist float64)
	MoveIdle()
}

// Creature is the creature a controller is attached to.
type Creature interface {
	Unit
	Combatant
	Caster
	Mover

	Entry() int32
	Name() string
	Spells() [data.MaxCreatureSpells]int32
	Difficulty() data.Difficulty

	IsCivilian() bool
	IsNeutralToAll() bool
	IsVehicle() bool

	CombatDistance() float64
	SetCombatDistance(dist float64)
	SetSightDistance(dist float64)
}

// VehicleKit enumerates the seats of a vehicle.
type VehicleKit interface {
	IsInUse() bool
	// Passengers returns the passenger objectID per seat, in seat order.
	// Empty seats are 0.
	Passengers() []uint32
}

// Vehicle is a creature that carries passengers.
type Vehicle interface {
	Creature
	condition.Object

	IsCharmed() bool
	// VehicleKit returns nil if the creature has no seats.
	VehicleKit() VehicleKit
	DespawnOrUnsummon()
}

// Passenger is a unit seated in a vehicle.
type Passenger interface {
	condition.Object
	ExitVehicle()
}

// PassengerLookupFunc resolves a seated passenger by objectID.
// Injected by the host to avoid an import cycle with the world package.
type PassengerLookupFunc func(objectID uint32) (Passenger, bool)

// AbilityLookup is read-only access to ability metadata.
type AbilityLookup interface {
	Lookup(abilityID int32, difficulty data.Difficulty) (*data.AbilityDescriptor, bool)
}

// ConditionChecker is read-only access to the condition subsystem.
type ConditionChecker interface {
	HasConditions(source condition.SourceType, entry int32) bool
	IsObjectMeetingConditions(source condition.SourceType, entry int32, target, invoker condition.Object) bool
}
