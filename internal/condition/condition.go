// Package condition evaluates eligibility conditions attached to game
// entities (for example, who may ride a given vehicle).
package condition

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a condition kind name cannot be parsed.
var ErrUnknownKind = errors.New("unknown condition kind")

// SourceType identifies what a condition list is attached to.
type SourceType int8

const (
	SourceNone SourceType = iota
	// SourceCreatureTemplateVehicle conditions gate who may stay seated in
	// a vehicle spawned from the creature template with the given entry.
	SourceCreatureTemplateVehicle
)

// String returns human-readable source type name
func (s SourceType) String() string {
	switch s {
	case SourceCreatureTemplateVehicle:
		return "CREATURE_TEMPLATE_VEHICLE"
	default:
		return "NONE"
	}
}

// Kind selects how a single Condition is evaluated.
type Kind int8

const (
	KindLevelMin Kind = iota + 1 // target level >= Value
	KindLevelMax                 // target level <= Value
	KindAura                     // target has aura Value
	KindPlayer                   // target is a player
	KindScript                   // Lua chunk returns true
)

// String returns human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindLevelMin:
		return "level_min"
	case KindLevelMax:
		return "level_max"
	case KindAura:
		return "aura"
	case KindPlayer:
		return "player"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// ParseKind maps a data-file name onto a Kind.
func ParseKind(s string) (Kind, error) {
	for k := KindLevelMin; k <= KindScript; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Condition is one predicate over a target object. A list of conditions
// holds when every condition holds.
type Condition struct {
	Kind   Kind
	Value  int32
	Negate bool
	Script string // Lua chunk, KindScript only
}

// Object is the view of a game entity that conditions can inspect.
type Object interface {
	ObjectID() uint32
	Level() int32
	IsPlayer() bool
	HasAura(auraID int32) bool
}
