package ai

import "time"

// CombatDecisionPolicy is the per-creature combat decision loop.
type CombatDecisionPolicy interface {
	// OnEngage is called once when the creature acquires a hostile target
	// after having none.
	OnEngage(who Unit)

	// OnTick performs one decision step; diff is the time elapsed since
	// the previous tick.
	OnTick(diff time.Duration)

	// OnCastInterrupted is called by the host when an ability cast was cut
	// short; resume is when the ability may be tried again.
	OnCastInterrupted(abilityID int32, resume time.Duration)
}

// Controller is the AI attached to one creature.
type Controller interface {
	CombatDecisionPolicy

	// Name returns the controller kind, e.g. "CasterAI".
	Name() string

	// Start attaches the controller and runs its initialization.
	Start()

	// Stop detaches the controller and drops pending state.
	Stop()

	// AttackStart is called when a new target is acquired.
	AttackStart(who Unit)

	// CanAIAttack filters candidate targets.
	CanAIAttack(who Unit) bool

	// JustDied is called when the creature dies.
	JustDied(killer Unit)

	// OnCharmed is called when the creature's charm state changes.
	OnCharmed(isNew bool)

	// Reset is called when the encounter ends (evade, respawn).
	Reset()
}
