package ai

import "time"

// TurretAI is a stationary ranged controller. It only attacks targets
// between the slot-0 ability's minimum and maximum range and never melees.
type TurretAI struct {
	creatureAI

	abilityID int32
	minRange  float64
	inert     bool
}

// NewTurretAI creates a TurretAI for me and sets the creature's combat and
// sight distance from the slot-0 ability.
func NewTurretAI(me Creature, deps Deps) *TurretAI {
	deps = deps.withDefaults()
	ai := &TurretAI{creatureAI: creatureAI{me: me}}

	if me.Spells()[0] == 0 {
		ai.inert = true
	}

	var maxRange float64
	ai.abilityID, ai.minRange, maxRange = slotAbility(me, deps.Abilities, ai.Name())
	me.SetCombatDistance(maxRange)
	me.SetSightDistance(maxRange)

	return ai
}

func (ai *TurretAI) Name() string { return "TurretAI" }

func (ai *TurretAI) Start() { ai.start(ai.Name()) }

func (ai *TurretAI) Stop() { ai.stop(ai.Name()) }

// CanAIAttack accepts who only inside combat distance and outside the
// minimum range dead zone, if one is configured.
func (ai *TurretAI) CanAIAttack(who Unit) bool {
	if who == nil {
		return false
	}
	if !ai.me.IsWithinCombatRange(who, ai.me.CombatDistance()) {
		return false
	}
	if ai.minRange > 0 && ai.me.IsWithinCombatRange(who, ai.minRange) {
		return false
	}
	return true
}

// AttackStart takes a static ranged stance against who.
func (ai *TurretAI) AttackStart(who Unit) {
	if who == nil || ai.inert {
		return
	}
	ai.me.Attack(who, false)
}

// OnTick fires the slot-0 ability whenever it is ready.
func (ai *TurretAI) OnTick(time.Duration) {
	if ai.inert || !ai.running() || !ai.me.UpdateVictim() {
		return
	}
	if ai.abilityID != 0 {
		ai.me.DoSpellAttackIfReady(ai.abilityID)
	}
}
