package ai

import (
	"log/slog"
	"time"
)

// slotAbility resolves the ability in template slot 0 and returns its id
// with min/max range. id is 0 when the slot is unset or does not resolve.
func slotAbility(me Creature, abilities AbilityLookup, kind string) (id int32, minRange, maxRange float64) {
	spell := me.Spells()[0]
	if spell == 0 {
		slog.Error("AI set for creature with empty ability slot 0, AI will do nothing",
			"ai", kind,
			"entry", me.Entry())
		return 0, 0, 0
	}

	desc, ok := abilities.Lookup(spell, me.Difficulty())
	if !ok {
		slog.Error("creature ability slot 0 does not resolve, ability disabled",
			"ai", kind,
			"entry", me.Entry(),
			"abilityID", spell,
			"difficulty", me.Difficulty())
		return 0, 0, 0
	}
	return spell, desc.MinRange, desc.MaxRange
}

// ArcherAI shoots its slot-0 ability at targets beyond the ability's
// minimum range and falls back to melee inside it.
type ArcherAI struct {
	creatureAI

	abilityID int32
	minRange  float64
	inert     bool
}

// NewArcherAI creates an ArcherAI for me and sets the creature's combat
// and sight distance from the slot-0 ability.
func NewArcherAI(me Creature, deps Deps) *ArcherAI {
	deps = deps.withDefaults()
	ai := &ArcherAI{creatureAI: creatureAI{me: me}}

	if me.Spells()[0] == 0 {
		ai.inert = true
	}

	var maxRange float64
	ai.abilityID, ai.minRange, maxRange = slotAbility(me, deps.Abilities, ai.Name())
	if ai.minRange == 0 {
		ai.minRange = deps.Tunables.MeleeRange
	}
	me.SetCombatDistance(maxRange)
	me.SetSightDistance(maxRange)

	return ai
}

func (ai *ArcherAI) Name() string { return "ArcherAI" }

func (ai *ArcherAI) Start() { ai.start(ai.Name()) }

func (ai *ArcherAI) Stop() { ai.stop(ai.Name()) }

// MinRange returns the distance at or below which the archer melees.
func (ai *ArcherAI) MinRange() float64 {
	return ai.minRange
}

// AttackStart engages who in melee when it is within minimum range and at
// range otherwise. Flying targets are not chased.
func (ai *ArcherAI) AttackStart(who Unit) {
	if who == nil || ai.inert {
		return
	}

	flying := who.IsFlying()
	if ai.me.IsWithinCombatRange(who, ai.minRange) {
		if ai.me.Attack(who, true) && !flying {
			ai.me.MoveChase(who, 0)
		}
	} else {
		if ai.me.Attack(who, false) && !flying {
			ai.me.MoveChase(who, ai.me.CombatDistance())
		}
	}

	if flying {
		ai.me.MoveIdle()
	}
}

// OnTick shoots beyond minimum range, swings inside it.
func (ai *ArcherAI) OnTick(time.Duration) {
	if ai.inert || !ai.running() || !ai.me.UpdateVictim() {
		return
	}

	victim := ai.me.Victim()
	if victim == nil {
		return
	}
	if !ai.me.IsWithinCombatRange(victim, ai.minRange) {
		if ai.abilityID != 0 {
			ai.me.DoSpellAttackIfReady(ai.abilityID)
		}
		return
	}
	ai.me.DoMeleeAttackIfReady()
}
