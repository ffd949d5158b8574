package ai

import (
	"log/slog"
	"time"

	"github.com/udisondev/creatureai/internal/data"
)

// CombatAI is the generic melee caster: it swings at its victim and fires
// its template abilities on fuzzed cooldowns.
// State: IDLE → ENGAGED (scheduler running) → IDLE on Reset.
type CombatAI struct {
	creatureAI

	abilities AbilityLookup
	rng       Source

	// spells are the template abilities that resolve for the creature's
	// difficulty at Start, in slot order.
	spells []int32
	events CooldownScheduler
}

// NewCombatAI creates a CombatAI for me.
func NewCombatAI(me Creature, deps Deps) *CombatAI {
	deps = deps.withDefaults()
	return &CombatAI{
		creatureAI: creatureAI{me: me},
		abilities:  deps.Abilities,
		rng:        deps.Rand,
	}
}

func (ai *CombatAI) Name() string { return "CombatAI" }

// Start collects the abilities that resolve on the current difficulty.
func (ai *CombatAI) Start() {
	ai.initialize()
	ai.start(ai.Name())
}

// Stop drops every pending ability timer.
func (ai *CombatAI) Stop() {
	ai.events.Reset()
	ai.stop(ai.Name())
}

func (ai *CombatAI) initialize() {
	ai.spells = ai.spells[:0]
	difficulty := ai.me.Difficulty()
	for slot, id := range ai.me.Spells() {
		if id == 0 {
			continue
		}
		if _, ok := ai.abilities.Lookup(id, difficulty); !ok {
			slog.Warn("creature ability does not resolve, skipped",
				"entry", ai.me.Entry(),
				"slot", slot,
				"abilityID", id,
				"difficulty", difficulty)
			continue
		}
		ai.spells = append(ai.spells, id)
	}
}

func (ai *CombatAI) lookup(id int32) (*data.AbilityDescriptor, bool) {
	return ai.abilities.Lookup(id, ai.me.Difficulty())
}

// owns reports whether id is one of the collected abilities.
func (ai *CombatAI) owns(id int32) bool {
	for _, s := range ai.spells {
		if s == id {
			return true
		}
	}
	return false
}

// doCast casts id at the current victim.
func (ai *CombatAI) doCast(id int32) {
	victim := ai.me.Victim()
	if victim == nil {
		return
	}
	ai.me.CastSpell(victim, id, false)

	if IsDebugEnabled() {
		slog.Debug("creature cast ability",
			"creature", ai.me.Name(),
			"objectID", ai.me.ObjectID(),
			"abilityID", id,
			"target", victim.ObjectID())
	}
}

// Reset ends the encounter: pending ability timers are dropped.
func (ai *CombatAI) Reset() {
	ai.events.Reset()
}

// JustDied fires every death-triggered ability at the killer.
func (ai *CombatAI) JustDied(killer Unit) {
	if killer == nil {
		return
	}
	for _, id := range ai.spells {
		if desc, ok := ai.lookup(id); ok && desc.Trigger == data.TriggerDeath {
			ai.me.CastSpell(killer, id, true)
		}
	}
}

// OnEngage casts aggro abilities at who and starts the cooldown loop for
// combat abilities with a fuzzed first delay.
func (ai *CombatAI) OnEngage(who Unit) {
	if who == nil {
		return
	}
	for _, id := range ai.spells {
		desc, ok := ai.lookup(id)
		if !ok {
			continue
		}
		switch desc.Trigger {
		case data.TriggerAggro:
			ai.me.CastSpell(who, id, false)
		case data.TriggerCombat:
			ai.events.Schedule(id, fuzzedCooldown(desc.Cooldown, ai.rng))
		}
	}
}

// OnTick advances the ability timers and either casts the next ready
// ability or swings in melee. An in-flight cast is never interrupted.
func (ai *CombatAI) OnTick(diff time.Duration) {
	if !ai.running() || !ai.me.UpdateVictim() {
		return
	}

	ai.events.Advance(diff)

	if ai.me.IsCasting() {
		return
	}

	if id, ok := ai.events.TakeReady(); ok {
		ai.doCast(id)
		if desc, ok := ai.lookup(id); ok {
			ai.events.Schedule(id, fuzzedCooldown(desc.Cooldown, ai.rng))
		}
		return
	}

	ai.me.DoMeleeAttackIfReady()
}

// OnCastInterrupted retries the ability after resume instead of its
// normal cooldown. Only owned combat abilities are retried; an interrupted
// aggro or death ability is not.
func (ai *CombatAI) OnCastInterrupted(abilityID int32, resume time.Duration) {
	if !ai.owns(abilityID) {
		return
	}
	if desc, ok := ai.lookup(abilityID); !ok || desc.Trigger != data.TriggerCombat {
		return
	}
	ai.events.Reschedule(abilityID, resume)
}

// Spells returns the collected ability ids.
func (ai *CombatAI) Spells() []int32 {
	return ai.spells
}

// Scheduler exposes the pending ability timers for inspection.
func (ai *CombatAI) Scheduler() *CooldownScheduler {
	return &ai.events
}
