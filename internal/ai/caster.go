package ai

import (
	"time"

	"github.com/udisondev/creatureai/internal/data"
)

// CasterAI is the generic ranged caster. It keeps its distance at the
// shortest range among its combat abilities, opens with one of them, and
// holds fire while the victim is in damage-breakable crowd control.
type CasterAI struct {
	CombatAI

	castDelay  time.Duration
	meleeRange float64

	attackDist float64
}

// NewCasterAI creates a CasterAI for me.
func NewCasterAI(me Creature, deps Deps) *CasterAI {
	deps = deps.withDefaults()
	return &CasterAI{
		CombatAI: CombatAI{
			creatureAI: creatureAI{me: me},
			abilities:  deps.Abilities,
			rng:        deps.Rand,
		},
		castDelay:  deps.Tunables.CasterCastDelay,
		meleeRange: deps.Tunables.MeleeRange,
	}
}

func (ai *CasterAI) Name() string { return "CasterAI" }

// Start collects abilities and derives the engagement distance: the
// smallest max range among combat abilities, or melee range when none has
// one.
func (ai *CasterAI) Start() {
	ai.initialize()

	ai.attackDist = 0
	for _, id := range ai.spells {
		desc, ok := ai.lookup(id)
		if !ok || desc.Trigger != data.TriggerCombat || desc.MaxRange <= 0 {
			continue
		}
		if ai.attackDist == 0 || desc.MaxRange < ai.attackDist {
			ai.attackDist = desc.MaxRange
		}
	}
	if ai.attackDist == 0 {
		ai.attackDist = ai.meleeRange
	}

	ai.start(ai.Name())
}

func (ai *CasterAI) Stop() {
	ai.events.Reset()
	ai.stop(ai.Name())
}

// AttackDistance returns the distance the caster chases its victim to.
func (ai *CasterAI) AttackDistance() float64 {
	return ai.attackDist
}

// AttackStart engages who at range.
func (ai *CasterAI) AttackStart(who Unit) {
	if who == nil {
		return
	}
	if ai.me.Attack(who, false) {
		ai.me.MoveChase(who, ai.attackDist)
	}
}

// OnEngage casts aggro abilities at who, then fires one randomly chosen
// combat ability right away and schedules the rest on their real cooldown.
// The opener goes last since a new cast interrupts the one in progress.
func (ai *CasterAI) OnEngage(who Unit) {
	if who == nil || len(ai.spells) == 0 {
		return
	}

	var loop []int32
	for _, id := range ai.spells {
		desc, ok := ai.lookup(id)
		if !ok {
			continue
		}
		switch desc.Trigger {
		case data.TriggerAggro:
			ai.me.CastSpell(who, id, false)
		case data.TriggerCombat:
			loop = append(loop, id)
		}
	}
	if len(loop) == 0 {
		return
	}

	pick := ai.rng.IntN(len(loop))
	for i, id := range loop {
		desc, _ := ai.lookup(id)
		cooldown := desc.RealCooldown
		if i == pick {
			ai.me.CastSpell(who, id, false)
			cooldown += ai.me.CurrentCastTime(id)
		}
		ai.events.Schedule(id, cooldown)
	}
}

// OnTick advances timers, then casts the next ready ability or swings.
func (ai *CasterAI) OnTick(diff time.Duration) {
	if !ai.running() || !ai.me.UpdateVictim() {
		return
	}

	ai.events.Advance(diff)

	if victim := ai.me.Victim(); victim != nil && victim.HasBreakableByDamageCrowdControl(ai.me) {
		ai.me.InterruptNonMeleeSpells()
		return
	}

	if ai.me.IsCasting() {
		return
	}

	if id, ok := ai.events.TakeReady(); ok {
		ai.doCast(id)
		castTime := ai.me.CurrentCastTime(id)
		if desc, ok := ai.lookup(id); ok {
			ai.events.Schedule(id, max(castTime, ai.castDelay)+desc.RealCooldown)
		}
		return
	}

	ai.me.DoMeleeAttackIfReady()
}
