package model

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/creatureai/internal/ai"
	"github.com/udisondev/creatureai/internal/data"
)

const (
	// RunSpeed is the chase speed in yards per second.
	RunSpeed = 7.0
	// DefaultMeleeRange applies when the template sets none.
	DefaultMeleeRange = 5.0
	// DefaultAttackInterval applies when the template sets none.
	DefaultAttackInterval = 2 * time.Second
)

// CastFunc is called when a creature's ability goes off.
type CastFunc func(caster *Creature, target ai.Unit, abilityID int32)

// MeleeFunc is called for every melee swing that lands.
type MeleeFunc func(attacker *Creature, target Target, damage int32)

// DespawnFunc is called once when a creature despawns.
type DespawnFunc func(c *Creature)

type castState struct {
	abilityID int32
	target    ai.Unit
	total     time.Duration
	remaining time.Duration
}

// Creature is a template-driven NPC. It implements the host side of the AI
// contracts: victim selection from its threat list, melee swing timer,
// casting, chasing, charm and vehicle seats.
//
// Apart from the embedded Unit, a Creature is owned by the tick goroutine:
// Update and its controller run there, and controller notifications are
// queued and delivered from Update so a controller is never reentered.
type Creature struct {
	Unit

	template   *data.CreatureTemplate
	difficulty data.Difficulty
	abilities  ai.AbilityLookup
	lookup     ObjectLookupFunc

	threat     *ThreatList
	controller ai.Controller
	pending    []func(ai.Controller)

	inCombat    bool
	victim      Target
	meleeStance bool
	chase       Target
	chaseDist   float64
	combatDist  float64
	sightDist   float64
	swingTimer  time.Duration
	cast        *castState
	cooldowns   map[int32]time.Duration
	charmed     bool
	kit         *VehicleKit
	despawned   atomic.Bool

	castCounts map[int32]int
	swings     int

	castFunc    CastFunc
	meleeFunc   MeleeFunc
	despawnFunc DespawnFunc
}

// NewCreature spawns a creature of tmpl at loc. abilities resolves the
// template's ability slots; lookup resolves threat-list entries.
func NewCreature(
	objectID uint32,
	tmpl *data.CreatureTemplate,
	difficulty data.Difficulty,
	loc Location,
	abilities ai.AbilityLookup,
	lookup ObjectLookupFunc,
) *Creature {
	c := &Creature{
		template:   tmpl,
		difficulty: difficulty,
		abilities:  abilities,
		lookup:     lookup,
		threat:     NewThreatList(),
		sightDist:  tmpl.AggroRange,
		cooldowns:  make(map[int32]time.Duration),
		castCounts: make(map[int32]int),
	}
	c.init(objectID, tmpl.Name, tmpl.Level, tmpl.MaxHP, false, loc)
	if tmpl.Vehicle {
		c.kit = newVehicleKit(c, tmpl.Seats)
	}
	return c
}

// SetController attaches the AI. Must be called before the first Update.
func (c *Creature) SetController(ctrl ai.Controller) {
	c.controller = ctrl
}

// Controller returns the attached AI, or nil.
func (c *Creature) Controller() ai.Controller {
	return c.controller
}

// SetCastFunc sets the ability-effect callback.
func (c *Creature) SetCastFunc(fn CastFunc) {
	c.castFunc = fn
}

// SetMeleeFunc sets the melee-hit callback.
func (c *Creature) SetMeleeFunc(fn MeleeFunc) {
	c.meleeFunc = fn
}

// SetDespawnFunc sets the despawn callback.
func (c *Creature) SetDespawnFunc(fn DespawnFunc) {
	c.despawnFunc = fn
}

// Template returns the creature template.
func (c *Creature) Template() *data.CreatureTemplate {
	return c.template
}

func (c *Creature) Entry() int32 { return c.template.Entry }

func (c *Creature) Spells() [data.MaxCreatureSpells]int32 { return c.template.Spells }

func (c *Creature) Difficulty() data.Difficulty { return c.difficulty }

func (c *Creature) IsCivilian() bool { return c.template.Civilian }

func (c *Creature) IsNeutralToAll() bool { return c.template.NeutralToAll }

func (c *Creature) IsVehicle() bool { return c.kit != nil }

func (c *Creature) CombatDistance() float64 { return c.combatDist }

func (c *Creature) SetCombatDistance(dist float64) { c.combatDist = dist }

func (c *Creature) SightDistance() float64 { return c.sightDist }

func (c *Creature) SetSightDistance(dist float64) { c.sightDist = dist }

// MeleeRange returns the template melee reach.
func (c *Creature) MeleeRange() float64 {
	if c.template.MeleeRange > 0 {
		return c.template.MeleeRange
	}
	return DefaultMeleeRange
}

// Threat returns the creature's threat list.
func (c *Creature) Threat() *ThreatList {
	return c.threat
}

// InCombat reports whether the creature is engaged.
func (c *Creature) InCombat() bool {
	return c.inCombat
}

// IsDespawned reports whether DespawnOrUnsummon was called.
func (c *Creature) IsDespawned() bool {
	return c.despawned.Load()
}

// CastCount returns how many times abilityID went off.
func (c *Creature) CastCount(abilityID int32) int {
	return c.castCounts[abilityID]
}

// Swings returns the number of melee swings that landed.
func (c *Creature) Swings() int {
	return c.swings
}

// notify queues a controller callback for the next Update.
func (c *Creature) notify(fn func(ai.Controller)) {
	c.pending = append(c.pending, fn)
}

func (c *Creature) deliver() {
	if c.controller == nil {
		c.pending = c.pending[:0]
		return
	}
	for len(c.pending) > 0 {
		fn := c.pending[0]
		c.pending = c.pending[1:]
		fn(c.controller)
	}
}

// EngageWith puts who on the threat list and enters combat if the creature
// was idle.
func (c *Creature) EngageWith(who Target) {
	if who == nil || !c.IsAlive() || c.IsDespawned() {
		return
	}
	c.threat.AddThreat(who.ObjectID(), 1)
	c.engage(who)
}

func (c *Creature) engage(who ai.Unit) {
	if c.inCombat {
		return
	}
	c.inCombat = true
	c.notify(func(ctrl ai.Controller) {
		if ctrl.CanAIAttack(who) {
			ctrl.AttackStart(who)
		}
		ctrl.OnEngage(who)
	})
}

// TakeDamage applies damage and threat from attacker. The creature enters
// combat if idle and notifies its AI on death.
func (c *Creature) TakeDamage(amount int32, attacker ai.Unit) bool {
	if !c.IsAlive() || c.IsDespawned() {
		return false
	}
	killed := c.Unit.TakeDamage(amount, attacker)
	if attacker == nil || amount <= 0 {
		if killed {
			c.die(nil)
		}
		return killed
	}

	c.threat.AddDamage(attacker.ObjectID(), int64(amount))
	c.threat.AddThreat(attacker.ObjectID(), CalcThreat(amount, c.Level()))
	if killed {
		c.die(attacker)
		return true
	}
	c.engage(attacker)
	return false
}

func (c *Creature) die(killer ai.Unit) {
	c.inCombat = false
	c.victim = nil
	c.chase = nil
	c.cast = nil
	c.threat.Clear()
	c.notify(func(ctrl ai.Controller) { ctrl.JustDied(killer) })

	slog.Info("creature died",
		"creature", c.Name(),
		"entry", c.Entry(),
		"objectID", c.ObjectID())
}

// UpdateVictim selects the most hated living target the AI accepts.
// Dead or vanished attackers are dropped from the threat list.
func (c *Creature) UpdateVictim() bool {
	if !c.inCombat || !c.IsAlive() {
		return false
	}

	for _, id := range c.threat.Ranked() {
		t, ok := c.lookup(id)
		if !ok || !t.IsAlive() {
			c.threat.Remove(id)
			continue
		}
		if c.controller != nil && !c.controller.CanAIAttack(t) {
			continue
		}
		if c.victim == nil || c.victim.ObjectID() != t.ObjectID() {
			c.victim = t
			if c.chase != nil {
				c.chase = t
			}
		}
		return true
	}

	c.victim = nil
	return false
}

// Victim returns the current target, or nil.
func (c *Creature) Victim() ai.Unit {
	if c.victim == nil {
		return nil
	}
	return c.victim
}

// Attack targets who; melee selects the melee stance.
func (c *Creature) Attack(who ai.Unit, melee bool) bool {
	t, ok := who.(Target)
	if !ok || !t.IsAlive() || t.ObjectID() == c.ObjectID() {
		return false
	}
	c.victim = t
	c.meleeStance = melee
	if c.threat.Get(t.ObjectID()) == nil {
		c.threat.AddThreat(t.ObjectID(), 0)
	}
	c.inCombat = true
	return true
}

// IsWithinCombatRange reports whether who is within dist yards.
func (c *Creature) IsWithinCombatRange(who ai.Unit, dist float64) bool {
	t, ok := who.(interface{ Location() Location })
	if !ok {
		return false
	}
	return c.Location().Distance(t.Location()) <= dist
}

// DoMeleeAttackIfReady swings at the victim if in reach and the swing
// timer has elapsed.
func (c *Creature) DoMeleeAttackIfReady() {
	if c.victim == nil || c.swingTimer > 0 || c.cast != nil {
		return
	}
	if !c.IsWithinCombatRange(c.victim, c.MeleeRange()) {
		return
	}

	interval := c.template.AttackInterval
	if interval <= 0 {
		interval = DefaultAttackInterval
	}
	c.swingTimer = interval
	c.swings++

	victim := c.victim
	damage := c.template.MeleeDamage
	victim.TakeDamage(damage, c)
	if c.meleeFunc != nil {
		c.meleeFunc(c, victim, damage)
	}
}

// CastSpell starts casting abilityID at target. Triggered casts go off
// instantly and ignore an in-progress cast; any other cast interrupts it
// first, and the controller hears about it on the next Update.
func (c *Creature) CastSpell(target ai.Unit, abilityID int32, triggered bool) {
	if target == nil {
		return
	}
	desc, ok := c.abilities.Lookup(abilityID, c.difficulty)
	if !ok {
		slog.Warn("creature cast unknown ability",
			"entry", c.Entry(),
			"abilityID", abilityID,
			"difficulty", c.difficulty)
		return
	}

	if triggered {
		c.spellHit(target, abilityID)
		return
	}
	c.InterruptNonMeleeSpells()

	if desc.Cooldown > 0 {
		c.cooldowns[abilityID] = desc.Cooldown
	}
	if desc.CastTime <= 0 {
		c.spellHit(target, abilityID)
		return
	}
	c.cast = &castState{
		abilityID: abilityID,
		target:    target,
		total:     desc.CastTime,
		remaining: desc.CastTime,
	}
}

// DoSpellAttackIfReady casts abilityID at the victim unless casting, the
// ability is cooling down, or the victim is out of its range.
func (c *Creature) DoSpellAttackIfReady(abilityID int32) {
	if c.victim == nil || c.cast != nil || c.cooldowns[abilityID] > 0 {
		return
	}
	desc, ok := c.abilities.Lookup(abilityID, c.difficulty)
	if !ok {
		return
	}
	if desc.MaxRange > 0 && !c.IsWithinCombatRange(c.victim, desc.MaxRange) {
		return
	}
	c.CastSpell(c.victim, abilityID, false)
}

func (c *Creature) spellHit(target ai.Unit, abilityID int32) {
	c.castCounts[abilityID]++
	if ai.IsDebugEnabled() {
		slog.Debug("creature ability hit",
			"creature", c.Name(),
			"objectID", c.ObjectID(),
			"abilityID", abilityID,
			"target", target.ObjectID())
	}
	if c.castFunc != nil {
		c.castFunc(c, target, abilityID)
	}
}

// IsCasting reports whether a cast is in progress.
func (c *Creature) IsCasting() bool {
	return c.cast != nil
}

// CurrentCastTime returns the full cast time of abilityID if it is being
// cast right now.
func (c *Creature) CurrentCastTime(abilityID int32) time.Duration {
	if c.cast == nil || c.cast.abilityID != abilityID {
		return 0
	}
	return c.cast.total
}

// InterruptNonMeleeSpells cancels the cast in progress. The AI may retry
// the ability right away.
func (c *Creature) InterruptNonMeleeSpells() {
	c.Interrupt(0)
}

// Interrupt cancels the cast in progress and locks the ability out for
// lockout. The AI is told on the next Update.
func (c *Creature) Interrupt(lockout time.Duration) {
	if c.cast == nil {
		return
	}
	id := c.cast.abilityID
	c.cast = nil
	c.notify(func(ctrl ai.Controller) { ctrl.OnCastInterrupted(id, lockout) })
}

// MoveChase follows who, stopping dist yards short. Zero stops inside
// melee reach.
func (c *Creature) MoveChase(who ai.Unit, dist float64) {
	t, ok := who.(Target)
	if !ok {
		return
	}
	c.chase = t
	c.chaseDist = dist
}

// MoveIdle stops chasing.
func (c *Creature) MoveIdle() {
	c.chase = nil
}

// IsCharmed reports whether a driver controls the creature.
func (c *Creature) IsCharmed() bool {
	return c.charmed
}

// SetCharmed changes the charm state and tells the AI.
func (c *Creature) SetCharmed(charmed bool) {
	if c.charmed == charmed {
		return
	}
	c.charmed = charmed
	c.notify(func(ctrl ai.Controller) { ctrl.OnCharmed(charmed) })
}

// VehicleKit returns the seats, or nil for non-vehicles.
func (c *Creature) VehicleKit() ai.VehicleKit {
	if c.kit == nil {
		return nil
	}
	return c.kit
}

// Kit returns the concrete seats, or nil for non-vehicles.
func (c *Creature) Kit() *VehicleKit {
	return c.kit
}

// DespawnOrUnsummon removes the creature from play. Passengers are ejected.
func (c *Creature) DespawnOrUnsummon() {
	if c.despawned.Swap(true) {
		return
	}
	if c.kit != nil {
		c.kit.EjectAll()
	}
	c.inCombat = false
	c.victim = nil
	c.chase = nil
	c.cast = nil
	c.threat.Clear()

	if c.despawnFunc != nil {
		c.despawnFunc(c)
	}
}

// Update advances host timers by diff: auras, swing timer, ability
// cooldowns, the cast in progress and chase movement. Queued controller
// notifications are delivered last.
func (c *Creature) Update(diff time.Duration) {
	if c.IsDespawned() {
		return
	}

	c.UpdateAuras(diff)
	if c.IsAlive() {
		c.swingTimer = max(c.swingTimer-diff, 0)
		for id, cd := range c.cooldowns {
			if cd <= diff {
				delete(c.cooldowns, id)
				continue
			}
			c.cooldowns[id] = cd - diff
		}
		c.updateCast(diff)
		c.updateMovement(diff)
		c.checkEvade()
	}
	c.deliver()
}

func (c *Creature) updateCast(diff time.Duration) {
	if c.cast == nil {
		return
	}
	c.cast.remaining -= diff
	if c.cast.remaining > 0 {
		return
	}
	cs := c.cast
	c.cast = nil
	if cs.target.IsAlive() {
		c.spellHit(cs.target, cs.abilityID)
	}
}

func (c *Creature) updateMovement(diff time.Duration) {
	if c.chase == nil || c.cast != nil {
		return
	}
	stopAt := c.chaseDist
	if stopAt <= 0 {
		stopAt = c.MeleeRange() / 2
	}
	step := RunSpeed * diff.Seconds()
	c.SetLocation(c.Location().MoveToward(c.chase.Location(), step, stopAt))
}

// checkEvade leaves combat once no living attacker remains.
func (c *Creature) checkEvade() {
	if !c.inCombat {
		return
	}
	for _, id := range c.threat.Ranked() {
		if t, ok := c.lookup(id); ok && t.IsAlive() {
			return
		}
		c.threat.Remove(id)
	}

	c.inCombat = false
	c.victim = nil
	c.chase = nil
	c.notify(func(ctrl ai.Controller) { ctrl.Reset() })

	if ai.IsDebugEnabled() {
		slog.Debug("creature evaded",
			"creature", c.Name(),
			"objectID", c.ObjectID())
	}
}
