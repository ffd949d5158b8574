package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/udisondev/creatureai/internal/condition"
	"github.com/udisondev/creatureai/internal/data"
)

// fakeUnit is a target positioned at dist from the creature under test.
type fakeUnit struct {
	id        uint32
	dist      float64
	flying    bool
	dead      bool
	breakable bool
}

func (u *fakeUnit) ObjectID() uint32                           { return u.id }
func (u *fakeUnit) IsAlive() bool                              { return !u.dead }
func (u *fakeUnit) IsFlying() bool                             { return u.flying }
func (u *fakeUnit) HasBreakableByDamageCrowdControl(Unit) bool { return u.breakable }

type castCall struct {
	target    uint32
	abilityID int32
	triggered bool
}

type attackCall struct {
	target uint32
	melee  bool
}

type chaseCall struct {
	target uint32
	dist   float64
}

// fakeCreature records every host call a controller makes.
type fakeCreature struct {
	id         uint32
	entry      int32
	spells     [data.MaxCreatureSpells]int32
	difficulty data.Difficulty
	civilian   bool
	neutral    bool
	vehicle    bool

	victim   *fakeUnit
	casting  bool
	castTime map[int32]time.Duration

	combatDist float64
	sightDist  float64

	casts        []castCall
	spellAttacks []int32
	swings       int
	attacks      []attackCall
	chases       []chaseCall
	idles        int
	interrupts   int
}

func newFakeCreature(spells ...int32) *fakeCreature {
	c := &fakeCreature{
		id:       1,
		entry:    5000,
		castTime: make(map[int32]time.Duration),
	}
	copy(c.spells[:], spells)
	return c
}

func (c *fakeCreature) ObjectID() uint32                           { return c.id }
func (c *fakeCreature) IsAlive() bool                              { return true }
func (c *fakeCreature) IsFlying() bool                             { return false }
func (c *fakeCreature) HasBreakableByDamageCrowdControl(Unit) bool { return false }

func (c *fakeCreature) UpdateVictim() bool { return c.victim != nil }

func (c *fakeCreature) Victim() Unit {
	if c.victim == nil {
		return nil
	}
	return c.victim
}

func (c *fakeCreature) Attack(who Unit, melee bool) bool {
	c.attacks = append(c.attacks, attackCall{target: who.ObjectID(), melee: melee})
	return true
}

func (c *fakeCreature) DoMeleeAttackIfReady() { c.swings++ }

func (c *fakeCreature) IsWithinCombatRange(who Unit, dist float64) bool {
	return who.(*fakeUnit).dist <= dist
}

func (c *fakeCreature) CastSpell(target Unit, abilityID int32, triggered bool) {
	c.casts = append(c.casts, castCall{target: target.ObjectID(), abilityID: abilityID, triggered: triggered})
}

func (c *fakeCreature) DoSpellAttackIfReady(abilityID int32) {
	c.spellAttacks = append(c.spellAttacks, abilityID)
}

func (c *fakeCreature) IsCasting() bool { return c.casting }

func (c *fakeCreature) CurrentCastTime(abilityID int32) time.Duration { return c.castTime[abilityID] }

func (c *fakeCreature) InterruptNonMeleeSpells() { c.interrupts++ }

func (c *fakeCreature) MoveChase(who Unit, dist float64) {
	c.chases = append(c.chases, chaseCall{target: who.ObjectID(), dist: dist})
}

func (c *fakeCreature) MoveIdle() { c.idles++ }

func (c *fakeCreature) Entry() int32                          { return c.entry }
func (c *fakeCreature) Name() string                          { return "Test Creature" }
func (c *fakeCreature) Spells() [data.MaxCreatureSpells]int32 { return c.spells }
func (c *fakeCreature) Difficulty() data.Difficulty           { return c.difficulty }
func (c *fakeCreature) IsCivilian() bool                      { return c.civilian }
func (c *fakeCreature) IsNeutralToAll() bool                  { return c.neutral }
func (c *fakeCreature) IsVehicle() bool                       { return c.vehicle }
func (c *fakeCreature) CombatDistance() float64               { return c.combatDist }
func (c *fakeCreature) SetCombatDistance(dist float64)        { c.combatDist = dist }
func (c *fakeCreature) SetSightDistance(dist float64)         { c.sightDist = dist }

// castIDs returns the ability ids cast so far, in order.
func (c *fakeCreature) castIDs() []int32 {
	ids := make([]int32, 0, len(c.casts))
	for _, cc := range c.casts {
		ids = append(ids, cc.abilityID)
	}
	return ids
}

type fakeKit struct {
	seats []uint32
}

func (k *fakeKit) IsInUse() bool {
	for _, id := range k.seats {
		if id != 0 {
			return true
		}
	}
	return false
}

func (k *fakeKit) Passengers() []uint32 { return k.seats }

// fakeVehicle adds the vehicle surface on top of fakeCreature.
type fakeVehicle struct {
	*fakeCreature

	charmed   bool
	kit       *fakeKit
	despawned int
}

func newFakeVehicle(seats int) *fakeVehicle {
	c := newFakeCreature()
	c.vehicle = true
	c.entry = 5002
	v := &fakeVehicle{fakeCreature: c}
	if seats > 0 {
		v.kit = &fakeKit{seats: make([]uint32, seats)}
	}
	return v
}

func (v *fakeVehicle) Level() int32       { return 1 }
func (v *fakeVehicle) IsPlayer() bool     { return false }
func (v *fakeVehicle) HasAura(int32) bool { return false }
func (v *fakeVehicle) IsCharmed() bool    { return v.charmed }
func (v *fakeVehicle) DespawnOrUnsummon() { v.despawned++ }

func (v *fakeVehicle) VehicleKit() VehicleKit {
	if v.kit == nil {
		return nil
	}
	return v.kit
}

type fakePassenger struct {
	id     uint32
	player bool
	kit    *fakeKit
	exits  int
}

func (p *fakePassenger) ObjectID() uint32   { return p.id }
func (p *fakePassenger) Level() int32       { return 80 }
func (p *fakePassenger) IsPlayer() bool     { return p.player }
func (p *fakePassenger) HasAura(int32) bool { return false }

func (p *fakePassenger) ExitVehicle() {
	p.exits++
	for i, id := range p.kit.seats {
		if id == p.id {
			p.kit.seats[i] = 0
		}
	}
}

// fakeConditions fails every object listed in failing.
type fakeConditions struct {
	has     bool
	failing map[uint32]bool
	checks  int
}

func (f *fakeConditions) HasConditions(condition.SourceType, int32) bool { return f.has }

func (f *fakeConditions) IsObjectMeetingConditions(_ condition.SourceType, _ int32, target, _ condition.Object) bool {
	f.checks++
	return !f.failing[target.ObjectID()]
}

// fixedSource always returns its own value, clamped into [0, n).
type fixedSource int

func (s fixedSource) IntN(n int) int { return min(int(s), n-1) }

// rapidSource draws every random choice from a property test.
type rapidSource struct {
	t *rapid.T
}

func (s rapidSource) IntN(n int) int {
	return rapid.IntRange(0, n-1).Draw(s.t, "rand")
}

func newRegistry(t testing.TB, descs ...data.AbilityDescriptor) *data.AbilityRegistry {
	reg := data.NewAbilityRegistry()
	for _, d := range descs {
		require.NoError(t, reg.Register(d))
	}
	return reg
}

func combatAbility(id int32, cooldown time.Duration) data.AbilityDescriptor {
	return data.AbilityDescriptor{
		ID:           id,
		Name:         "combat",
		Cooldown:     cooldown,
		RealCooldown: cooldown,
		Trigger:      data.TriggerCombat,
	}
}
