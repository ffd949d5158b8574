package encounter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/creatureai/internal/condition"
	"github.com/udisondev/creatureai/internal/data"
	"github.com/udisondev/creatureai/internal/model"
)

const (
	entryAdept  = 5001
	entryWolf   = 5003
	entryEngine = 5002
	entryMerch  = 5004

	abilityFrostbolt = 100
)

func newTestEncounter(t *testing.T) (*Encounter, *condition.Manager) {
	t.Helper()

	abilities := data.NewAbilityRegistry()
	require.NoError(t, abilities.Register(data.AbilityDescriptor{
		ID:           abilityFrostbolt,
		Name:         "Frostbolt",
		Cooldown:     2 * time.Second,
		RealCooldown: 6 * time.Second,
		CastTime:     1500 * time.Millisecond,
		MaxRange:     30,
		Trigger:      data.TriggerCombat,
	}))

	templates := data.NewTemplateRegistry()
	for _, tmpl := range []data.CreatureTemplate{
		{
			Entry:      entryAdept,
			Name:       "Frost Adept",
			AIName:     "CasterAI",
			Spells:     [data.MaxCreatureSpells]int32{abilityFrostbolt},
			Level:      20,
			MaxHP:      900,
			AggroRange: 20,
		},
		{
			Entry:          entryWolf,
			Name:           "Timber Wolf",
			Level:          10,
			MaxHP:          50,
			MeleeDamage:    10,
			AggroRange:     10,
			AttackInterval: time.Second,
		},
		{
			Entry:   entryEngine,
			Name:    "Siege Engine",
			Vehicle: true,
			Seats:   2,
			MaxHP:   5000,
		},
		{
			Entry:      entryMerch,
			Name:       "Merchant",
			MaxHP:      100,
			Civilian:   true,
			AggroRange: 50,
		},
	} {
		require.NoError(t, templates.Register(tmpl))
	}

	conds := condition.NewManager(0)
	t.Cleanup(conds.Close)
	conds.Add(condition.SourceCreatureTemplateVehicle, entryEngine,
		condition.Condition{Kind: condition.KindPlayer},
		condition.Condition{Kind: condition.KindLevelMin, Value: 70},
	)

	e := New(Config{Difficulty: data.DifficultyNormal}, abilities, templates, conds)
	return e, conds
}

func step(e *Encounter, n int, diff time.Duration) {
	for range n {
		e.Step(diff)
	}
}

func TestEncounter_SpawnSelectsAI(t *testing.T) {
	e, _ := newTestEncounter(t)

	tests := []struct {
		entry  int32
		wantAI string
	}{
		{entryAdept, "CasterAI"},
		{entryWolf, "AggressorAI"},
		{entryEngine, "VehicleAI"},
		{entryMerch, "NullAI"},
	}

	for _, tt := range tests {
		c, err := e.Spawn(tt.entry, model.NewLocation(0, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, tt.wantAI, c.Controller().Name(), "entry %d", tt.entry)

		ctrl, err := e.Ticks().GetController(c.ObjectID())
		require.NoError(t, err)
		assert.Same(t, c.Controller(), ctrl)
	}
	assert.Equal(t, 4, e.Ticks().Count())
	assert.Equal(t, 4, e.World().ObjectCount())

	_, err := e.Spawn(9999, model.NewLocation(0, 0, 0))
	assert.True(t, errors.Is(err, ErrUnknownTemplate), "err = %v", err)
}

func TestEncounter_MeleeKillsPlayerThenEvades(t *testing.T) {
	e, _ := newTestEncounter(t)
	wolf, err := e.Spawn(entryWolf, model.NewLocation(0, 0, 0))
	require.NoError(t, err)
	p, err := e.AddPlayer("Tester", 5, 100, model.NewLocation(3, 0, 0))
	require.NoError(t, err)

	e.Step(100 * time.Millisecond)
	assert.True(t, wolf.InCombat(), "player in sight should be engaged")

	step(e, 120, 100*time.Millisecond)

	assert.False(t, p.IsAlive())
	stats := e.Stats()
	assert.Equal(t, int64(10), stats.Swings)
	assert.Equal(t, int64(1), stats.Deaths)
	assert.False(t, wolf.InCombat(), "no living attacker left")
}

func TestEncounter_NoAggroOutOfSight(t *testing.T) {
	e, _ := newTestEncounter(t)
	wolf, err := e.Spawn(entryWolf, model.NewLocation(0, 0, 0))
	require.NoError(t, err)
	_, err = e.AddPlayer("Far", 5, 100, model.NewLocation(0, 10.5, 0))
	require.NoError(t, err)
	merchant, err := e.Spawn(entryMerch, model.NewLocation(0, 0, 0))
	require.NoError(t, err)

	step(e, 10, 100*time.Millisecond)

	assert.False(t, wolf.InCombat())
	assert.False(t, merchant.InCombat(), "civilians never aggro")
	assert.Zero(t, e.Stats().Swings)
}

func TestEncounter_CasterOpensAtRange(t *testing.T) {
	e, _ := newTestEncounter(t)
	adept, err := e.Spawn(entryAdept, model.NewLocation(0, 0, 0))
	require.NoError(t, err)
	p, err := e.AddPlayer("Tester", 80, 1000, model.NewLocation(15, 0, 0))
	require.NoError(t, err)

	step(e, 30, 100*time.Millisecond)

	assert.True(t, adept.InCombat())
	assert.GreaterOrEqual(t, adept.CastCount(abilityFrostbolt), 1)
	assert.GreaterOrEqual(t, e.Stats().Casts, int64(1))
	assert.Equal(t, model.NewLocation(0, 0, 0), adept.Location(), "caster already within its attack distance")
	assert.Equal(t, p.MaxHP(), p.HP(), "caster out of melee reach")
}

func TestEncounter_StrikeViaDo(t *testing.T) {
	e, _ := newTestEncounter(t)
	wolf, err := e.Spawn(entryWolf, model.NewLocation(0, 0, 0))
	require.NoError(t, err)
	p, err := e.AddPlayer("Hunter", 80, 1000, model.NewLocation(40, 0, 0))
	require.NoError(t, err)

	var strikeErr, missingErr error
	e.Do(func() {
		strikeErr = e.Strike(p.ObjectID(), wolf.ObjectID(), 20)
		missingErr = e.Strike(p.ObjectID(), 424242, 20)
	})
	assert.Equal(t, wolf.MaxHP(), wolf.HP(), "commands wait for the next tick")

	e.Step(100 * time.Millisecond)

	require.NoError(t, strikeErr)
	assert.True(t, errors.Is(missingErr, ErrUnknownObject))
	assert.Equal(t, int32(30), wolf.HP())
	assert.True(t, wolf.InCombat())

	e.Do(func() { _ = e.Strike(p.ObjectID(), wolf.ObjectID(), 100) })
	e.Step(100 * time.Millisecond)

	assert.False(t, wolf.IsAlive())
	assert.Equal(t, int64(1), e.Stats().Deaths)
}

func TestEncounter_VehicleEvictsAndDismisses(t *testing.T) {
	e, _ := newTestEncounter(t)
	engine, err := e.Spawn(entryEngine, model.NewLocation(0, 0, 0))
	require.NoError(t, err)
	driver, err := e.AddPlayer("Driver", 80, 1000, model.NewLocation(0, 0, 0))
	require.NoError(t, err)
	gunner, err := e.AddPlayer("Gunner", 60, 1000, model.NewLocation(0, 0, 0))
	require.NoError(t, err)

	require.NoError(t, engine.Kit().Board(driver, model.DriverSeat))
	require.NoError(t, engine.Kit().Board(gunner, 1))
	require.True(t, engine.IsCharmed())

	step(e, 2, 500*time.Millisecond)

	assert.Nil(t, gunner.Vehicle(), "gunner below level 70 is evicted")
	assert.NotNil(t, driver.Vehicle(), "driver meets the conditions")

	driver.ExitVehicle()
	e.Step(time.Millisecond)
	assert.False(t, engine.IsDespawned())

	e.Step(5 * time.Second)
	assert.True(t, engine.IsDespawned())
	assert.Equal(t, int64(1), e.Stats().Despawns)

	e.Step(time.Millisecond)
	_, ok := e.World().GetCreature(engine.ObjectID())
	assert.False(t, ok, "despawned vehicle removed from the world")
	assert.Zero(t, e.Ticks().Count())
}
