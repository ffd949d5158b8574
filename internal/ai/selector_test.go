package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_ByName(t *testing.T) {
	tests := []struct {
		aiName string
		want   any
	}{
		{"NullAI", &NullAI{}},
		{"AggressorAI", &AggressorAI{}},
		{"CombatAI", &CombatAI{}},
		{"CasterAI", &CasterAI{}},
		{"ArcherAI", &ArcherAI{}},
		{"TurretAI", &TurretAI{}},
		{"VehicleAI", &VehicleAI{}},
	}
	for _, tt := range tests {
		t.Run(tt.aiName, func(t *testing.T) {
			ctrl, err := Select(newFakeVehicle(2), tt.aiName, Deps{Abilities: newRegistry(t)})
			require.NoError(t, err)
			assert.IsType(t, tt.want, ctrl)
			assert.Equal(t, tt.aiName, ctrl.Name())
		})
	}
}

func TestSelect_UnknownName(t *testing.T) {
	_, err := Select(newFakeCreature(), "BossAI", Deps{Abilities: newRegistry(t)})
	assert.ErrorIs(t, err, ErrUnknownAIName)
}

func TestSelect_VehicleAIRequiresVehicle(t *testing.T) {
	_, err := Select(newFakeCreature(), "VehicleAI", Deps{Abilities: newRegistry(t)})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownAIName)
}

func TestSelect_ByPermit(t *testing.T) {
	civilian := newFakeCreature()
	civilian.civilian = true
	neutral := newFakeCreature()
	neutral.neutral = true

	tests := []struct {
		name string
		c    Creature
		want string
	}{
		{"vehicle wins", newFakeVehicle(2), "VehicleAI"},
		{"hostile gets aggressor", newFakeCreature(), "AggressorAI"},
		{"civilian gets null", civilian, "NullAI"},
		{"neutral gets null", neutral, "NullAI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, err := Select(tt.c, "", Deps{Abilities: newRegistry(t)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ctrl.Name())
		})
	}
}

func TestNullAI_NeverActs(t *testing.T) {
	c := newFakeCreature()
	c.victim = &fakeUnit{id: 10}
	ai := NewNullAI(c)
	ai.Start()

	ai.AttackStart(c.victim)
	ai.OnTick(0)

	assert.False(t, ai.CanAIAttack(c.victim))
	assert.Empty(t, c.attacks)
	assert.Zero(t, c.swings)
}

func TestAggressorAI_MeleesVictim(t *testing.T) {
	c := newFakeCreature()
	ai := NewAggressorAI(c)
	ai.Start()

	ai.OnTick(0)
	assert.Zero(t, c.swings, "no victim, no swing")

	c.victim = &fakeUnit{id: 10}
	ai.AttackStart(c.victim)
	ai.OnTick(0)

	assert.Equal(t, []attackCall{{target: 10, melee: true}}, c.attacks)
	assert.Equal(t, []chaseCall{{target: 10, dist: 0}}, c.chases)
	assert.Equal(t, 1, c.swings)

	ai.Stop()
	ai.OnTick(0)
	assert.Equal(t, 1, c.swings)
}
