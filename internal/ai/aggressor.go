package ai

import "time"

// AggressorAI is the melee-only reactive controller: swing at the victim
// whenever the swing timer allows, never use abilities.
type AggressorAI struct {
	creatureAI
}

// NewAggressorAI creates an AggressorAI for me.
func NewAggressorAI(me Creature) *AggressorAI {
	return &AggressorAI{creatureAI: creatureAI{me: me}}
}

// AggressorPermissible allows creatures with some hostile faction: neither
// civilians nor creatures neutral to everyone.
func AggressorPermissible(c Creature) PermitLevel {
	if !c.IsCivilian() && !c.IsNeutralToAll() {
		return PermitReactive
	}
	return PermitNo
}

func (ai *AggressorAI) Name() string { return "AggressorAI" }

func (ai *AggressorAI) Start() { ai.start(ai.Name()) }

func (ai *AggressorAI) Stop() { ai.stop(ai.Name()) }

// OnTick swings at the victim if one exists.
func (ai *AggressorAI) OnTick(time.Duration) {
	if !ai.running() || !ai.me.UpdateVictim() {
		return
	}
	ai.me.DoMeleeAttackIfReady()
}

// NullAI never acts. Selected for creatures no generic controller permits.
type NullAI struct {
	creatureAI
}

// NewNullAI creates a NullAI for me.
func NewNullAI(me Creature) *NullAI {
	return &NullAI{creatureAI: creatureAI{me: me}}
}

func (ai *NullAI) Name() string { return "NullAI" }

func (ai *NullAI) Start() { ai.start(ai.Name()) }

func (ai *NullAI) Stop() { ai.stop(ai.Name()) }

func (ai *NullAI) AttackStart(Unit) {}

func (ai *NullAI) CanAIAttack(Unit) bool { return false }

func (ai *NullAI) OnTick(time.Duration) {}
