package ai

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// creatureAI holds what every controller shares and provides the default
// reactions. Controllers embed it and override what they need.
type creatureAI struct {
	me        Creature
	isRunning atomic.Bool
}

func (ai *creatureAI) start(name string) {
	ai.isRunning.Store(true)

	if IsDebugEnabled() {
		slog.Debug("creature AI started",
			"ai", name,
			"creature", ai.me.Name(),
			"entry", ai.me.Entry(),
			"objectID", ai.me.ObjectID())
	}
}

func (ai *creatureAI) stop(name string) {
	ai.isRunning.Store(false)

	if IsDebugEnabled() {
		slog.Debug("creature AI stopped",
			"ai", name,
			"creature", ai.me.Name(),
			"objectID", ai.me.ObjectID())
	}
}

func (ai *creatureAI) running() bool {
	return ai.isRunning.Load()
}

// AttackStart engages who in melee and chases it.
func (ai *creatureAI) AttackStart(who Unit) {
	if who == nil {
		return
	}
	if ai.me.Attack(who, true) {
		ai.me.MoveChase(who, 0)
	}
}

func (ai *creatureAI) CanAIAttack(Unit) bool { return true }

func (ai *creatureAI) OnEngage(Unit) {}

func (ai *creatureAI) OnCastInterrupted(int32, time.Duration) {}

func (ai *creatureAI) JustDied(Unit) {}

func (ai *creatureAI) OnCharmed(bool) {}

func (ai *creatureAI) Reset() {}
