// Package encounter runs creatures, their AI and players in one world,
// driven by the AI tick manager.
package encounter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/creatureai/internal/ai"
	"github.com/udisondev/creatureai/internal/data"
	"github.com/udisondev/creatureai/internal/model"
	"github.com/udisondev/creatureai/internal/world"
)

var (
	// ErrUnknownTemplate is returned by Spawn for an unregistered entry.
	ErrUnknownTemplate = errors.New("unknown creature template")
	// ErrUnknownObject is returned by commands naming an object not in the world.
	ErrUnknownObject = errors.New("unknown object")
)

// Config holds encounter-wide settings.
type Config struct {
	Difficulty   data.Difficulty
	TickInterval time.Duration
	Tunables     ai.Tunables
}

// Stats counts what happened during the encounter.
type Stats struct {
	Casts    int64
	Swings   int64
	Deaths   int64
	Despawns int64
}

// Encounter owns a world, its creatures' controllers and the tick loop.
//
// All world mutation happens on the tick goroutine. Callers on other
// goroutines go through Do, whose commands run at the start of the next tick.
type Encounter struct {
	world      *world.World
	templates  *data.TemplateRegistry
	deps       ai.Deps
	difficulty data.Difficulty
	ticks      *ai.TickManager

	cmdMu    sync.Mutex
	commands []func()

	casts    atomic.Int64
	swings   atomic.Int64
	deaths   atomic.Int64
	despawns atomic.Int64
}

// New creates an empty encounter over the given content.
// conditions may be nil when no vehicle conditions are loaded.
func New(cfg Config, abilities *data.AbilityRegistry, templates *data.TemplateRegistry, conditions ai.ConditionChecker) *Encounter {
	e := &Encounter{
		world:      world.New(),
		templates:  templates,
		difficulty: cfg.Difficulty,
		ticks:      ai.NewTickManager(cfg.TickInterval),
	}
	e.deps = ai.Deps{
		Abilities:  abilities,
		Conditions: conditions,
		Passengers: e.world.Passenger,
		Tunables:   cfg.Tunables,
	}
	e.ticks.SetPreTick(e.preTick)
	return e
}

// World returns the encounter's object registry.
func (e *Encounter) World() *world.World {
	return e.world
}

// Ticks returns the tick manager.
func (e *Encounter) Ticks() *ai.TickManager {
	return e.ticks
}

// Stats returns a snapshot of the counters.
func (e *Encounter) Stats() Stats {
	return Stats{
		Casts:    e.casts.Load(),
		Swings:   e.swings.Load(),
		Deaths:   e.deaths.Load(),
		Despawns: e.despawns.Load(),
	}
}

// Spawn creates a creature from the template with entry at loc, selects
// its AI and registers it for ticking. Call before Run or from Do.
func (e *Encounter) Spawn(entry int32, loc model.Location) (*model.Creature, error) {
	tmpl, ok := e.templates.Get(entry)
	if !ok {
		return nil, fmt.Errorf("spawning %d: %w", entry, ErrUnknownTemplate)
	}

	c := model.NewCreature(e.world.IDs().NextCreatureID(), tmpl, e.difficulty, loc, e.deps.Abilities, e.world.GetObject)
	ctrl, err := ai.Select(c, tmpl.AIName, e.deps)
	if err != nil {
		return nil, fmt.Errorf("spawning %d: %w", entry, err)
	}
	c.SetController(ctrl)
	c.SetCastFunc(e.onCast)
	c.SetMeleeFunc(e.onMelee)
	c.SetDespawnFunc(e.onDespawn)

	if err := e.world.AddCreature(c); err != nil {
		return nil, fmt.Errorf("spawning %d: %w", entry, err)
	}
	e.ticks.Register(c.ObjectID(), ctrl)

	slog.Info("creature spawned",
		"creature", c.Name(),
		"entry", entry,
		"objectID", c.ObjectID(),
		"ai", ctrl.Name())
	return c, nil
}

// AddPlayer creates a player at loc. Call before Run or from Do.
func (e *Encounter) AddPlayer(name string, level, maxHP int32, loc model.Location) (*model.Unit, error) {
	p := model.NewPlayer(e.world.IDs().NextPlayerID(), name, level, maxHP, loc)
	if err := e.world.AddPlayer(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Strike applies amount damage from attacker to target. Call before Run
// or from Do.
func (e *Encounter) Strike(attackerID, targetID uint32, amount int32) error {
	attacker, ok := e.world.GetObject(attackerID)
	if !ok {
		return fmt.Errorf("strike from %d: %w", attackerID, ErrUnknownObject)
	}
	target, ok := e.world.GetObject(targetID)
	if !ok {
		return fmt.Errorf("strike at %d: %w", targetID, ErrUnknownObject)
	}
	if !attacker.IsAlive() {
		return nil
	}
	if target.TakeDamage(amount, attacker) {
		e.recordDeath(target, attacker)
	}
	return nil
}

// Do queues fn to run on the tick goroutine before the next tick.
func (e *Encounter) Do(fn func()) {
	e.cmdMu.Lock()
	e.commands = append(e.commands, fn)
	e.cmdMu.Unlock()
}

// Step runs one tick with diff elapsed.
func (e *Encounter) Step(diff time.Duration) {
	e.ticks.Advance(diff)
}

// Run ticks until ctx is canceled.
func (e *Encounter) Run(ctx context.Context) error {
	return e.ticks.Start(ctx)
}

func (e *Encounter) drainCommands() {
	e.cmdMu.Lock()
	cmds := e.commands
	e.commands = nil
	e.cmdMu.Unlock()

	for _, fn := range cmds {
		fn()
	}
}

// preTick advances host state ahead of the controllers: queued commands,
// proximity aggro, then every creature's timers and notifications.
func (e *Encounter) preTick(diff time.Duration) {
	e.drainCommands()

	e.world.ForEachCreature(func(c *model.Creature) bool {
		e.aggroOnSight(c)
		c.Update(diff)
		return true
	})
}

// aggroOnSight engages the nearest living player within sight of an idle
// hostile creature.
func (e *Encounter) aggroOnSight(c *model.Creature) {
	if c.InCombat() || !c.IsAlive() || c.IsDespawned() || c.IsCharmed() {
		return
	}
	if c.IsCivilian() || c.IsNeutralToAll() || c.SightDistance() <= 0 {
		return
	}

	var (
		nearest *model.Unit
		bestSq  float64
	)
	loc := c.Location()
	for _, p := range e.world.PlayersInRange(loc, c.SightDistance()) {
		if p.Vehicle() != nil {
			continue
		}
		d := p.Location().DistanceSquared(loc)
		if nearest == nil || d < bestSq || (d == bestSq && p.ObjectID() < nearest.ObjectID()) {
			nearest, bestSq = p, d
		}
	}
	if nearest != nil {
		c.EngageWith(nearest)
	}
}

func (e *Encounter) onCast(caster *model.Creature, target ai.Unit, abilityID int32) {
	e.casts.Add(1)
	if ai.IsDebugEnabled() {
		slog.Debug("ability cast",
			"creature", caster.Name(),
			"objectID", caster.ObjectID(),
			"abilityID", abilityID,
			"target", target.ObjectID())
	}
}

func (e *Encounter) onMelee(attacker *model.Creature, target model.Target, damage int32) {
	e.swings.Add(1)
	if !target.IsAlive() {
		e.recordDeath(target, attacker)
	}
}

// recordDeath counts a kill. Creatures log their own death.
func (e *Encounter) recordDeath(victim, killer model.Target) {
	e.deaths.Add(1)
	if victim.IsPlayer() {
		slog.Info("player died",
			"player", victim.Name(),
			"objectID", victim.ObjectID(),
			"killer", killer.Name())
	}
}

// onDespawn runs inside the despawning creature's tick, so removal is
// deferred to the next tick.
func (e *Encounter) onDespawn(c *model.Creature) {
	e.despawns.Add(1)
	slog.Info("creature despawned",
		"creature", c.Name(),
		"objectID", c.ObjectID())

	e.Do(func() {
		e.ticks.Unregister(c.ObjectID())
		e.world.RemoveObject(c.ObjectID())
	})
}
