package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/creatureai/internal/encounter"
	"github.com/udisondev/creatureai/internal/model"
)

// Creature entries used by the demo, see content/creatures.yaml.
const (
	entryFrostAdept     = 5001
	entrySiegeEngine    = 5002
	entryTimberWolf     = 5003
	entryScourgeBrute   = 5004
	entrySkeletonArcher = 5005
	entryBallista       = 5006
	entryQuartermaster  = 5007
)

const (
	strikeInterval = time.Second
	driverLeavesAt = 8 * time.Second
)

// assault is one player hitting one creature every strike interval.
type assault struct {
	attacker *model.Unit
	target   *model.Creature
	damage   int32
}

// scenario is the scripted side of the demo: players attacking and a
// vehicle crew that eventually abandons its engine.
type scenario struct {
	assaults []assault
	driver   *model.Unit
	crew     []*model.Unit // by seat
}

type spawnDef struct {
	entry int32
	loc   model.Location
}

type playerDef struct {
	name  string
	level int32
	maxHP int32
	loc   model.Location
}

func setupScenario(enc *encounter.Encounter) (*scenario, error) {
	spawns := []spawnDef{
		{entryFrostAdept, model.NewLocation(0, 0, 0)},
		{entrySiegeEngine, model.NewLocation(100, 0, 0)},
		{entryTimberWolf, model.NewLocation(-40, 0, 0)},
		{entryScourgeBrute, model.NewLocation(-40, 10, 0)},
		{entrySkeletonArcher, model.NewLocation(0, 80, 0)},
		{entryBallista, model.NewLocation(0, -120, 5)},
		{entryQuartermaster, model.NewLocation(2, 2, 0)},
	}
	creatures := make(map[int32]*model.Creature, len(spawns))
	for _, s := range spawns {
		c, err := enc.Spawn(s.entry, s.loc)
		if err != nil {
			return nil, err
		}
		creatures[s.entry] = c
	}

	players := []playerDef{
		{"Mage", 80, 18000, model.NewLocation(15, 0, 0)},
		{"Tank", 80, 60000, model.NewLocation(-38, 4, 0)},
		{"Hunter", 80, 20000, model.NewLocation(0, 60, 0)},
		{"Sapper", 80, 25000, model.NewLocation(0, -75, 5)},
		{"Driver", 80, 30000, model.NewLocation(100, 0, 0)},
		{"Gunner", 65, 20000, model.NewLocation(100, 0, 0)},
		{"Mechanic", 86, 22000, model.NewLocation(100, 0, 0)},
	}
	units := make(map[string]*model.Unit, len(players))
	for _, p := range players {
		u, err := enc.AddPlayer(p.name, p.level, p.maxHP, p.loc)
		if err != nil {
			return nil, err
		}
		units[p.name] = u
	}

	engine := creatures[entrySiegeEngine].Kit()
	crew := []*model.Unit{units["Driver"], units["Gunner"], units["Mechanic"]}
	for seat, u := range crew {
		if err := engine.Board(u, seat); err != nil {
			return nil, fmt.Errorf("boarding crew: %w", err)
		}
	}

	sc := &scenario{
		assaults: []assault{
			{units["Mage"], creatures[entryFrostAdept], 450},
			{units["Tank"], creatures[entryScourgeBrute], 300},
			{units["Tank"], creatures[entryTimberWolf], 200},
			{units["Hunter"], creatures[entrySkeletonArcher], 350},
			{units["Sapper"], creatures[entryBallista], 600},
		},
		driver: units["Driver"],
		crew:   crew,
	}
	slog.Info("scenario ready",
		"creatures", len(spawns),
		"players", len(players))
	return sc, nil
}

// play issues player actions until ctx is canceled.
func (sc *scenario) play(ctx context.Context, enc *encounter.Encounter) {
	ticker := time.NewTicker(strikeInterval)
	defer ticker.Stop()
	leave := time.After(driverLeavesAt)

	for {
		select {
		case <-ctx.Done():
			return

		case <-leave:
			enc.Do(func() {
				slog.Info("driver leaves the siege engine", "driver", sc.driver.Name())
				sc.driver.ExitVehicle()
			})

		case <-ticker.C:
			enc.Do(sc.strike(enc))
		}
	}
}

func (sc *scenario) strike(enc *encounter.Encounter) func() {
	return func() {
		for _, a := range sc.assaults {
			if !a.target.IsAlive() || a.target.IsDespawned() {
				continue
			}
			if err := enc.Strike(a.attacker.ObjectID(), a.target.ObjectID(), a.damage); err != nil {
				slog.Warn("strike failed",
					"attacker", a.attacker.Name(),
					"target", a.target.Name(),
					"err", err)
			}
		}
	}
}
