package ai

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownAIName is returned by Select for an AI name with no factory.
var ErrUnknownAIName = errors.New("unknown AI name")

// PermitLevel ranks how well a controller kind suits a creature.
// The highest permit wins when no AI name is set.
type PermitLevel int32

const (
	PermitNo              PermitLevel = -1
	PermitIdle            PermitLevel = 1
	PermitReactive        PermitLevel = 100
	PermitProactive       PermitLevel = 200
	PermitFactoryOverride PermitLevel = 300
	PermitSpecial         PermitLevel = 400
)

type factory struct {
	permissible func(Creature) PermitLevel
	create      func(Creature, Deps) (Controller, error)
}

// factories lists the generic controllers by AI name. Kinds without a
// permissible func are only selected by name.
var factories = map[string]factory{
	"NullAI": {
		permissible: func(Creature) PermitLevel { return PermitIdle },
		create:      func(c Creature, _ Deps) (Controller, error) { return NewNullAI(c), nil },
	},
	"AggressorAI": {
		permissible: AggressorPermissible,
		create:      func(c Creature, _ Deps) (Controller, error) { return NewAggressorAI(c), nil },
	},
	"CombatAI": {
		create: func(c Creature, d Deps) (Controller, error) { return NewCombatAI(c, d), nil },
	},
	"CasterAI": {
		create: func(c Creature, d Deps) (Controller, error) { return NewCasterAI(c, d), nil },
	},
	"ArcherAI": {
		create: func(c Creature, d Deps) (Controller, error) { return NewArcherAI(c, d), nil },
	},
	"TurretAI": {
		create: func(c Creature, d Deps) (Controller, error) { return NewTurretAI(c, d), nil },
	},
	"VehicleAI": {
		permissible: VehiclePermissible,
		create: func(c Creature, d Deps) (Controller, error) {
			v, ok := c.(Vehicle)
			if !ok {
				return nil, fmt.Errorf("creature %d is not a vehicle", c.Entry())
			}
			return NewVehicleAI(v, d), nil
		},
	},
}

// selectionOrder fixes the evaluation order so equal permits resolve the
// same way every time.
var selectionOrder = []string{"VehicleAI", "AggressorAI", "NullAI"}

// Select builds the controller for c. A non-empty aiName picks the kind
// directly; otherwise the kind with the highest permit is used.
func Select(c Creature, aiName string, deps Deps) (Controller, error) {
	if aiName == "" {
		aiName = bestPermitted(c)
	}

	f, ok := factories[aiName]
	if !ok {
		return nil, fmt.Errorf("selecting AI for creature %d: %w: %q", c.Entry(), ErrUnknownAIName, aiName)
	}
	ctrl, err := f.create(c, deps)
	if err != nil {
		return nil, fmt.Errorf("selecting AI for creature %d: %w", c.Entry(), err)
	}

	if IsDebugEnabled() {
		slog.Debug("AI selected",
			"creature", c.Name(),
			"entry", c.Entry(),
			"ai", ctrl.Name())
	}
	return ctrl, nil
}

func bestPermitted(c Creature) string {
	best, bestLevel := "NullAI", PermitNo
	for _, name := range selectionOrder {
		level := factories[name].permissible(c)
		if level > bestLevel {
			best, bestLevel = name, level
		}
	}
	return best
}
