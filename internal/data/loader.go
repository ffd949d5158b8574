package data

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// abilityDef mirrors one entry of the abilities YAML file.
type abilityDef struct {
	ID           int32         `yaml:"id"`
	Difficulty   string        `yaml:"difficulty"`
	Name         string        `yaml:"name"`
	Cooldown     time.Duration `yaml:"cooldown"`
	RealCooldown time.Duration `yaml:"real_cooldown"`
	CastTime     time.Duration `yaml:"cast_time"`
	MinRange     float64       `yaml:"min_range"`
	MaxRange     float64       `yaml:"max_range"`
	Trigger      string        `yaml:"trigger"`
}

type abilityFile struct {
	Abilities []abilityDef `yaml:"abilities"`
}

// creatureDef mirrors one entry of the creatures YAML file.
type creatureDef struct {
	Entry          int32         `yaml:"entry"`
	Name           string        `yaml:"name"`
	AIName         string        `yaml:"ai_name"`
	Spells         []int32       `yaml:"spells"`
	Level          int32         `yaml:"level"`
	MaxHP          int32         `yaml:"max_hp"`
	MeleeDamage    int32         `yaml:"melee_damage"`
	MeleeRange     float64       `yaml:"melee_range"`
	AggroRange     float64       `yaml:"aggro_range"`
	AttackInterval time.Duration `yaml:"attack_interval"`
	Civilian       bool          `yaml:"civilian"`
	NeutralToAll   bool          `yaml:"neutral_to_all"`
	Vehicle        bool          `yaml:"vehicle"`
	Seats          int           `yaml:"seats"`
}

type creatureFile struct {
	Creatures []creatureDef `yaml:"creatures"`
}

// descriptor converts a YAML definition into an AbilityDescriptor.
func (d abilityDef) descriptor() (AbilityDescriptor, error) {
	diff, ok := ParseDifficulty(d.Difficulty)
	if !ok {
		return AbilityDescriptor{}, fmt.Errorf("ability %d: unknown difficulty %q", d.ID, d.Difficulty)
	}
	trig, err := ParseTrigger(d.Trigger)
	if err != nil {
		return AbilityDescriptor{}, fmt.Errorf("ability %d: %w", d.ID, err)
	}
	realCD := d.RealCooldown
	if realCD == 0 {
		realCD = d.Cooldown
	}
	return AbilityDescriptor{
		ID:           d.ID,
		Difficulty:   diff,
		Name:         d.Name,
		Cooldown:     d.Cooldown,
		RealCooldown: realCD,
		CastTime:     d.CastTime,
		MinRange:     d.MinRange,
		MaxRange:     d.MaxRange,
		Trigger:      trig,
	}, nil
}

func (d creatureDef) template() (CreatureTemplate, error) {
	if len(d.Spells) > MaxCreatureSpells {
		return CreatureTemplate{}, fmt.Errorf("creature %d: %d spells exceed %d slots", d.Entry, len(d.Spells), MaxCreatureSpells)
	}
	t := CreatureTemplate{
		Entry:          d.Entry,
		Name:           d.Name,
		AIName:         d.AIName,
		Level:          d.Level,
		MaxHP:          d.MaxHP,
		MeleeDamage:    d.MeleeDamage,
		MeleeRange:     d.MeleeRange,
		AggroRange:     d.AggroRange,
		AttackInterval: d.AttackInterval,
		Civilian:       d.Civilian,
		NeutralToAll:   d.NeutralToAll,
		Vehicle:        d.Vehicle,
		Seats:          d.Seats,
	}
	copy(t.Spells[:], d.Spells)
	return t, nil
}

// LoadAbilitiesYAML reads ability descriptors from path into reg.
func LoadAbilitiesYAML(path string, reg *AbilityRegistry) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading abilities %s: %w", path, err)
	}

	var f abilityFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parsing abilities %s: %w", path, err)
	}

	for _, def := range f.Abilities {
		desc, err := def.descriptor()
		if err != nil {
			return fmt.Errorf("loading abilities %s: %w", path, err)
		}
		if err := reg.Register(desc); err != nil {
			return fmt.Errorf("loading abilities %s: %w", path, err)
		}
	}

	slog.Info("loaded abilities", "path", path, "count", len(f.Abilities))
	return nil
}

// LoadCreaturesYAML reads creature templates from path into reg.
func LoadCreaturesYAML(path string, reg *TemplateRegistry) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading creatures %s: %w", path, err)
	}

	var f creatureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parsing creatures %s: %w", path, err)
	}

	for _, def := range f.Creatures {
		tmpl, err := def.template()
		if err != nil {
			return fmt.Errorf("loading creatures %s: %w", path, err)
		}
		if err := reg.Register(tmpl); err != nil {
			return fmt.Errorf("loading creatures %s: %w", path, err)
		}
	}

	slog.Info("loaded creature templates", "path", path, "count", len(f.Creatures))
	return nil
}
