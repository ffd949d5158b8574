package condition

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type conditionDef struct {
	Kind   string `yaml:"kind"`
	Value  int32  `yaml:"value"`
	Negate bool   `yaml:"negate"`
	Script string `yaml:"script"`
}

type vehicleDef struct {
	Entry      int32          `yaml:"entry"`
	Conditions []conditionDef `yaml:"conditions"`
}

type conditionFile struct {
	Vehicles []vehicleDef `yaml:"vehicles"`
}

// ParseCondition builds a Condition from its data-file fields.
func ParseCondition(kind string, value int32, negate bool, script string) (Condition, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Condition{}, err
	}
	if k == KindScript && script == "" {
		return Condition{}, fmt.Errorf("script condition has empty script")
	}
	return Condition{Kind: k, Value: value, Negate: negate, Script: script}, nil
}

// LoadYAML reads vehicle conditions from path into m.
func LoadYAML(path string, m *Manager) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading conditions %s: %w", path, err)
	}

	var f conditionFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parsing conditions %s: %w", path, err)
	}

	total := 0
	for _, v := range f.Vehicles {
		conds := make([]Condition, 0, len(v.Conditions))
		for _, def := range v.Conditions {
			c, err := ParseCondition(def.Kind, def.Value, def.Negate, def.Script)
			if err != nil {
				return fmt.Errorf("loading conditions %s, vehicle %d: %w", path, v.Entry, err)
			}
			conds = append(conds, c)
		}
		m.Add(SourceCreatureTemplateVehicle, v.Entry, conds...)
		total += len(conds)
	}

	slog.Info("loaded conditions", "path", path, "vehicles", len(f.Vehicles), "conditions", total)
	return nil
}
