package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/creatureai/internal/ai"
	"github.com/udisondev/creatureai/internal/data"
)

// EnvPath overrides the config file path when set.
const EnvPath = "CREATUREAI_CONFIG"

// Data sources for ability, template and condition content.
const (
	SourceYAML     = "yaml"
	SourcePostgres = "postgres"
)

// Simulation holds all configuration for the encounter simulator.
type Simulation struct {
	LogLevel     string        `yaml:"log_level"`     // debug, info, warn, error
	TickInterval time.Duration `yaml:"tick_interval"` // default: 100ms
	Difficulty   string        `yaml:"difficulty"`    // normal, heroic, mythic

	// Content
	DataSource     string `yaml:"data_source"` // yaml | postgres
	AbilitiesFile  string `yaml:"abilities_file"`
	CreaturesFile  string `yaml:"creatures_file"`
	ConditionsFile string `yaml:"conditions_file"`

	// Database (data_source: postgres)
	Database      DatabaseConfig `yaml:"database"`
	MigrateOnBoot bool           `yaml:"migrate_on_boot"`

	AI AI `yaml:"ai"`
}

// AI holds the controller policy constants.
type AI struct {
	MeleeRange            float64       `yaml:"melee_range"`
	CasterCastDelay       time.Duration `yaml:"caster_cast_delay"`
	VehicleConditionCheck time.Duration `yaml:"vehicle_condition_check"`
	VehicleDismiss        time.Duration `yaml:"vehicle_dismiss"`
}

// Tunables converts the section into controller tunables.
func (a AI) Tunables() ai.Tunables {
	return ai.Tunables{
		MeleeRange:            a.MeleeRange,
		CasterCastDelay:       a.CasterCastDelay,
		VehicleConditionCheck: a.VehicleConditionCheck,
		VehicleDismiss:        a.VehicleDismiss,
	}
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	t := ai.DefaultTunables()
	return Simulation{
		LogLevel:       "info",
		TickInterval:   ai.DefaultTickInterval,
		Difficulty:     "normal",
		DataSource:     SourceYAML,
		AbilitiesFile:  "content/abilities.yaml",
		CreaturesFile:  "content/creatures.yaml",
		ConditionsFile: "content/conditions.yaml",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "creatureai",
			Password: "creatureai",
			DBName:   "creatureai",
			SSLMode:  "disable",
		},
		MigrateOnBoot: true,
		AI: AI{
			MeleeRange:            t.MeleeRange,
			CasterCastDelay:       t.CasterCastDelay,
			VehicleConditionCheck: t.VehicleConditionCheck,
			VehicleDismiss:        t.VehicleDismiss,
		},
	}
}

// Path returns the config path from the environment, or fallback.
func Path(fallback string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return fallback
}

// LoadSimulation loads simulator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks enumerated fields.
func (s Simulation) Validate() error {
	if _, err := s.SlogLevel(); err != nil {
		return err
	}
	if _, ok := data.ParseDifficulty(s.Difficulty); !ok {
		return fmt.Errorf("unknown difficulty %q", s.Difficulty)
	}
	switch s.DataSource {
	case SourceYAML, SourcePostgres:
	default:
		return fmt.Errorf("unknown data_source %q", s.DataSource)
	}
	if s.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", s.TickInterval)
	}
	return nil
}

// DifficultyTier returns the configured difficulty.
func (s Simulation) DifficultyTier() data.Difficulty {
	d, _ := data.ParseDifficulty(s.Difficulty)
	return d
}

// SlogLevel parses LogLevel.
func (s Simulation) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
