package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/creatureai/internal/config"
	"github.com/udisondev/creatureai/internal/encounter"
)

func testConfig() config.Simulation {
	cfg := config.DefaultSimulation()
	root := filepath.Join("..", "..")
	cfg.AbilitiesFile = filepath.Join(root, cfg.AbilitiesFile)
	cfg.CreaturesFile = filepath.Join(root, cfg.CreaturesFile)
	cfg.ConditionsFile = filepath.Join(root, cfg.ConditionsFile)
	return cfg
}

func TestShippedConfigIsValid(t *testing.T) {
	cfg, err := config.LoadSimulation(filepath.Join("..", "..", ConfigPath))
	require.NoError(t, err)
	assert.Equal(t, config.SourceYAML, cfg.DataSource)
}

func TestScenario_RunsOnShippedContent(t *testing.T) {
	cfg := testConfig()
	c, err := loadContent(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	enc := encounter.New(encounter.Config{
		Difficulty: cfg.DifficultyTier(),
		Tunables:   cfg.AI.Tunables(),
	}, c.abilities, c.templates, c.conditions)

	sc, err := setupScenario(enc)
	require.NoError(t, err)
	assert.Equal(t, 7, enc.Ticks().Count())

	const tick = 100 * time.Millisecond
	for i := range 100 {
		if i%10 == 0 {
			enc.Do(sc.strike(enc))
		}
		enc.Step(tick)
	}

	stats := enc.Stats()
	assert.Positive(t, stats.Casts)
	assert.Positive(t, stats.Swings)

	assert.NotNil(t, sc.driver.Vehicle(), "driver still seated")
	assert.Len(t, sc.crew, 3)
	for _, u := range sc.crew[1:] {
		assert.Nil(t, u.Vehicle(), "%s fails the vehicle conditions", u.Name())
	}

	enc.Do(sc.driver.ExitVehicle)
	for range 70 {
		enc.Step(tick)
	}
	assert.Equal(t, int64(1), enc.Stats().Despawns, "abandoned engine despawns")
	assert.Equal(t, 6, enc.Ticks().Count())
}
