package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/creatureai/internal/data"
)

// AbilityRepository loads and stores ability descriptors.
type AbilityRepository struct {
	pool *pgxpool.Pool
}

// NewAbilityRepository creates a new ability repository.
func NewAbilityRepository(pool *pgxpool.Pool) *AbilityRepository {
	return &AbilityRepository{pool: pool}
}

// Save inserts or replaces the descriptor for (ID, Difficulty).
func (r *AbilityRepository) Save(ctx context.Context, desc data.AbilityDescriptor) error {
	query := `
		INSERT INTO abilities (
			ability_id, difficulty, name, cooldown_ms, real_cooldown_ms,
			cast_time_ms, min_range, max_range, trigger
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (ability_id, difficulty) DO UPDATE SET
			name = EXCLUDED.name,
			cooldown_ms = EXCLUDED.cooldown_ms,
			real_cooldown_ms = EXCLUDED.real_cooldown_ms,
			cast_time_ms = EXCLUDED.cast_time_ms,
			min_range = EXCLUDED.min_range,
			max_range = EXCLUDED.max_range,
			trigger = EXCLUDED.trigger
	`

	_, err := r.pool.Exec(ctx, query,
		desc.ID,
		desc.Difficulty.String(),
		desc.Name,
		desc.Cooldown.Milliseconds(),
		desc.RealCooldown.Milliseconds(),
		desc.CastTime.Milliseconds(),
		desc.MinRange,
		desc.MaxRange,
		strings.ToLower(desc.Trigger.String()),
	)
	if err != nil {
		return fmt.Errorf("saving ability %d (%s): %w", desc.ID, desc.Difficulty, err)
	}
	return nil
}

// LoadInto registers every stored ability in reg and returns the count.
func (r *AbilityRepository) LoadInto(ctx context.Context, reg *data.AbilityRegistry) (int, error) {
	query := `
		SELECT ability_id, difficulty, name, cooldown_ms, real_cooldown_ms,
		       cast_time_ms, min_range, max_range, trigger
		FROM abilities
		ORDER BY ability_id, difficulty
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("loading abilities: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var (
			id                 int32
			difficulty, name   string
			cooldownMs, realMs int32
			castMs             int32
			minRange, maxRange float32
			trigger            string
		)
		if err := rows.Scan(
			&id, &difficulty, &name, &cooldownMs, &realMs,
			&castMs, &minRange, &maxRange, &trigger,
		); err != nil {
			return n, fmt.Errorf("scanning ability row: %w", err)
		}

		diff, ok := data.ParseDifficulty(difficulty)
		if !ok {
			return n, fmt.Errorf("ability %d: unknown difficulty %q", id, difficulty)
		}
		trig, err := data.ParseTrigger(trigger)
		if err != nil {
			return n, fmt.Errorf("ability %d: %w", id, err)
		}

		desc := data.AbilityDescriptor{
			ID:           id,
			Difficulty:   diff,
			Name:         name,
			Cooldown:     time.Duration(cooldownMs) * time.Millisecond,
			RealCooldown: time.Duration(realMs) * time.Millisecond,
			CastTime:     time.Duration(castMs) * time.Millisecond,
			MinRange:     float64(minRange),
			MaxRange:     float64(maxRange),
			Trigger:      trig,
		}
		if desc.RealCooldown == 0 {
			desc.RealCooldown = desc.Cooldown
		}
		if err := reg.Register(desc); err != nil {
			return n, err
		}
		n++
	}

	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("iterating ability rows: %w", err)
	}
	return n, nil
}
