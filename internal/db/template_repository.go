package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/creatureai/internal/data"
)

// TemplateRepository loads and stores creature templates.
type TemplateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

// Save inserts or replaces a template.
func (r *TemplateRepository) Save(ctx context.Context, t *data.CreatureTemplate) error {
	query := `
		INSERT INTO creature_templates (
			entry, name, ai_name, spells, level, max_hp, melee_damage,
			melee_range, aggro_range, attack_interval_ms,
			civilian, neutral_to_all, vehicle, seats
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (entry) DO UPDATE SET
			name = EXCLUDED.name,
			ai_name = EXCLUDED.ai_name,
			spells = EXCLUDED.spells,
			level = EXCLUDED.level,
			max_hp = EXCLUDED.max_hp,
			melee_damage = EXCLUDED.melee_damage,
			melee_range = EXCLUDED.melee_range,
			aggro_range = EXCLUDED.aggro_range,
			attack_interval_ms = EXCLUDED.attack_interval_ms,
			civilian = EXCLUDED.civilian,
			neutral_to_all = EXCLUDED.neutral_to_all,
			vehicle = EXCLUDED.vehicle,
			seats = EXCLUDED.seats
	`

	_, err := r.pool.Exec(ctx, query,
		t.Entry,
		t.Name,
		t.AIName,
		t.Spells[:],
		t.Level,
		t.MaxHP,
		t.MeleeDamage,
		t.MeleeRange,
		t.AggroRange,
		t.AttackInterval.Milliseconds(),
		t.Civilian,
		t.NeutralToAll,
		t.Vehicle,
		t.Seats,
	)
	if err != nil {
		return fmt.Errorf("saving creature template %d: %w", t.Entry, err)
	}
	return nil
}

// LoadInto registers every stored template in reg and returns the count.
func (r *TemplateRepository) LoadInto(ctx context.Context, reg *data.TemplateRegistry) (int, error) {
	query := `
		SELECT entry, name, ai_name, spells, level, max_hp, melee_damage,
		       melee_range, aggro_range, attack_interval_ms,
		       civilian, neutral_to_all, vehicle, seats
		FROM creature_templates
		ORDER BY entry
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("loading creature templates: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var (
			t                      data.CreatureTemplate
			spells                 []int32
			meleeRange, aggroRange float32
			intervalMs             int32
			seats                  int32
		)
		if err := rows.Scan(
			&t.Entry, &t.Name, &t.AIName, &spells, &t.Level, &t.MaxHP, &t.MeleeDamage,
			&meleeRange, &aggroRange, &intervalMs,
			&t.Civilian, &t.NeutralToAll, &t.Vehicle, &seats,
		); err != nil {
			return n, fmt.Errorf("scanning creature template row: %w", err)
		}
		if len(spells) > data.MaxCreatureSpells {
			return n, fmt.Errorf("creature %d: %d spells exceed %d slots", t.Entry, len(spells), data.MaxCreatureSpells)
		}
		copy(t.Spells[:], spells)
		t.MeleeRange = float64(meleeRange)
		t.AggroRange = float64(aggroRange)
		t.AttackInterval = time.Duration(intervalMs) * time.Millisecond
		t.Seats = int(seats)

		if err := reg.Register(t); err != nil {
			return n, err
		}
		n++
	}

	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("iterating creature template rows: %w", err)
	}
	return n, nil
}
