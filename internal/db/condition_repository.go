package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/creatureai/internal/condition"
)

// ConditionRepository loads and stores condition lists.
type ConditionRepository struct {
	pool *pgxpool.Pool
}

// NewConditionRepository creates a new condition repository.
func NewConditionRepository(pool *pgxpool.Pool) *ConditionRepository {
	return &ConditionRepository{pool: pool}
}

// Replace overwrites the condition list for (source, entry) in one transaction.
func (r *ConditionRepository) Replace(ctx context.Context, source condition.SourceType, entry int32, conds []condition.Condition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM conditions WHERE source_type = $1 AND entry = $2`,
		int16(source), entry,
	); err != nil {
		return fmt.Errorf("deleting conditions %s/%d: %w", source, entry, err)
	}

	if len(conds) > 0 {
		batch := &pgx.Batch{}
		for _, c := range conds {
			batch.Queue(
				`INSERT INTO conditions (source_type, entry, kind, value, negate, script)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				int16(source), entry, c.Kind.String(), c.Value, c.Negate, c.Script,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting conditions %s/%d: %w", source, entry, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing conditions %s/%d: %w", source, entry, err)
	}
	return nil
}

// LoadInto adds every stored condition to m and returns the count.
func (r *ConditionRepository) LoadInto(ctx context.Context, m *condition.Manager) (int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT source_type, entry, kind, value, negate, script
		 FROM conditions
		 ORDER BY source_type, entry, id`,
	)
	if err != nil {
		return 0, fmt.Errorf("loading conditions: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var (
			source       int16
			entry, value int32
			kind, script string
			negate       bool
		)
		if err := rows.Scan(&source, &entry, &kind, &value, &negate, &script); err != nil {
			return n, fmt.Errorf("scanning condition row: %w", err)
		}

		c, err := condition.ParseCondition(kind, value, negate, script)
		if err != nil {
			return n, fmt.Errorf("condition for %d: %w", entry, err)
		}
		m.Add(condition.SourceType(source), entry, c)
		n++
	}

	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("iterating condition rows: %w", err)
	}
	return n, nil
}
