package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// ConstraintRepository persists named constraint rules.
type ConstraintRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewConstraintRepository creates a constraint repository.
func NewConstraintRepository(db *sql.DB, log zerolog.Logger) *ConstraintRepository {
	return &ConstraintRepository{
		db:  db,
		log: log.With().Str("component", "constraint_repository").Logger(),
	}
}

// List returns all stored constraints ordered by name.
func (r *ConstraintRepository) List(ctx context.Context) (domain.ConstraintSet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, kind, scope, min_value, max_value, target, penalty_per_unit
		FROM constraints ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list constraints: %w", err)
	}
	defer rows.Close()

	var set domain.ConstraintSet
	for rows.Next() {
		var (
			c           domain.Constraint
			kind, scope string
		)
		if err := rows.Scan(&c.Name, &kind, &scope, &c.Min, &c.Max, &c.Target, &c.Penalty); err != nil {
			return nil, fmt.Errorf("failed to scan constraint: %w", err)
		}
		c.Kind = domain.ConstraintKind(kind)
		c.Scope = domain.ConstraintScope(scope)
		set = append(set, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate constraints: %w", err)
	}
	return set, nil
}

// Upsert inserts or replaces a constraint by name.
func (r *ConstraintRepository) Upsert(ctx context.Context, c domain.Constraint) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO constraints (name, kind, scope, min_value, max_value, target, penalty_per_unit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			kind = excluded.kind,
			scope = excluded.scope,
			min_value = excluded.min_value,
			max_value = excluded.max_value,
			target = excluded.target,
			penalty_per_unit = excluded.penalty_per_unit`,
		c.Name, string(c.Kind), string(c.Scope), c.Min, c.Max, c.Target, c.Penalty,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert constraint %s: %w", c.Name, err)
	}
	r.log.Debug().Str("constraint", c.Name).Msg("Constraint stored")
	return nil
}

// Delete removes a constraint by name.
func (r *ConstraintRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM constraints WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete constraint %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
