// Package catalog manages the mitigation strategy catalog and stored
// constraint sets. The engine consumes immutable per-request snapshots;
// all mutation happens here, behind the REST boundary.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// Repository provides strategy persistence on the store database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a strategy repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "catalog_repository").Logger(),
	}
}

const strategyColumns = `id, name, category, risk_reduction_pct, cost_estimate,
	cost_min, cost_max, time_estimate_days, time_min_days, time_max_days,
	applicability, approval_level, disruption_level`

// List returns every stored strategy ordered by id.
func (r *Repository) List(ctx context.Context) ([]domain.Strategy, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+strategyColumns+` FROM strategies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list strategies: %w", err)
	}
	defer rows.Close()

	var out []domain.Strategy
	for rows.Next() {
		s, err := scanStrategy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate strategies: %w", err)
	}
	return out, nil
}

// Get returns one strategy by id, or domain.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (domain.Strategy, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+strategyColumns+` FROM strategies WHERE id = ?`, id)
	s, err := scanStrategy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Strategy{}, domain.ErrNotFound
	}
	return s, err
}

// Create inserts a strategy. The id must not already exist.
func (r *Repository) Create(ctx context.Context, s domain.Strategy) error {
	tags, err := json.Marshal(s.Applicability)
	if err != nil {
		return fmt.Errorf("failed to encode applicability for %s: %w", s.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO strategies (id, name, category, risk_reduction_pct, cost_estimate,
			cost_min, cost_max, time_estimate_days, time_min_days, time_max_days,
			applicability, approval_level, disruption_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, string(s.Category), s.RiskReductionPct, s.CostEstimate,
		s.CostMin, s.CostMax, s.TimeEstimateDays, s.TimeMinDays, s.TimeMaxDays,
		string(tags), s.ApprovalLevel, string(s.DisruptionLevel),
	)
	if err != nil {
		return fmt.Errorf("failed to insert strategy %s: %w", s.ID, err)
	}

	r.log.Debug().Str("strategy_id", s.ID).Msg("Strategy created")
	return nil
}

// Update replaces a stored strategy.
func (r *Repository) Update(ctx context.Context, s domain.Strategy) error {
	tags, err := json.Marshal(s.Applicability)
	if err != nil {
		return fmt.Errorf("failed to encode applicability for %s: %w", s.ID, err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE strategies SET
			name = ?, category = ?, risk_reduction_pct = ?, cost_estimate = ?,
			cost_min = ?, cost_max = ?, time_estimate_days = ?, time_min_days = ?,
			time_max_days = ?, applicability = ?, approval_level = ?,
			disruption_level = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, string(s.Category), s.RiskReductionPct, s.CostEstimate,
		s.CostMin, s.CostMax, s.TimeEstimateDays, s.TimeMinDays, s.TimeMaxDays,
		string(tags), s.ApprovalLevel, string(s.DisruptionLevel),
		time.Now().UTC().Format(time.RFC3339), s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update strategy %s: %w", s.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a strategy by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM strategies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete strategy %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of stored strategies.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strategies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count strategies: %w", err)
	}
	return n, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStrategy(row scanner) (domain.Strategy, error) {
	var (
		s         domain.Strategy
		category  string
		tags      string
		disruptor string
	)
	err := row.Scan(
		&s.ID, &s.Name, &category, &s.RiskReductionPct, &s.CostEstimate,
		&s.CostMin, &s.CostMax, &s.TimeEstimateDays, &s.TimeMinDays, &s.TimeMaxDays,
		&tags, &s.ApprovalLevel, &disruptor,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Strategy{}, err
		}
		return domain.Strategy{}, fmt.Errorf("failed to scan strategy: %w", err)
	}
	s.Category = domain.Category(category)
	s.DisruptionLevel = domain.Disruption(disruptor)
	if err := json.Unmarshal([]byte(tags), &s.Applicability); err != nil {
		return domain.Strategy{}, &domain.DataQualityError{StrategyID: s.ID, Reason: "malformed applicability tags"}
	}
	return s, nil
}
