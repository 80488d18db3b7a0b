package composer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// Repository persists decision packages. The full package travels as a
// msgpack blob; the indexed columns exist only for listing and pruning.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a package repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "package_repository").Logger(),
	}
}

// Save stores one built package.
func (r *Repository) Save(ctx context.Context, pkg DecisionPackage) error {
	payload, err := msgpack.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("encode package %s: %w", pkg.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO decision_packages (id, title, risk_score, budget, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		pkg.ID, pkg.Title, pkg.RiskScore, pkg.Budget, payload,
		pkg.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert package %s: %w", pkg.ID, err)
	}

	r.log.Debug().Str("package_id", pkg.ID).Int("payload_bytes", len(payload)).Msg("Decision package stored")
	return nil
}

// Get loads one package by id.
func (r *Repository) Get(ctx context.Context, id string) (DecisionPackage, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM decision_packages WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return DecisionPackage{}, domain.ErrNotFound
	}
	if err != nil {
		return DecisionPackage{}, fmt.Errorf("load package %s: %w", id, err)
	}

	var pkg DecisionPackage
	if err := msgpack.Unmarshal(payload, &pkg); err != nil {
		return DecisionPackage{}, fmt.Errorf("decode package %s: %w", id, err)
	}
	return pkg, nil
}

// List returns summaries of the most recent packages, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]PackageSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, risk_score, budget, created_at
		FROM decision_packages
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var out []PackageSummary
	for rows.Next() {
		var s PackageSummary
		var created string
		if err := rows.Scan(&s.ID, &s.Title, &s.RiskScore, &s.Budget, &created); err != nil {
			return nil, fmt.Errorf("scan package summary: %w", err)
		}
		s.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("package %s has malformed created_at %q: %w", s.ID, created, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Prune removes packages created before the cutoff. Returns the number
// of rows deleted.
func (r *Repository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM decision_packages WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("prune packages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Pruned expired decision packages")
	}
	return n, nil
}
