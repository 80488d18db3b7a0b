package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// Service loads validated catalog snapshots and fronts strategy CRUD.
type Service struct {
	strategies  *Repository
	constraints *ConstraintRepository
	log         zerolog.Logger
}

// NewService creates the catalog service.
func NewService(strategies *Repository, constraints *ConstraintRepository, log zerolog.Logger) *Service {
	return &Service{
		strategies:  strategies,
		constraints: constraints,
		log:         log.With().Str("component", "catalog_service").Logger(),
	}
}

// Snapshot loads the full catalog once, validates it, and returns an
// immutable copy. Engine calls receive this snapshot and never re-fetch
// mid-computation, so one request always sees one consistent view.
func (s *Service) Snapshot(ctx context.Context) ([]domain.Strategy, error) {
	strategies, err := s.strategies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}
	if err := domain.ValidateCatalog(strategies); err != nil {
		return nil, err
	}
	s.log.Debug().Int("count", len(strategies)).Msg("Catalog snapshot loaded")
	return strategies, nil
}

// Constraints loads the stored constraint set.
func (s *Service) Constraints(ctx context.Context) (domain.ConstraintSet, error) {
	return s.constraints.List(ctx)
}

// Get returns one strategy.
func (s *Service) Get(ctx context.Context, id string) (domain.Strategy, error) {
	return s.strategies.Get(ctx, id)
}

// Create validates and stores a new strategy.
func (s *Service) Create(ctx context.Context, strategy domain.Strategy) error {
	if err := strategy.Validate(); err != nil {
		return err
	}
	return s.strategies.Create(ctx, strategy)
}

// Update validates and replaces a stored strategy.
func (s *Service) Update(ctx context.Context, strategy domain.Strategy) error {
	if err := strategy.Validate(); err != nil {
		return err
	}
	return s.strategies.Update(ctx, strategy)
}

// Delete removes a strategy.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.strategies.Delete(ctx, id)
}

// UpsertConstraint stores a constraint rule.
func (s *Service) UpsertConstraint(ctx context.Context, c domain.Constraint) error {
	return s.constraints.Upsert(ctx, c)
}

// DeleteConstraint removes a constraint rule.
func (s *Service) DeleteConstraint(ctx context.Context, name string) error {
	return s.constraints.Delete(ctx, name)
}

// ResolveCatalog prefers request-supplied strategies over the store:
// when the request carries its own catalog it is validated and used as
// is; otherwise the stored snapshot serves. An empty result in either
// case is the caller's InvalidInput to raise.
func (s *Service) ResolveCatalog(ctx context.Context, supplied []domain.Strategy) ([]domain.Strategy, error) {
	if len(supplied) > 0 {
		if err := domain.ValidateCatalog(supplied); err != nil {
			return nil, err
		}
		out := make([]domain.Strategy, len(supplied))
		copy(out, supplied)
		return out, nil
	}
	return s.Snapshot(ctx)
}
