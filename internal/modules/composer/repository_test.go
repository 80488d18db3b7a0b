package composer

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/database"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = db.Exec(database.Schema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db, zerolog.Nop())
}

func samplePackage(id string, createdAt time.Time) DecisionPackage {
	return DecisionPackage{
		ID:        id,
		Title:     "Risk Mitigation Decision Package (high exposure)",
		RiskScore: 60,
		Budget:    150000,
		RiskBand:  domain.BandFor(60),
		Scenarios: []Scenario{{Name: ScenarioBalanced, Recommended: true}},
		CreatedAt: createdAt,
	}
}

func TestRepository_SaveAndGetRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	pkg := samplePackage("pkg-1", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, pkg))

	got, err := repo.Get(ctx, "pkg-1")
	require.NoError(t, err)
	assert.Equal(t, pkg.Title, got.Title)
	assert.Equal(t, pkg.RiskScore, got.RiskScore)
	require.Len(t, got.Scenarios, 1)
	assert.True(t, got.Scenarios[0].Recommended)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Save(ctx, samplePackage("old", now.Add(-2*time.Hour))))
	require.NoError(t, repo.Save(ctx, samplePackage("new", now)))

	summaries, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "new", summaries[0].ID)
	assert.Equal(t, "old", summaries[1].ID)
}

func TestRepository_PruneByCutoff(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Save(ctx, samplePackage("stale", now.Add(-91*24*time.Hour))))
	require.NoError(t, repo.Save(ctx, samplePackage("fresh", now)))

	deleted, err := repo.Prune(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	summaries, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "fresh", summaries[0].ID)
}
