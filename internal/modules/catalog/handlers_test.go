package catalog

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/database"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = db.Exec(database.Schema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupHandler(t *testing.T) (*Handler, chi.Router) {
	t.Helper()
	db := setupTestDB(t)
	log := zerolog.Nop()
	service := NewService(NewRepository(db, log), NewConstraintRepository(db, log), log)
	h := NewHandler(service, log)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return h, r
}

func postJSON(t *testing.T, r chi.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleCreateAndGet(t *testing.T) {
	_, r := setupHandler(t)

	strategy := domain.Strategy{
		ID: "s1", Name: "Patch cadence overhaul", Category: domain.CategoryTechnology,
		RiskReductionPct: 25, CostEstimate: 40000, TimeEstimateDays: 20,
		DisruptionLevel: domain.DisruptionLow,
	}
	w := postJSON(t, r, "/strategies", strategy)
	assert.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest("GET", "/strategies/s1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var got domain.Strategy
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "Patch cadence overhaul", got.Name)
}

func TestHandleGet_NotFound(t *testing.T) {
	_, r := setupHandler(t)

	req := httptest.NewRequest("GET", "/strategies/ghost", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCreate_BadStrategyRejected(t *testing.T) {
	_, r := setupHandler(t)

	w := postJSON(t, r, "/strategies", domain.Strategy{
		ID: "bad", Name: "No category", RiskReductionPct: 200,
		DisruptionLevel: domain.DisruptionLow,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleList(t *testing.T) {
	_, r := setupHandler(t)

	for _, id := range []string{"a", "b"} {
		w := postJSON(t, r, "/strategies", domain.Strategy{
			ID: id, Name: "Strategy " + id, Category: domain.CategoryProcess,
			RiskReductionPct: 10, CostEstimate: 1000, TimeEstimateDays: 10,
			DisruptionLevel: domain.DisruptionNone,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest("GET", "/strategies", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
}

func TestHandleDelete(t *testing.T) {
	_, r := setupHandler(t)

	w := postJSON(t, r, "/strategies", domain.Strategy{
		ID: "gone", Name: "Short lived", Category: domain.CategoryPolicy,
		RiskReductionPct: 5, CostEstimate: 500, TimeEstimateDays: 5,
		DisruptionLevel: domain.DisruptionNone,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest("DELETE", "/strategies/gone", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	req = httptest.NewRequest("GET", "/strategies/gone", nil)
	w2 = httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusNotFound, w2.Code)
}

func TestHandleConstraints_UpsertListDelete(t *testing.T) {
	_, r := setupHandler(t)

	max := 100000.0
	w := postJSON(t, r, "/constraints", domain.Constraint{
		Name: "budget_gate", Kind: domain.ConstraintHard, Scope: domain.ScopeBudget, Max: &max,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/constraints", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)

	req = httptest.NewRequest("DELETE", "/constraints/budget_gate", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleUpsertConstraint_InvalidRule(t *testing.T) {
	_, r := setupHandler(t)

	// hard constraint without bounds
	w := postJSON(t, r, "/constraints", domain.Constraint{
		Name: "empty_gate", Kind: domain.ConstraintHard, Scope: domain.ScopeBudget,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
