package optimizer

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/database"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/catalog"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/wargame"
)

func setupRouter(t *testing.T) chi.Router {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = db.Exec(database.Schema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zerolog.Nop()
	catalogs := catalog.NewService(catalog.NewRepository(db, log), catalog.NewConstraintRepository(db, log), log)
	h := NewHandler(NewEngine(log), wargame.NewEngine(wargame.MinTrials, log), catalogs, 5*time.Second, log)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func handlerCatalog() []domain.Strategy {
	return []domain.Strategy{
		{ID: "s1", Name: "Access review automation", Category: domain.CategoryTechnology,
			RiskReductionPct: 20, CostEstimate: 50000, TimeEstimateDays: 30,
			DisruptionLevel: domain.DisruptionLow},
		{ID: "s2", Name: "Tabletop exercises", Category: domain.CategoryTraining,
			RiskReductionPct: 12, CostEstimate: 15000, TimeEstimateDays: 20,
			DisruptionLevel: domain.DisruptionNone},
	}
}

func doPost(t *testing.T, r chi.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleOptimize_OK(t *testing.T) {
	r := setupRouter(t)

	w := doPost(t, r, "/optimize", map[string]interface{}{
		"strategies":   handlerCatalog(),
		"budget_limit": 100000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Portfolio domain.Portfolio `json:"portfolio"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Portfolio.Feasible)
	assert.Len(t, resp.Portfolio.Strategies, 2)
}

func TestHandleOptimize_IncludeWargame(t *testing.T) {
	r := setupRouter(t)

	w := doPost(t, r, "/optimize", map[string]interface{}{
		"strategies":      handlerCatalog(),
		"budget_limit":    100000,
		"include_wargame": true,
		"seed":            42,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Portfolio domain.Portfolio `json:"portfolio"`
		Wargame   *wargame.Report  `json:"wargame"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Wargame)
	assert.Len(t, resp.Wargame.AttackResults, 5)
	assert.Equal(t, int64(42), resp.Wargame.Seed)
}

func TestHandleOptimize_ValidationTo400(t *testing.T) {
	r := setupRouter(t)

	w := doPost(t, r, "/optimize", map[string]interface{}{
		"strategies":   handlerCatalog(),
		"budget_limit": -100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleOptimize_EmptyCatalogTo400(t *testing.T) {
	r := setupRouter(t)

	// no inline strategies and nothing stored
	w := doPost(t, r, "/optimize", map[string]interface{}{
		"budget_limit": 100000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleOptimize_DataQualityTo422(t *testing.T) {
	r := setupRouter(t)

	bad := handlerCatalog()
	bad[0].RiskReductionPct = 180
	w := doPost(t, r, "/optimize", map[string]interface{}{
		"strategies":   bad,
		"budget_limit": 100000,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleOptimize_InfeasibleIs200(t *testing.T) {
	r := setupRouter(t)

	w := doPost(t, r, "/optimize", map[string]interface{}{
		"strategies":   handlerCatalog(),
		"budget_limit": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Portfolio domain.Portfolio `json:"portfolio"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Portfolio.Feasible)
	assert.Empty(t, resp.Portfolio.Strategies)
}

func TestHandlePareto_OK(t *testing.T) {
	r := setupRouter(t)

	w := doPost(t, r, "/pareto", map[string]interface{}{
		"strategies":   handlerCatalog(),
		"budget_limit": 100000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Frontier []FrontierPoint `json:"frontier"`
		Count    int             `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, len(resp.Frontier), resp.Count)
	assert.NotEmpty(t, resp.Frontier)
}

func TestHandleOptimize_MalformedBody(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest("POST", "/optimize", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
