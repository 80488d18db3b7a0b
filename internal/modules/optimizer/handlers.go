package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/catalog"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/wargame"
)

// Handler handles HTTP requests for portfolio optimization and the
// Pareto frontier sweep.
type Handler struct {
	engine    *Engine
	wargamer  *wargame.Engine
	catalogs  *catalog.Service
	simBudget time.Duration
	log       zerolog.Logger
}

// NewHandler creates a new optimizer handler. simBudget caps the Monte
// Carlo pass of composite optimize-and-wargame requests.
func NewHandler(engine *Engine, wargamer *wargame.Engine, catalogs *catalog.Service, simBudget time.Duration, log zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		wargamer:  wargamer,
		catalogs:  catalogs,
		simBudget: simBudget,
		log:       log.With().Str("component", "optimizer_handler").Logger(),
	}
}

// RegisterRoutes registers optimizer routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/optimize", h.HandleOptimize)
	r.Post("/pareto", h.HandlePareto)
}

type optimizeRequest struct {
	Strategies        []domain.Strategy    `json:"strategies,omitempty"`
	BudgetLimit       float64              `json:"budget_limit"`
	TimelineLimitDays int                  `json:"timeline_limit_days,omitempty"`
	Tolerance         domain.RiskTolerance `json:"risk_tolerance,omitempty"`
	IncludeWargame    bool                 `json:"include_wargame,omitempty"`
	Trials            int                  `json:"simulation_trials,omitempty"`
	Seed              *int64               `json:"seed,omitempty"`
}

// HandleOptimize handles POST /api/optimize. With include_wargame the
// selected portfolio is stress-tested in the same call.
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Tolerance == "" {
		req.Tolerance = domain.ToleranceBalanced
	}

	strategies, extra, err := h.resolveInputs(r.Context(), req.Strategies)
	if err != nil {
		h.respondError(w, err)
		return
	}

	portfolio, err := h.engine.Optimize(Request{
		Catalog:           strategies,
		BudgetLimit:       req.BudgetLimit,
		TimelineLimitDays: req.TimelineLimitDays,
		Tolerance:         req.Tolerance,
		Extra:             extra,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	response := map[string]interface{}{
		"portfolio": portfolio,
	}
	if req.IncludeWargame {
		simCtx, cancel := context.WithTimeout(r.Context(), h.simBudget)
		defer cancel()
		report, err := h.wargamer.Run(simCtx, portfolio, strategies, wargame.Params{
			BudgetLimit:       req.BudgetLimit,
			TimelineLimitDays: req.TimelineLimitDays,
			Tolerance:         req.Tolerance,
			Extra:             extra,
			Trials:            req.Trials,
			Seed:              req.Seed,
		})
		if err != nil {
			h.respondError(w, err)
			return
		}
		response["wargame"] = report
	}

	h.writeJSON(w, http.StatusOK, response)
}

type paretoRequest struct {
	Strategies        []domain.Strategy    `json:"strategies,omitempty"`
	BudgetLimit       float64              `json:"budget_limit,omitempty"`
	TimelineLimitDays int                  `json:"timeline_limit_days,omitempty"`
	Tolerance         domain.RiskTolerance `json:"risk_tolerance,omitempty"`
}

// HandlePareto handles POST /api/pareto.
func (h *Handler) HandlePareto(w http.ResponseWriter, r *http.Request) {
	var req paretoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Tolerance == "" {
		req.Tolerance = domain.ToleranceBalanced
	}

	strategies, extra, err := h.resolveInputs(r.Context(), req.Strategies)
	if err != nil {
		h.respondError(w, err)
		return
	}

	frontier, err := h.engine.Frontier(r.Context(), Request{
		Catalog:           strategies,
		BudgetLimit:       req.BudgetLimit,
		TimelineLimitDays: req.TimelineLimitDays,
		Tolerance:         req.Tolerance,
		Extra:             extra,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"frontier": frontier,
		"count":    len(frontier),
	})
}

// resolveInputs merges request strategies with the stored catalog and
// loads the stored constraint rules.
func (h *Handler) resolveInputs(ctx context.Context, supplied []domain.Strategy) ([]domain.Strategy, domain.ConstraintSet, error) {
	strategies, err := h.catalogs.ResolveCatalog(ctx, supplied)
	if err != nil {
		return nil, nil, err
	}
	extra, err := h.catalogs.Constraints(ctx)
	if err != nil {
		return nil, nil, err
	}
	return strategies, extra, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case domain.IsDataQuality(err):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, context.DeadlineExceeded):
		h.writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		h.log.Error().Err(err).Msg("Optimization request failed")
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{"error": message})
}
