package wargame

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
)

// ProgressFunc receives per-batch trial progress for live streaming.
type ProgressFunc func(completed, total int)

// Handler handles HTTP requests for adversarial stress testing.
type Handler struct {
	engine    *Engine
	catalogs  *catalog.Service
	simBudget time.Duration
	notify    ProgressFunc
	log       zerolog.Logger
}

// NewHandler creates a new war-game handler. notify may be nil.
func NewHandler(engine *Engine, catalogs *catalog.Service, simBudget time.Duration, notify ProgressFunc, log zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		catalogs:  catalogs,
		simBudget: simBudget,
		notify:    notify,
		log:       log.With().Str("component", "wargame_handler").Logger(),
	}
}

// RegisterRoutes registers war-game routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/wargame", h.HandleRun)
}

type runRequest struct {
	StrategyIDs       []string             `json:"strategy_ids"`
	Strategies        []domain.Strategy    `json:"strategies,omitempty"`
	BudgetLimit       float64              `json:"budget_limit"`
	TimelineLimitDays int                  `json:"timeline_limit_days,omitempty"`
	Tolerance         domain.RiskTolerance `json:"risk_tolerance,omitempty"`
	Trials            int                  `json:"simulation_trials,omitempty"`
	Seed              *int64               `json:"seed,omitempty"`
}

// HandleRun handles POST /api/wargame. The portfolio under test is the
// set of catalog strategies named by strategy_ids.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Tolerance == "" {
		req.Tolerance = domain.ToleranceBalanced
	}

	strategies, err := h.catalogs.ResolveCatalog(r.Context(), req.Strategies)
	if err != nil {
		h.respondError(w, err)
		return
	}
	extra, err := h.catalogs.Constraints(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	portfolio, err := buildPortfolio(req.StrategyIDs, strategies)
	if err != nil {
		h.respondError(w, err)
		return
	}

	simCtx, cancel := context.WithTimeout(r.Context(), h.simBudget)
	defer cancel()
	report, err := h.engine.Run(simCtx, portfolio, strategies, Params{
		BudgetLimit:       req.BudgetLimit,
		TimelineLimitDays: req.TimelineLimitDays,
		Tolerance:         req.Tolerance,
		Extra:             extra,
		Trials:            req.Trials,
		Seed:              req.Seed,
		OnProgress:        h.notify,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// buildPortfolio resolves the named strategies into a portfolio.
func buildPortfolio(ids []string, strategies []domain.Strategy) (domain.Portfolio, error) {
	if len(ids) == 0 {
		return domain.Portfolio{}, domain.Invalidf("strategy_ids", "must not be empty")
	}
	byID := make(map[string]domain.Strategy, len(strategies))
	for _, s := range strategies {
		byID[s.ID] = s
	}
	members := make([]domain.Strategy, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return domain.Portfolio{}, domain.Invalidf("strategy_ids", "unknown strategy %q", id)
		}
		members = append(members, s)
	}
	return domain.NewPortfolio(members, true), nil
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
		h.log.Error().Err(err).Msg("War-game request failed")
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
