package impact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/catalog"
)

// Handler handles HTTP requests for cascading-impact analysis.
type Handler struct {
	analyzer *Analyzer
	catalogs *catalog.Service
	log      zerolog.Logger
}

// NewHandler creates a new impact handler.
func NewHandler(analyzer *Analyzer, catalogs *catalog.Service, log zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		catalogs: catalogs,
		log:      log.With().Str("component", "impact_handler").Logger(),
	}
}

// RegisterRoutes registers impact routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/impact", h.HandleAnalyze)
}

type analyzeRequest struct {
	StrategyID string            `json:"strategy_id"`
	Strategies []domain.Strategy `json:"strategies,omitempty"`
}

// HandleAnalyze handles POST /api/impact.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.StrategyID == "" {
		h.writeError(w, http.StatusBadRequest, "strategy_id is required")
		return
	}

	strategies, err := h.catalogs.ResolveCatalog(r.Context(), req.Strategies)
	if err != nil {
		h.respondError(w, err)
		return
	}

	var origin *domain.Strategy
	for i := range strategies {
		if strategies[i].ID == req.StrategyID {
			origin = &strategies[i]
			break
		}
	}
	if origin == nil {
		h.writeError(w, http.StatusNotFound, "strategy "+req.StrategyID+" not found")
		return
	}

	report, err := h.analyzer.Analyze(*origin, strategies)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
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
		h.log.Error().Err(err).Msg("Impact analysis failed")
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
