package horizons

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

// Handler handles HTTP requests for multi-horizon allocation.
type Handler struct {
	allocator *Allocator
	catalogs  *catalog.Service
	log       zerolog.Logger
}

// NewHandler creates a new horizons handler.
func NewHandler(allocator *Allocator, catalogs *catalog.Service, log zerolog.Logger) *Handler {
	return &Handler{
		allocator: allocator,
		catalogs:  catalogs,
		log:       log.With().Str("component", "horizons_handler").Logger(),
	}
}

// RegisterRoutes registers horizon routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/horizons", h.HandleAllocate)
}

type allocateRequest struct {
	Strategies  []domain.Strategy    `json:"strategies,omitempty"`
	BudgetLimit float64              `json:"budget_limit"`
	RiskScore   float64              `json:"risk_score"`
	Tolerance   domain.RiskTolerance `json:"risk_tolerance,omitempty"`
}

// HandleAllocate handles POST /api/horizons.
func (h *Handler) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	strategies, err := h.catalogs.ResolveCatalog(r.Context(), req.Strategies)
	if err != nil {
		h.respondError(w, err)
		return
	}

	plan, err := h.allocator.Allocate(r.Context(), strategies, req.BudgetLimit, req.RiskScore, req.Tolerance)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
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
		h.log.Error().Err(err).Msg("Horizon allocation failed")
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
