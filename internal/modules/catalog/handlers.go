package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// Handler handles HTTP requests for the strategy catalog and the stored
// constraint rules.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("component", "catalog_handler").Logger(),
	}
}

// RegisterRoutes registers catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/strategies", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
	r.Route("/constraints", func(r chi.Router) {
		r.Get("/", h.HandleListConstraints)
		r.Post("/", h.HandleUpsertConstraint)
		r.Delete("/{name}", h.HandleDeleteConstraint)
	})
}

// HandleList handles GET /api/strategies.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	strategies, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": strategies,
		"count":      len(strategies),
	})
}

// HandleGet handles GET /api/strategies/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	strategy, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, strategy)
}

// HandleCreate handles POST /api/strategies.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var strategy domain.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strategy); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.service.Create(r.Context(), strategy); err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, strategy)
}

// HandleUpdate handles PUT /api/strategies/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var strategy domain.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strategy); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	strategy.ID = chi.URLParam(r, "id")
	if err := h.service.Update(r.Context(), strategy); err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, strategy)
}

// HandleDelete handles DELETE /api/strategies/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleListConstraints handles GET /api/constraints.
func (h *Handler) HandleListConstraints(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.Constraints(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"constraints": rules,
		"count":       len(rules),
	})
}

// HandleUpsertConstraint handles POST /api/constraints.
func (h *Handler) HandleUpsertConstraint(w http.ResponseWriter, r *http.Request) {
	var rule domain.Constraint
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.service.UpsertConstraint(r.Context(), rule); err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rule)
}

// HandleDeleteConstraint handles DELETE /api/constraints/{name}.
func (h *Handler) HandleDeleteConstraint(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteConstraint(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// respondError maps domain errors to HTTP status codes.
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
		h.log.Error().Err(err).Msg("Catalog request failed")
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
