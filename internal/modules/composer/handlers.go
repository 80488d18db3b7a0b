package composer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/catalog"
)

// Handler handles HTTP requests for decision packages.
type Handler struct {
	service  *Service
	packages *Repository
	catalogs *catalog.Service
	log      zerolog.Logger
}

// NewHandler creates a new composer handler.
func NewHandler(service *Service, packages *Repository, catalogs *catalog.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		packages: packages,
		catalogs: catalogs,
		log:      log.With().Str("component", "composer_handler").Logger(),
	}
}

// RegisterRoutes registers decision-package routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/decision-package", h.HandleBuild)
	r.Route("/decision-packages", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
	})
}

// HandleBuild handles POST /api/decision-package.
func (h *Handler) HandleBuild(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	strategies, err := h.catalogs.ResolveCatalog(r.Context(), req.Catalog)
	if err != nil {
		h.respondError(w, err)
		return
	}
	req.Catalog = strategies
	if len(req.Extra) == 0 {
		req.Extra, err = h.catalogs.Constraints(r.Context())
		if err != nil {
			h.respondError(w, err)
			return
		}
	}

	pkg, err := h.service.Build(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pkg)
}

// HandleList handles GET /api/decision-packages.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	summaries, err := h.packages.List(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"packages": summaries,
		"count":    len(summaries),
	})
}

// HandleGet handles GET /api/decision-packages/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.packages.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pkg)
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
		h.writeError(w, http.StatusGatewayTimeout, "decision package build timed out")
	default:
		h.log.Error().Err(err).Msg("Decision package request failed")
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
