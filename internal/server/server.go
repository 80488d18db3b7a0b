package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/config"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/database"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/catalog"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/composer"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/horizons"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/impact"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/optimizer"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/orgcontext"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/wargame"
)

// Config holds server configuration
type Config struct {
	Port    int
	Log     zerolog.Logger
	DB      *database.DB
	Config  *config.Config
	DevMode bool
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	db       *database.DB
	cfg      *config.Config
	hub      *EventHub
	packages *composer.Repository
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		db:     cfg.DB,
		cfg:    cfg.Config,
		hub:    NewEventHub(cfg.Log),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(cfg.Log)

	// WriteTimeout must outlast the request timeout so long Monte Carlo
	// builds are not cut off mid-response.
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes builds the module services and mounts their routes.
func (s *Server) setupRoutes(log zerolog.Logger) {
	conn := s.db.Conn()

	catalogs := catalog.NewService(
		catalog.NewRepository(conn, log),
		catalog.NewConstraintRepository(conn, log),
		log,
	)
	engine := optimizer.NewEngine(log)
	wargamer := wargame.NewEngine(s.cfg.SimulationTrials, log)
	allocator := horizons.NewAllocator(engine, log)
	analyzer := impact.NewAnalyzer(log)
	detector := orgcontext.NewDetector(log)

	s.packages = composer.NewRepository(conn, log)
	composerSvc := composer.NewService(
		engine, wargamer, allocator, detector,
		s.packages, s.cfg.SimulationBudget, log,
	)

	catalogHandler := catalog.NewHandler(catalogs, log)
	optimizerHandler := optimizer.NewHandler(engine, wargamer, catalogs, s.cfg.SimulationBudget, log)
	impactHandler := impact.NewHandler(analyzer, catalogs, log)
	wargameHandler := wargame.NewHandler(wargamer, catalogs, s.cfg.SimulationBudget, s.wargameProgress, log)
	horizonsHandler := horizons.NewHandler(allocator, catalogs, log)
	composerHandler := composer.NewHandler(composerSvc, s.packages, catalogs, log)

	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		catalogHandler.RegisterRoutes(r)
		optimizerHandler.RegisterRoutes(r)
		impactHandler.RegisterRoutes(r)
		wargameHandler.RegisterRoutes(r)
		horizonsHandler.RegisterRoutes(r)
		composerHandler.RegisterRoutes(r)

		// System
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
		})

		// Live event stream
		r.Get("/events", s.hub.HandleEvents)
	})
}

// Packages exposes the decision package store for background jobs.
func (s *Server) Packages() *composer.Repository {
	return s.packages
}

// wargameProgress forwards simulation progress to event subscribers.
func (s *Server) wargameProgress(completed, total int) {
	s.hub.Broadcast("wargame_progress", map[string]interface{}{
		"completed": completed,
		"total":     total,
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
