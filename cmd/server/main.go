package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/backup"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/config"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/database"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/scheduler"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/server"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting RiskAdvisor")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("Failed to create data directory")
	}

	// Initialize database
	db, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "riskadvisor.db"),
		Profile: database.ProfileStandard,
		Name:    "riskadvisor",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DB:      db,
		Config:  cfg,
		DevMode: cfg.DevMode,
	})

	// Initialize scheduler
	sched := scheduler.New(log)
	if err := registerJobs(sched, srv, db, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(sched *scheduler.Scheduler, srv *server.Server, db *database.DB, cfg *config.Config, log zerolog.Logger) error {
	if err := sched.AddJob(cfg.PruneSchedule, scheduler.NewPruneJob(srv.Packages(), cfg.PackageRetention, log)); err != nil {
		return err
	}

	if cfg.BackupEnabled {
		svc, err := backup.New(context.Background(), db, backup.Config{
			Bucket:    cfg.BackupBucket,
			Prefix:    cfg.BackupPrefix,
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		}, log)
		if err != nil {
			return err
		}
		if err := sched.AddJob(cfg.BackupSchedule, scheduler.NewBackupJob(svc, log)); err != nil {
			return err
		}
	}

	return nil
}
