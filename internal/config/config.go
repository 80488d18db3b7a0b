// Package config loads service configuration from the environment.
//
// A .env file in the working directory is honoured when present so local
// development does not require exporting variables by hand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	// Server
	Port           int
	DevMode        bool
	AllowedOrigins []string
	RequestTimeout time.Duration

	// Storage
	DataDir string

	// Logging
	LogLevel string

	// Engine defaults
	SimulationTrials int           // Monte Carlo trials per randomized attack
	SimulationBudget time.Duration // soft deadline for a full simulation run

	// Retention of stored decision packages
	PackageRetention time.Duration
	PruneSchedule    string // cron expression

	// Optional S3 backup of the store
	BackupEnabled  bool
	BackupSchedule string // cron expression
	BackupBucket   string
	BackupPrefix   string
	AWSRegion      string
	AWSAccessKey   string
	AWSSecretKey   string
}

// Load reads configuration from the environment, applying defaults for
// anything unset. Returns an error only for values that cannot be parsed.
func Load() (*Config, error) {
	// Best effort; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             envInt("PORT", 8090),
		DevMode:          envBool("DEV_MODE", false),
		AllowedOrigins:   envList("ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout:   envDuration("REQUEST_TIMEOUT", 60*time.Second),
		DataDir:          envString("DATA_DIR", "./data"),
		LogLevel:         envString("LOG_LEVEL", "info"),
		SimulationTrials: envInt("SIMULATION_TRIALS", 500),
		SimulationBudget: envDuration("SIMULATION_BUDGET", 20*time.Second),
		PackageRetention: envDuration("PACKAGE_RETENTION", 90*24*time.Hour),
		PruneSchedule:    envString("PRUNE_SCHEDULE", "0 3 * * *"),
		BackupEnabled:    envBool("BACKUP_ENABLED", false),
		BackupSchedule:   envString("BACKUP_SCHEDULE", "30 3 * * *"),
		BackupBucket:     envString("BACKUP_S3_BUCKET", ""),
		BackupPrefix:     envString("BACKUP_S3_PREFIX", "riskadvisor"),
		AWSRegion:        envString("AWS_REGION", "eu-central-1"),
		AWSAccessKey:     envString("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:     envString("AWS_SECRET_ACCESS_KEY", ""),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.SimulationTrials < 100 || cfg.SimulationTrials > 1000 {
		return nil, fmt.Errorf("SIMULATION_TRIALS must be within [100, 1000], got %d", cfg.SimulationTrials)
	}
	if cfg.BackupEnabled && cfg.BackupBucket == "" {
		return nil, fmt.Errorf("BACKUP_ENABLED is set but BACKUP_S3_BUCKET is empty")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
