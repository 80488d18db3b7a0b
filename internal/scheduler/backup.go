package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/backup"
)

// BackupJob uploads a store snapshot to object storage.
type BackupJob struct {
	service *backup.Service
	log     zerolog.Logger
}

// NewBackupJob creates the store backup job.
func NewBackupJob(service *backup.Service, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		service: service,
		log:     log.With().Str("component", "backup_job").Logger(),
	}
}

// Name implements Job.
func (j *BackupJob) Name() string { return "store_backup" }

// Run implements Job.
func (j *BackupJob) Run() error {
	return j.service.Run(context.Background())
}
