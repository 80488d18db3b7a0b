package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/composer"
)

// pruneTimeout bounds one prune pass.
const pruneTimeout = time.Minute

// PruneJob deletes stored decision packages older than the retention
// window.
type PruneJob struct {
	packages  *composer.Repository
	retention time.Duration
	log       zerolog.Logger
}

// NewPruneJob creates the retention pruning job.
func NewPruneJob(packages *composer.Repository, retention time.Duration, log zerolog.Logger) *PruneJob {
	return &PruneJob{
		packages:  packages,
		retention: retention,
		log:       log.With().Str("component", "prune_job").Logger(),
	}
}

// Name implements Job.
func (j *PruneJob) Name() string { return "package_prune" }

// Run implements Job.
func (j *PruneJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-j.retention)
	deleted, err := j.packages.Prune(ctx, cutoff)
	if err != nil {
		return err
	}
	j.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Retention prune finished")
	return nil
}
