package jobs

import (
	"time"

	"rentalhub-backend/internal/clock"
	"rentalhub-backend/internal/config"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/metrics"
	"rentalhub-backend/internal/repository"
	"rentalhub-backend/internal/service"
)

// JobRunner coordinates the reconciliation jobs. Every job is idempotent
// (a repeat run within the same period finds zero matching rentals) and
// applies status changes only through the lifecycle service.
type JobRunner struct {
	rentalRepo repository.RentalRepository
	lifecycle  service.RentalLifecycleService
	dispatcher service.NotificationDispatcher
	config     *config.Config
	clock      clock.Clock
	metrics    *metrics.LifecycleMetrics
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	rentalRepo repository.RentalRepository,
	lifecycle service.RentalLifecycleService,
	dispatcher service.NotificationDispatcher,
	cfg *config.Config,
	clk clock.Clock,
	m *metrics.LifecycleMetrics,
) *JobRunner {
	return &JobRunner{
		rentalRepo: rentalRepo,
		lifecycle:  lifecycle,
		dispatcher: dispatcher,
		config:     cfg,
		clock:      clk,
		metrics:    m,
	}
}

// Config exposes the configuration for scheduler registration.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	start := time.Now()
	jr.metrics.RecordJobRun(jobName)
	logger.Info("Starting job", "job", jobName)
	jobFunc()
	jr.metrics.RecordJobDuration(jobName, time.Since(start))
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.AutoCancelStalePending()
	jr.MarkOverdueRentals()
}

// RunAllDailyAlertJobs runs the admin alert jobs (for manual execution)
func (jr *JobRunner) RunAllDailyAlertJobs() {
	jr.SendReturnDeliveryAlerts()
	jr.SendReturnDeliverySummary()
}
