package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avnish/coldledger/internal/infrastructure/metrics"
	"github.com/avnish/coldledger/internal/usecase"
)

// BillingRunner runs one batch billing pass.
type BillingRunner interface {
	RunBatch(ctx context.Context, period string, asOf time.Time) (*usecase.BatchResult, error)
}

// BillingJob schedules periodic rent billing runs. Each run bills the
// previous calendar month for every open lot; the run itself is idempotent
// per (lot, period), so an overlapping or repeated fire posts nothing twice.
type BillingJob struct {
	runner  BillingRunner
	logger  *slog.Logger
	metrics *metrics.Metrics
	cron    *cron.Cron
	spec    string
	timeout time.Duration
}

// NewBillingJob creates a new BillingJob. spec is a standard cron
// expression; an empty spec disables scheduling.
func NewBillingJob(runner BillingRunner, logger *slog.Logger, m *metrics.Metrics, spec string) *BillingJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &BillingJob{
		runner:  runner,
		logger:  logger,
		metrics: m,
		cron:    cron.New(),
		spec:    spec,
		timeout: 30 * time.Minute,
	}
}

// Start registers the schedule and starts the cron loop.
func (j *BillingJob) Start() error {
	if j.spec == "" {
		j.logger.Info("batch billing schedule disabled")
		return nil
	}

	if _, err := j.cron.AddFunc(j.spec, j.fire); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("batch billing scheduled", slog.String("spec", j.spec))

	return nil
}

// Stop stops the cron loop and returns a context that is done once any
// in-flight run has finished.
func (j *BillingJob) Stop() context.Context {
	return j.cron.Stop()
}

func (j *BillingJob) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.RunOnce(ctx, time.Now()); err != nil {
		j.logger.Error("batch billing run failed", slog.String("error", err.Error()))
	}
}

// RunOnce executes one billing pass as of now, billing the previous
// calendar month.
func (j *BillingJob) RunOnce(ctx context.Context, now time.Time) (*usecase.BatchResult, error) {
	period := previousPeriod(now)
	start := time.Now()

	j.logger.Info("batch billing run starting", slog.String("period", period))

	result, err := j.runner.RunBatch(ctx, period, now)

	if j.metrics != nil {
		j.metrics.BatchRuns.Inc()
		j.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		return nil, err
	}

	if j.metrics != nil {
		j.metrics.BatchLotsBilled.Add(float64(result.Billed))
		j.metrics.BatchLotsSkipped.Add(float64(result.Skipped))
		j.metrics.BatchErrors.Add(float64(len(result.Errors)))
	}

	j.logger.Info("batch billing run finished",
		slog.String("period", result.Period),
		slog.Int("billed", result.Billed),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))

	return result, nil
}

// previousPeriod returns the calendar month before now as "YYYY-MM".
func previousPeriod(now time.Time) string {
	year, month, _ := now.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -1, 0).
		Format(usecase.BillingPeriodLayout)
}
