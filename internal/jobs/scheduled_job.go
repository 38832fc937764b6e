package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/telemetry"

	"github.com/robfig/cron/v3"
)

// scheduledJob runs one tick function on a cron schedule. A tick that is
// still running when the next one is due is skipped, so ticks never overlap.
type scheduledJob struct {
	name        string
	schedule    string
	timeout     time.Duration
	tick        func(ctx context.Context) error
	cron        *cron.Cron
	logger      *slog.Logger
	instruments *telemetry.Instruments
}

func newScheduledJob(
	name, schedule string,
	timeout time.Duration,
	tick func(ctx context.Context) error,
	instruments *telemetry.Instruments,
	logger *slog.Logger,
) *scheduledJob {
	return &scheduledJob{
		name:        name,
		schedule:    schedule,
		timeout:     timeout,
		tick:        tick,
		cron:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:      logger.With("component", name+"_job"),
		instruments: instruments,
	}
}

// Run executes one tick. Errors are logged and counted, never returned to
// the scheduler.
func (j *scheduledJob) Run(ctx context.Context) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	err := j.tick(ctx)
	j.instruments.RecordJobRun(ctx, j.name, err)
	if err != nil {
		j.logger.ErrorContext(ctx, "Job tick failed", "job", j.name, "error", err)
	}
}

func (j *scheduledJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running tick to finish.
func (j *scheduledJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Job stopped")
}
