package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/telemetry"
)

// AutoApprover runs one auto-approval tick.
type AutoApprover interface {
	Handle(ctx context.Context, cmd commands.AutoApproveCommand) (commands.AutoApproveReport, error)
}

// AutoApprovalJob confirms pending items whose vendor policy allows it.
// Each tick reads policies fresh, so a policy change applies on the next tick.
type AutoApprovalJob struct {
	*scheduledJob
	handler     AutoApprover
	batchSize   int
	instruments *telemetry.Instruments
}

// NewAutoApprovalJob creates the scheduler. schedule is a six-field cron
// expression with seconds.
func NewAutoApprovalJob(
	handler AutoApprover,
	schedule string,
	batchSize int,
	instruments *telemetry.Instruments,
	logger *slog.Logger,
) *AutoApprovalJob {
	j := &AutoApprovalJob{handler: handler, batchSize: batchSize, instruments: instruments}
	j.scheduledJob = newScheduledJob("auto_approval", schedule, time.Minute, j.tick, instruments, logger)
	return j
}

func (j *AutoApprovalJob) tick(ctx context.Context) error {
	cmd, err := commands.NewAutoApproveCommand(j.batchSize)
	if err != nil {
		return err
	}

	report, err := j.handler.Handle(ctx, cmd)
	j.instruments.RecordAutoApproval(ctx, "confirmed", report.Confirmed)
	j.instruments.RecordAutoApproval(ctx, "raced", report.Raced)
	j.instruments.RecordAutoApproval(ctx, "failed", report.Failed)
	for reason, n := range report.Skipped {
		j.instruments.RecordAutoApproval(ctx, string(reason), n)
	}
	j.instruments.RecordAssignments(ctx, "pending", report.AssignmentPending)
	return err
}
