package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/telemetry"
)

// AssignmentRetryJob re-runs partner matching for orders that were confirmed
// while no partner was free.
type AssignmentRetryJob struct {
	*scheduledJob
	handler     commands.AssignmentRetrier
	limit       int
	instruments *telemetry.Instruments
}

func NewAssignmentRetryJob(
	handler commands.AssignmentRetrier,
	schedule string,
	limit int,
	instruments *telemetry.Instruments,
	logger *slog.Logger,
) *AssignmentRetryJob {
	j := &AssignmentRetryJob{handler: handler, limit: limit, instruments: instruments}
	j.scheduledJob = newScheduledJob("assignment_retry", schedule, time.Minute, j.tick, instruments, logger)
	return j
}

func (j *AssignmentRetryJob) tick(ctx context.Context) error {
	cmd, err := commands.NewRetryAssignmentsCommand(j.limit)
	if err != nil {
		return err
	}

	report, err := j.handler.Handle(ctx, cmd)
	j.instruments.RecordAssignments(ctx, "assigned", report.Assigned)
	j.instruments.RecordAssignments(ctx, "pending", report.Pending)
	if report.Attempted > 0 {
		j.logger.InfoContext(ctx, "Assignment retry pass",
			"attempted", report.Attempted, "assigned", report.Assigned, "pending", report.Pending)
	}
	return err
}
