package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/telemetry"
)

// OutboxRelayer runs one relay pass.
type OutboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayReport, error)
}

// maxRelayBatches bounds one pass so a large backlog cannot hold a tick for long.
const maxRelayBatches = 10

// OutboxRelayJob publishes committed lifecycle events.
type OutboxRelayJob struct {
	*scheduledJob
	handler     OutboxRelayer
	batchSize   int
	instruments *telemetry.Instruments
}

func NewOutboxRelayJob(
	handler OutboxRelayer,
	schedule string,
	batchSize int,
	instruments *telemetry.Instruments,
	logger *slog.Logger,
) *OutboxRelayJob {
	j := &OutboxRelayJob{handler: handler, batchSize: batchSize, instruments: instruments}
	j.scheduledJob = newScheduledJob("outbox_relay", schedule, 30*time.Second, j.tick, instruments, logger)
	return j
}

func (j *OutboxRelayJob) tick(ctx context.Context) error {
	cmd, err := commands.NewRelayOutboxCommand(j.batchSize, maxRelayBatches)
	if err != nil {
		return err
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	j.instruments.RecordBacklog(ctx, report.Backlog)
	return nil
}
