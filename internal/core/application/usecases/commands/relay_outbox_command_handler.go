package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
)

// RelayReport summarises one relay pass.
type RelayReport struct {
	Published int
	Backlog   int64
}

// RelayOutboxCommandHandler moves committed events from the outbox to the
// notification channel. A record is marked published only after the
// publisher acknowledged it, so delivery is at least once.
type RelayOutboxCommandHandler struct {
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewRelayOutboxCommandHandler(
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		outbox:    outbox,
		publisher: publisher,
		logger:    logger.With("component", "outbox-relay"),
	}
}

func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (RelayReport, error) {
	if err := cmd.Validate(); err != nil {
		return RelayReport{}, err
	}

	var report RelayReport
	for range cmd.MaxBatches() {
		n, err := h.outbox.ProcessBatch(ctx, cmd.BatchSize(), h.publisher.Publish)
		if err != nil {
			return report, err
		}
		report.Published += n
		if n < cmd.BatchSize() {
			break
		}
	}

	backlog, err := h.outbox.CountUnpublished(ctx)
	if err != nil {
		return report, err
	}
	report.Backlog = backlog

	if report.Published > 0 {
		h.logger.DebugContext(ctx, "relayed lifecycle events", "published", report.Published, "backlog", backlog)
	}
	return report, nil
}
