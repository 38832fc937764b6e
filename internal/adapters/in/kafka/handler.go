package kafka

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/ports"
)

// NotificationHandler turns at-least-once lifecycle messages into
// exactly-once hand-offs to the notification sink.
type NotificationHandler struct {
	dedup  ports.DeduplicationStore
	sink   ports.NotificationSink
	logger *slog.Logger
}

func NewNotificationHandler(dedup ports.DeduplicationStore, sink ports.NotificationSink, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		dedup:  dedup,
		sink:   sink,
		logger: logger.With("component", "notifier"),
	}
}

// Handle returns an error only when the message should be redelivered.
// Malformed payloads are logged and dropped.
func (h *NotificationHandler) Handle(ctx context.Context, payload []byte) error {
	msg, err := events.DecodeMessage(payload)
	if err != nil {
		h.logger.WarnContext(ctx, "dropping malformed lifecycle event", "error", err)
		return nil
	}

	fresh, err := h.dedup.MarkIfNew(ctx, msg.NaturalKey)
	if err != nil {
		return err
	}
	if !fresh {
		h.logger.DebugContext(ctx, "duplicate lifecycle event", "natural_key", msg.NaturalKey)
		return nil
	}

	if err := h.sink.Deliver(ctx, msg); err != nil {
		if forgetErr := h.dedup.Forget(ctx, msg.NaturalKey); forgetErr != nil {
			h.logger.ErrorContext(ctx, "failed to release natural key", "natural_key", msg.NaturalKey, "error", forgetErr)
		}
		return err
	}
	return nil
}
