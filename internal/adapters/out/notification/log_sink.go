// Package notification hands lifecycle events to the customer, vendor and
// partner notification channels.
package notification

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/ports"
)

var _ ports.NotificationSink = (*LogSink)(nil)

// LogSink writes each event as a structured log line. It stands in for a
// push or SMS gateway.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "notification-sink")}
}

func (s *LogSink) Deliver(ctx context.Context, msg events.Message) error {
	s.logger.InfoContext(ctx, "lifecycle notification",
		"kind", msg.Kind,
		"recipient", Recipient(msg.Kind),
		"order_id", msg.OrderID,
		"item_id", msg.ItemID,
		"vendor_id", msg.VendorID,
		"partner_id", msg.PartnerID,
		"actor_role", msg.ActorRole,
		"reason", msg.Reason,
		"occurred_at", msg.OccurredAt)
	return nil
}

// Recipient names who is told about an event of kind.
func Recipient(kind events.Kind) string {
	switch kind {
	case events.OrderPlaced:
		return "vendor"
	case events.DeliveryAssigned, events.DeliveryCancelled:
		return "partner"
	default:
		return "customer"
	}
}
