package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/kernel"
)

// OutboxRecord is a lifecycle event stored in the same transaction as the
// transition that raised it.
type OutboxRecord struct {
	ID        kernel.UUID
	Key       string
	Kind      events.Kind
	Payload   []byte
	Attempts  int
	CreatedAt time.Time
	LastError string
}

// OutboxRepository is read by the relay. Writes happen inside the unit of work.
type OutboxRepository interface {
	// ProcessBatch locks up to limit unpublished records, oldest first, and
	// passes them to publish. Records are marked published when publish
	// succeeds; otherwise their attempt count and last error are updated.
	// Records locked by a concurrent relay are skipped.
	ProcessBatch(ctx context.Context, limit int, publish func(context.Context, []OutboxRecord) error) (int, error)

	// CountUnpublished reports the relay backlog.
	CountUnpublished(ctx context.Context) (int64, error)
}

// EventPublisher delivers outbox records to the notification channel.
// Delivery is at least once; consumers de-duplicate on the record key.
type EventPublisher interface {
	Publish(ctx context.Context, records []OutboxRecord) error
}

// DeduplicationStore remembers which natural keys a consumer has handled.
type DeduplicationStore interface {
	// MarkIfNew records key and reports whether it was seen for the first time.
	MarkIfNew(ctx context.Context, key string) (bool, error)

	// Forget removes key so a failed hand-off can be retried.
	Forget(ctx context.Context, key string) error
}

// NotificationSink hands a de-duplicated event to the notification system.
type NotificationSink interface {
	Deliver(ctx context.Context, msg events.Message) error
}
