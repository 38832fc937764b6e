// Package outboxrepo stores lifecycle events in the outbox table and lets
// the relay drain them in batches.
package outboxrepo

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxErrorLength = 500

// RecordDTO is the outbox row. Payload holds the JSON wire message.
type RecordDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	NaturalKey  string
	Kind        string
	Payload     []byte `gorm:"type:jsonb"`
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	PublishedAt *time.Time
}

func (RecordDTO) TableName() string {
	return "outbox"
}

// Append writes events through db, which is expected to be the transaction
// that stored the transitions. An event whose natural key is already in the
// outbox is skipped, so a transition replayed after a lost acknowledgement
// does not produce a second record.
func Append(ctx context.Context, db *gorm.DB, evts []events.Event) error {
	if len(evts) == 0 {
		return nil
	}

	dtos := make([]RecordDTO, 0, len(evts))
	for _, e := range evts {
		payload, err := e.Encode()
		if err != nil {
			return fmt.Errorf("encode %s event: %w", e.Kind, err)
		}
		dtos = append(dtos, RecordDTO{
			ID:         e.ID.Bytes(),
			NaturalKey: e.NaturalKey(),
			Kind:       string(e.Kind),
			Payload:    payload,
			CreatedAt:  e.OccurredAt,
		})
	}

	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "natural_key"}}, DoNothing: true}).
		Create(&dtos).Error
}

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormOutboxRepository(db *gorm.DB, now func() time.Time) *GormOutboxRepository {
	return &GormOutboxRepository{db: db, now: now}
}

// ProcessBatch locks a batch with FOR UPDATE SKIP LOCKED so concurrent relays
// never publish the same rows, hands it to publish and records the outcome
// before releasing the locks.
func (r *GormOutboxRepository) ProcessBatch(
	ctx context.Context,
	limit int,
	publish func(context.Context, []ports.OutboxRecord) error,
) (int, error) {
	var (
		published  int
		publishErr error
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dtos []RecordDTO
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("published_at IS NULL").
			Order("created_at, id").
			Limit(limit).
			Find(&dtos).Error
		if err != nil || len(dtos) == 0 {
			return err
		}

		records := make([]ports.OutboxRecord, 0, len(dtos))
		ids := make([]uuid.UUID, 0, len(dtos))
		for _, dto := range dtos {
			record, err := toRecord(dto)
			if err != nil {
				return err
			}
			records = append(records, record)
			ids = append(ids, dto.ID)
		}

		if publishErr = publish(ctx, records); publishErr != nil {
			return tx.Model(&RecordDTO{}).Where("id IN ?", ids).Updates(map[string]any{
				"attempts":   gorm.Expr("attempts + 1"),
				"last_error": truncate(publishErr.Error()),
			}).Error
		}

		published = len(dtos)
		return tx.Model(&RecordDTO{}).Where("id IN ?", ids).Updates(map[string]any{
			"attempts":     gorm.Expr("attempts + 1"),
			"last_error":   "",
			"published_at": r.now().UTC(),
		}).Error
	})
	if err != nil {
		return 0, err
	}
	if publishErr != nil {
		return 0, fmt.Errorf("publish outbox batch: %w", publishErr)
	}
	return published, nil
}

func (r *GormOutboxRepository) CountUnpublished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RecordDTO{}).Where("published_at IS NULL").Count(&count).Error
	return count, err
}

func toRecord(dto RecordDTO) (ports.OutboxRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.OutboxRecord{}, err
	}
	return ports.OutboxRecord{
		ID:        id,
		Key:       dto.NaturalKey,
		Kind:      events.Kind(dto.Kind),
		Payload:   dto.Payload,
		Attempts:  dto.Attempts,
		CreatedAt: dto.CreatedAt,
		LastError: dto.LastError,
	}, nil
}

func truncate(s string) string {
	if len(s) <= maxErrorLength {
		return s
	}
	return s[:maxErrorLength]
}
