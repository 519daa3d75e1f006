package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"charity-donation-backend/internal/model"
)

//go:generate mockgen -source=webhook_event.go -destination=webhook_event_mock.go -package=repository
type WebhookEventRepository interface {
	// MarkProcessed inserts the dedup key. It returns false when the key was
	// already present, i.e. the event is a redelivery.
	MarkProcessed(ctx context.Context, eventID, provider, eventType string) (bool, error)

	// Release drops a claimed dedup key so the provider's redelivery can be
	// processed after a transient failure.
	Release(ctx context.Context, eventID string) error

	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type webhookEventRepoImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepoImpl{db: db}
}

func (r *webhookEventRepoImpl) MarkProcessed(ctx context.Context, eventID, provider, eventType string) (bool, error) {
	// insert-or-ignore doubles as the atomic seen-check, so two concurrent
	// deliveries of the same event cannot both claim first processing
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.WebhookEvent{
			EventID:     eventID,
			Provider:    provider,
			EventType:   eventType,
			ProcessedAt: time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *webhookEventRepoImpl) Release(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.WebhookEvent{}).Error
}

func (r *webhookEventRepoImpl) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.WebhookEvent{})

	return result.RowsAffected, result.Error
}
