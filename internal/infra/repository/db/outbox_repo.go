package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
)

type IOutboxRepository interface {
	Enqueue(ctx context.Context, msg *model.OutboxMessage) error
	// FetchDue 取出 pending 且已到重試時間的訊息, 依 id 排序
	FetchDue(ctx context.Context, now time.Time, limit int) ([]model.OutboxMessage, error)
	MarkSent(ctx context.Context, id uint, sentAt time.Time) error
	MarkRetry(ctx context.Context, id uint, attempts int, nextAttemptAt time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id uint, attempts int, lastErr string) error
	GetByID(ctx context.Context, id uint) (*model.OutboxMessage, error)
}

type OutboxRepo struct {
	db *DbDao
}

func NewOutboxRepo(db *DbDao) *OutboxRepo {
	return &OutboxRepo{db: db}
}

func (o *OutboxRepo) Enqueue(ctx context.Context, msg *model.OutboxMessage) error {
	if msg.Status == "" {
		msg.Status = model.OutboxStatusPending
	}
	if msg.NextAttemptAt.IsZero() {
		msg.NextAttemptAt = time.Now().UTC()
	}
	return translateErr(o.db.WithContext(ctx).Create(msg).Error)
}

func (o *OutboxRepo) FetchDue(ctx context.Context, now time.Time, limit int) ([]model.OutboxMessage, error) {
	var msgs []model.OutboxMessage
	err := o.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", model.OutboxStatusPending, now.UTC()).
		Order("id").
		Limit(limit).
		Find(&msgs).Error
	return msgs, translateErr(err)
}

func (o *OutboxRepo) MarkSent(ctx context.Context, id uint, sentAt time.Time) error {
	sentAt = sentAt.UTC()
	err := o.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     model.OutboxStatusSent,
			"sent_at":    &sentAt,
			"last_error": "",
		}).Error
	return translateErr(err)
}

func (o *OutboxRepo) MarkRetry(ctx context.Context, id uint, attempts int, nextAttemptAt time.Time, lastErr string) error {
	err := o.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":        attempts,
			"next_attempt_at": nextAttemptAt.UTC(),
			"last_error":      lastErr,
		}).Error
	return translateErr(err)
}

func (o *OutboxRepo) MarkFailed(ctx context.Context, id uint, attempts int, lastErr string) error {
	err := o.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     model.OutboxStatusFailed,
			"attempts":   attempts,
			"last_error": lastErr,
		}).Error
	return translateErr(err)
}

func (o *OutboxRepo) GetByID(ctx context.Context, id uint) (*model.OutboxMessage, error) {
	var msg model.OutboxMessage
	err := o.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &msg, nil
}
