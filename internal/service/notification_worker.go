package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/rs/zerolog/log"
)

const maxRetryBackoff = time.Hour

type NotificationWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BaseBackoff  time.Duration
}

// NotificationWorker outbox relay, 寄信失敗只記錄並排程重試
type NotificationWorker struct {
	outboxRepo  db.IOutboxRepository
	mailService IMailService
	cf          NotificationWorkerConfig
	now         func() time.Time
	isRunning   atomic.Bool
}

func NewNotificationWorker(outboxRepo db.IOutboxRepository, mailService IMailService, cf NotificationWorkerConfig) *NotificationWorker {
	if outboxRepo == nil {
		panic("notification worker dependency outboxRepo is nil")
	}
	if mailService == nil {
		panic("notification worker dependency mailService is nil")
	}
	if cf.PollInterval <= 0 {
		cf.PollInterval = 5 * time.Second
	}
	if cf.BatchSize <= 0 {
		cf.BatchSize = 20
	}
	if cf.MaxAttempts <= 0 {
		cf.MaxAttempts = 5
	}
	if cf.BaseBackoff <= 0 {
		cf.BaseBackoff = 30 * time.Second
	}
	return &NotificationWorker{
		outboxRepo:  outboxRepo,
		mailService: mailService,
		cf:          cf,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run 阻塞直到 ctx 結束
func (w *NotificationWorker) Run(ctx context.Context) error {
	if !w.isRunning.CompareAndSwap(false, true) {
		return fmt.Errorf("notification worker is already running")
	}
	defer w.isRunning.Store(false)

	log.Info().Dur("poll_interval", w.cf.PollInterval).Msg("notification worker started")
	ticker := time.NewTicker(w.cf.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("notification worker poll failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("notification worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// ProcessOnce 處理一批到期訊息, 回傳成功寄出的數量
func (w *NotificationWorker) ProcessOnce(ctx context.Context) (int, error) {
	msgs, err := w.outboxRepo.FetchDue(ctx, w.now(), w.cf.BatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, msg := range msgs {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if w.deliver(ctx, msg) {
			sent++
		}
	}
	return sent, nil
}

func (w *NotificationWorker) deliver(ctx context.Context, msg model.OutboxMessage) bool {
	logger := log.With().Uint("outbox_id", msg.ID).Str("kind", msg.Kind).Logger()

	var sendErr error
	switch msg.Kind {
	case constants.OutboxKindOrderConfirmation:
		var data OrderConfirmation
		if err := json.Unmarshal([]byte(msg.Payload), &data); err != nil {
			w.markFailed(ctx, msg, msg.Attempts, fmt.Sprintf("invalid payload: %v", err))
			return false
		}
		sendErr = w.mailService.SendOrderConfirmation(ctx, data)
	default:
		w.markFailed(ctx, msg, msg.Attempts, "unknown outbox kind")
		return false
	}

	if sendErr == nil {
		if err := w.outboxRepo.MarkSent(ctx, msg.ID, w.now()); err != nil {
			logger.Error().Err(err).Msg("email sent but failed to mark outbox message")
		}
		logger.Info().Msg("order confirmation sent")
		return true
	}

	attempts := msg.Attempts + 1
	if attempts >= w.cf.MaxAttempts {
		w.markFailed(ctx, msg, attempts, sendErr.Error())
		return false
	}

	next := w.now().Add(w.backoff(attempts))
	if err := w.outboxRepo.MarkRetry(ctx, msg.ID, attempts, next, sendErr.Error()); err != nil {
		logger.Error().Err(err).Msg("failed to schedule outbox retry")
	}
	logger.Warn().Err(sendErr).Int("attempts", attempts).Time("next_attempt_at", next).Msg("email delivery failed, will retry")
	return false
}

func (w *NotificationWorker) markFailed(ctx context.Context, msg model.OutboxMessage, attempts int, reason string) {
	if err := w.outboxRepo.MarkFailed(ctx, msg.ID, attempts, reason); err != nil {
		log.Error().Err(err).Uint("outbox_id", msg.ID).Msg("failed to mark outbox message failed")
	}
	log.Error().Uint("outbox_id", msg.ID).Int("attempts", attempts).Str("reason", reason).Msg("outbox message gave up")
}

// backoff 指數退避, 上限一小時
func (w *NotificationWorker) backoff(attempts int) time.Duration {
	d := w.cf.BaseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxRetryBackoff {
			return maxRetryBackoff
		}
	}
	return d
}
