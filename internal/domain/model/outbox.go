package model

import "time"

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// OutboxMessage 與訂單同一交易寫入, 由 NotificationWorker 非同步投遞
type OutboxMessage struct {
	ID            uint         `gorm:"primaryKey"`
	Kind          string       `gorm:"type:varchar(50);not null"`
	Payload       string       `gorm:"type:text;not null"`
	Status        OutboxStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_outbox_status_next"`
	Attempts      int          `gorm:"not null;default:0"`
	LastError     string       `gorm:"type:text"`
	NextAttemptAt time.Time    `gorm:"not null;index:idx_outbox_status_next"`
	SentAt        *time.Time
	BaseModel
}
