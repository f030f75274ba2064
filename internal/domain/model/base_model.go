package model

import "time"

// 所有表共用的時間欄位, gorm 會自動寫入
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"null"`
}
