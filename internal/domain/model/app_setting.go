package model

import "time"

type AppSetting struct {
	Key       string    `gorm:"column:setting_key;primaryKey;type:varchar(64)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
