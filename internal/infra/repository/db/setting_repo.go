package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"gorm.io/gorm/clause"
)

type ISettingRepository interface {
	// GetSetting 錯誤: ErrRecordNotFound
	GetSetting(ctx context.Context, key string) (*model.AppSetting, error)
	UpsertSetting(ctx context.Context, key, value string) error
}

type SettingRepo struct {
	db *DbDao
}

func NewSettingRepo(db *DbDao) *SettingRepo {
	return &SettingRepo{db: db}
}

func (s *SettingRepo) GetSetting(ctx context.Context, key string) (*model.AppSetting, error) {
	var setting model.AppSetting
	err := s.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &setting, nil
}

func (s *SettingRepo) UpsertSetting(ctx context.Context, key, value string) error {
	setting := model.AppSetting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	return translateErr(err)
}
