package db

import (
	"context"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"gorm.io/gorm"
)

type DbDao struct {
	*gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	return &DbDao{
		DB: conn,
	}
}

// 初始化db schema
// 冪等性
func (d *DbDao) InitMigrate() error {
	return d.AutoMigrate(
		&model.User{},
		&model.MenuItem{},
		&model.Customer{},
		&model.Order{},
		&model.OrderLine{},
		&model.AppSetting{},
		&model.OutboxMessage{},
	)
}

// ExecTx 執行一個交易, fn 回傳錯誤即 rollback
// fn 內只能使用傳入的 tx dao
func (d *DbDao) ExecTx(ctx context.Context, fn func(tx *DbDao) error) error {
	return d.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewDbDao(tx))
	})
}

func (d *DbDao) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DbDao) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type IStore interface {
	ExecTx(ctx context.Context, fn func(tx *DbDao) error) error
}
