package db

import (
	"github.com/RoyceAzure/lab/restaurant/internal/config"
	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// unique violation 轉成 gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// GetDbConn 依照 DB_DRIVER 建立連線
func GetDbConn(cf *config.Config) (*gorm.DB, error) {
	switch constants.DbDriver(cf.DbDriver) {
	case constants.Postgres:
		return GetPostgresConn(cf.PostgresDSN())
	case constants.Sqlite:
		return GetSqliteConn(cf.SqlitePath)
	default:
		return nil, errors.Errorf("unsupported db driver %q", cf.DbDriver)
	}
}

func GetPostgresConn(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	return db, nil
}

// sqlite 只允許單一連線, 避免 database is locked
func GetSqliteConn(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "sqlite pool")
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, errors.Wrap(err, "enable sqlite foreign keys")
	}
	return db, nil
}
