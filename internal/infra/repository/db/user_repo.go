package db

import (
	"context"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
)

type IUserRepository interface {
	// CreateUser 錯誤: ErrDuplicateKey 使用者名稱重複
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

type UserRepo struct {
	db *DbDao
}

func NewUserRepo(db *DbDao) *UserRepo {
	return &UserRepo{db: db}
}

func (u *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return translateErr(u.db.WithContext(ctx).Create(user).Error)
}

func (u *UserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := u.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (u *UserRepo) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := u.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}
