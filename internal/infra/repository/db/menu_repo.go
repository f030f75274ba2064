package db

import (
	"context"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
)

type IMenuRepository interface {
	CreateMenuItem(ctx context.Context, item *model.MenuItem) error
	ListMenuItems(ctx context.Context) ([]model.MenuItem, error)
	// GetMenuItemsByIDs 不存在的 id 直接略過, 不回錯誤
	GetMenuItemsByIDs(ctx context.Context, ids []uint) ([]model.MenuItem, error)
	GetMenuItemByName(ctx context.Context, name string) (*model.MenuItem, error)
}

type MenuRepo struct {
	db *DbDao
}

func NewMenuRepo(db *DbDao) *MenuRepo {
	return &MenuRepo{db: db}
}

func (m *MenuRepo) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	return translateErr(m.db.WithContext(ctx).Create(item).Error)
}

func (m *MenuRepo) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := m.db.WithContext(ctx).Order("id").Find(&items).Error
	return items, translateErr(err)
}

func (m *MenuRepo) GetMenuItemsByIDs(ctx context.Context, ids []uint) ([]model.MenuItem, error) {
	items := make([]model.MenuItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	err := m.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&items).Error
	return items, translateErr(err)
}

func (m *MenuRepo) GetMenuItemByName(ctx context.Context, name string) (*model.MenuItem, error) {
	var item model.MenuItem
	err := m.db.WithContext(ctx).Where("name = ?", name).First(&item).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &item, nil
}
