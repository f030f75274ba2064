package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
	"github.com/shopspring/decimal"
)

type IMenuService interface {
	// AddMenuItem 不檢查價格正負, 重複送出會建立重複品項
	AddMenuItem(ctx context.Context, name, price string) (*model.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]model.MenuItem, error)
}

type MenuService struct {
	menuRepo db.IMenuRepository
}

func NewMenuService(menuRepo db.IMenuRepository) IMenuService {
	return &MenuService{menuRepo: menuRepo}
}

func (m *MenuService) AddMenuItem(ctx context.Context, name, price string) (*model.MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.ValidationCode, "Item name is required.")
	}
	amount, err := parseAmount(price)
	if err != nil {
		return nil, apperr.Wrap(apperr.ValidationCode, err, "Price must be a number with at most 2 decimal places.")
	}

	item := &model.MenuItem{Name: name, Price: amount}
	if err := m.menuRepo.CreateMenuItem(ctx, item); err != nil {
		return nil, apperr.Wrap(apperr.PersistenceCode, err, "Failed to add menu item.")
	}
	return item, nil
}

func (m *MenuService) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	items, err := m.menuRepo.ListMenuItems(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceCode, err, "Failed to load menu.")
	}
	return items, nil
}

// 對應 decimal(10,2), 不接受科學記號
var amountPattern = regexp.MustCompile(`^-?\d{1,8}(\.\d{1,2})?$`)

var errAmountFormat = errors.New("amount must have at most 8 integer digits and 2 decimal places")

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return decimal.Zero, errAmountFormat
	}
	return decimal.NewFromString(s)
}
