package db

import (
	"context"
	"strings"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
)

type IOrderRepository interface {
	// CreateOrder 連同 Lines 一起寫入
	CreateOrder(ctx context.Context, order *model.Order) error
	// GetOrderByID 錯誤: ErrRecordNotFound
	GetOrderByID(ctx context.Context, id uint) (*model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	// SearchOrders 對 id, table_number, items 做子字串比對
	SearchOrders(ctx context.Context, query string) ([]model.Order, error)
}

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return translateErr(s.db.WithContext(ctx).Create(order).Error)
}

func (s *OrderRepo) GetOrderByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Preload("Customer").
		First(&order, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &order, nil
}

func (s *OrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Order("id").Find(&orders).Error
	return orders, translateErr(err)
}

const searchOrdersCondition = `CAST(id AS TEXT) LIKE ? ESCAPE '\' OR CAST(table_number AS TEXT) LIKE ? ESCAPE '\' OR items LIKE ? ESCAPE '\'`

func (s *OrderRepo) SearchOrders(ctx context.Context, query string) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	pattern := "%" + escapeLike(query) + "%"
	err := s.db.WithContext(ctx).
		Where(searchOrdersCondition, pattern, pattern, pattern).
		Order("id").
		Find(&orders).Error
	return orders, translateErr(err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 讓使用者輸入的萬用字元當成一般字元
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
