package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PlaceOrderInput 表單原始值, 由 service 負責驗證
type PlaceOrderInput struct {
	TableNumber string
	TotalPrice  string
	ItemIDs     []string
	CustomerID  string
	UserID      uint
}

// OrderConfirmation outbox payload, 下單當下的快照
type OrderConfirmation struct {
	OrderID     uint   `json:"order_id"`
	TableNumber int    `json:"table_number"`
	TotalPrice  string `json:"total_price"`
	Items       string `json:"items"`
}

type IOrderService interface {
	// PlaceOrder 建立訂單並在同一交易寫入通知 outbox
	//
	// 錯誤:
	//   - apperr.UnauthenticatedCode 401: 沒有登入身分
	//   - apperr.ValidationCode 400: table_number / total_price 缺少或格式錯誤
	//   - apperr.PersistenceCode 500: 寫入失敗, 訂單不存在
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*model.Order, error)
	// SearchOrders query 為空時回傳全部訂單, 沒有符合時回傳空 slice
	SearchOrders(ctx context.Context, query string) ([]model.Order, error)
	// GetOrder 錯誤: apperr.NotFoundCode 404
	GetOrder(ctx context.Context, id uint) (*model.Order, error)
}

type OrderService struct {
	store        db.IStore
	menuRepo     db.IMenuRepository
	customerRepo db.ICustomerRepository
	orderRepo    db.IOrderRepository
}

func NewOrderService(store db.IStore, menuRepo db.IMenuRepository, customerRepo db.ICustomerRepository, orderRepo db.IOrderRepository) IOrderService {
	if store == nil || menuRepo == nil || customerRepo == nil || orderRepo == nil {
		panic("order service dependency cannot be nil")
	}
	return &OrderService{
		store:        store,
		menuRepo:     menuRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
	}
}

func (o *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*model.Order, error) {
	if in.UserID == 0 {
		return nil, apperr.New(apperr.UnauthenticatedCode, "Please log in to place an order.")
	}

	tableNumber, err := parseTableNumber(in.TableNumber)
	if err != nil {
		return nil, err
	}
	submittedTotal, err := parseTotalPrice(in.TotalPrice)
	if err != nil {
		return nil, err
	}

	lines, err := o.resolveLines(ctx, in.ItemIDs)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	if !total.Equal(submittedTotal) {
		log.Warn().
			Str("submitted_total", submittedTotal.StringFixed(2)).
			Str("computed_total", total.StringFixed(2)).
			Uint("user_id", in.UserID).
			Msg("submitted total does not match menu prices, using computed total")
	}

	order := &model.Order{
		TableNumber: tableNumber,
		Items:       joinItemNames(lines),
		TotalPrice:  total,
		Status:      model.OrderStatusPlaced,
		CustomerID:  o.resolveCustomerID(ctx, in.CustomerID),
		UserID:      in.UserID,
		Lines:       lines,
	}

	err = o.store.ExecTx(ctx, func(tx *db.DbDao) error {
		if err := db.NewOrderRepo(tx).CreateOrder(ctx, order); err != nil {
			return err
		}
		payload, err := json.Marshal(OrderConfirmation{
			OrderID:     order.ID,
			TableNumber: order.TableNumber,
			TotalPrice:  order.TotalPrice.StringFixed(2),
			Items:       order.Items,
		})
		if err != nil {
			return err
		}
		return db.NewOutboxRepo(tx).Enqueue(ctx, &model.OutboxMessage{
			Kind:    constants.OutboxKindOrderConfirmation,
			Payload: string(payload),
		})
	})
	if err != nil {
		log.Error().Err(err).Uint("user_id", in.UserID).Int("table_number", tableNumber).Msg("failed to place order")
		return nil, apperr.Wrap(apperr.PersistenceCode, err, "Failed to place order, please try again.")
	}

	log.Info().
		Uint("order_id", order.ID).
		Int("table_number", order.TableNumber).
		Str("total_price", order.TotalPrice.StringFixed(2)).
		Uint("user_id", order.UserID).
		Msg("order placed")
	return order, nil
}

// resolveLines 不存在或格式錯誤的 id 直接略過, 重複的 id 累加數量
func (o *OrderService) resolveLines(ctx context.Context, rawIDs []string) ([]model.OrderLine, error) {
	quantities := make(map[uint]int, len(rawIDs))
	ids := make([]uint, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil || id == 0 {
			log.Warn().Str("item_id", raw).Msg("ignored malformed menu item id")
			continue
		}
		if _, ok := quantities[uint(id)]; !ok {
			ids = append(ids, uint(id))
		}
		quantities[uint(id)]++
	}

	items, err := o.menuRepo.GetMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceCode, err, "Failed to load menu items.")
	}
	if len(items) != len(ids) {
		log.Warn().Int("requested", len(ids)).Int("found", len(items)).Msg("ignored unknown menu item ids")
	}

	lines := make([]model.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, model.OrderLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   quantities[item.ID],
		})
	}
	return lines, nil
}

// resolveCustomerID 找不到顧客時存 NULL, 不擋下單
func (o *OrderService) resolveCustomerID(ctx context.Context, raw string) *uint {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		log.Warn().Str("customer_id", raw).Msg("ignored malformed customer id")
		return nil
	}
	customer, err := o.customerRepo.GetCustomerByID(ctx, uint(id))
	if err != nil {
		if !errors.Is(err, db.ErrRecordNotFound) {
			log.Error().Err(err).Uint64("customer_id", id).Msg("failed to load customer")
		} else {
			log.Warn().Uint64("customer_id", id).Msg("unknown customer id, order stored without customer")
		}
		return nil
	}
	return &customer.ID
}

func (o *OrderService) SearchOrders(ctx context.Context, query string) ([]model.Order, error) {
	var (
		orders []model.Order
		err    error
	)
	if query = strings.TrimSpace(query); query == "" {
		orders, err = o.orderRepo.GetAllOrders(ctx)
	} else {
		orders, err = o.orderRepo.SearchOrders(ctx, query)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceCode, err, "Failed to load orders.")
	}
	return orders, nil
}

func (o *OrderService) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	order, err := o.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.NotFoundCode, "Order %d not found.", id)
		}
		return nil, apperr.Wrap(apperr.PersistenceCode, err, "Failed to load order.")
	}
	return order, nil
}

func parseTableNumber(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.New(apperr.ValidationCode, "Table number is required.")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperr.New(apperr.ValidationCode, "Table number must be a positive whole number.")
	}
	return n, nil
}

func parseTotalPrice(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, apperr.New(apperr.ValidationCode, "Total price is required.")
	}
	total, err := parseAmount(raw)
	if err != nil {
		return decimal.Zero, apperr.Wrap(apperr.ValidationCode, err, "Total price must be a number with at most 2 decimal places.")
	}
	return total, nil
}

func joinItemNames(lines []model.OrderLine) string {
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Quantity > 1 {
			names = append(names, fmt.Sprintf("%s x%d", line.Name, line.Quantity))
			continue
		}
		names = append(names, line.Name)
	}
	return strings.Join(names, ", ")
}
