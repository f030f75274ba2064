package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db/dbtest"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/token"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSymmetricKey = "0123456789abcdef0123456789abcdef"

type ServiceTestSuite struct {
	suite.Suite
	ctx            context.Context
	dao            *db.DbDao
	menuRepo       db.IMenuRepository
	customerRepo   db.ICustomerRepository
	orderRepo      db.IOrderRepository
	outboxRepo     db.IOutboxRepository
	authService    IAuthService
	menuService    IMenuService
	orderService   IOrderService
	paymentService IPaymentService
	receiptService IReceiptService
	user           *model.User
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.dao = dbtest.NewDao(suite.T())
	suite.menuRepo = db.NewMenuRepo(suite.dao)
	suite.customerRepo = db.NewCustomerRepo(suite.dao)
	suite.orderRepo = db.NewOrderRepo(suite.dao)
	suite.outboxRepo = db.NewOutboxRepo(suite.dao)

	maker, err := token.NewPasetoMaker(testSymmetricKey)
	suite.Require().NoError(err)

	suite.authService = NewAuthService(db.NewUserRepo(suite.dao), maker)
	suite.menuService = NewMenuService(suite.menuRepo)
	suite.orderService = NewOrderService(suite.dao, suite.menuRepo, suite.customerRepo, suite.orderRepo)
	suite.paymentService = NewPaymentService(db.NewSettingRepo(suite.dao), "default@upi")
	suite.receiptService = NewReceiptService(suite.orderService, suite.paymentService)

	suite.user, err = suite.authService.Register(suite.ctx, RegisterInput{
		Username: "waiter",
		Email:    "waiter@example.com",
		Password: "secret",
	})
	suite.Require().NoError(err)
}

func (suite *ServiceTestSuite) addItem(name, price string) *model.MenuItem {
	item, err := suite.menuService.AddMenuItem(suite.ctx, name, price)
	suite.Require().NoError(err)
	return item
}

func (suite *ServiceTestSuite) TestRegisterDuplicateUsername() {
	_, err := suite.authService.Register(suite.ctx, RegisterInput{
		Username: "waiter",
		Email:    "other@example.com",
		Password: "secret2",
	})
	suite.Require().Error(err)
	suite.Equal(apperr.ConflictCode, apperr.CodeOf(err))
	suite.Equal("Username already exists.", apperr.MessageOf(err))
}

func (suite *ServiceTestSuite) TestRegisterMissingFields() {
	_, err := suite.authService.Register(suite.ctx, RegisterInput{Username: "x"})
	suite.Equal(apperr.ValidationCode, apperr.CodeOf(err))
}

func (suite *ServiceTestSuite) TestLogin() {
	tk, payload, err := suite.authService.Login(suite.ctx, "waiter", "secret")
	suite.Require().NoError(err)
	suite.NotEmpty(tk)
	suite.Equal(suite.user.ID, payload.UserID)
	suite.False(payload.IsAdmin)

	_, _, err = suite.authService.Login(suite.ctx, "waiter", "wrong")
	suite.Equal(apperr.UnauthenticatedCode, apperr.CodeOf(err))
	suite.Equal(invalidCredentialsMsg, apperr.MessageOf(err))

	_, _, err = suite.authService.Login(suite.ctx, "nobody", "secret")
	suite.Equal(invalidCredentialsMsg, apperr.MessageOf(err))
}

func (suite *ServiceTestSuite) TestAddMenuItemInvalidPrice() {
	for _, price := range []string{"abc", "1e400000000", "2E3", "20.001", "123456789", ".5", "NaN"} {
		_, err := suite.menuService.AddMenuItem(suite.ctx, "Tea", price)
		suite.Equal(apperr.ValidationCode, apperr.CodeOf(err), price)
	}

	items, err := suite.menuService.ListMenuItems(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(items)
}

func (suite *ServiceTestSuite) TestPlaceOrder() {
	tea := suite.addItem("Tea", "20.0")
	cake := suite.addItem("Cake", "35.50")
	customer := &model.Customer{Name: "Alice", ContactInfo: "alice@example.com"}
	suite.Require().NoError(suite.customerRepo.CreateCustomer(suite.ctx, customer))

	order, err := suite.orderService.PlaceOrder(suite.ctx, PlaceOrderInput{
		TableNumber: "5",
		TotalPrice:  "55.50",
		ItemIDs:     []string{itoa(cake.ID), itoa(tea.ID)},
		CustomerID:  itoa(customer.ID),
		UserID:      suite.user.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(5, order.TableNumber)
	suite.Equal("Tea, Cake", order.Items)
	suite.True(decimal.RequireFromString("55.50").Equal(order.TotalPrice))
	suite.Require().NotNil(order.CustomerID)
	suite.Equal(customer.ID, *order.CustomerID)

	stored, err := suite.orderService.GetOrder(suite.ctx, order.ID)
	suite.Require().NoError(err)
	suite.Len(stored.Lines, 2)
	suite.Equal(suite.user.ID, stored.UserID)

	msgs, err := suite.outboxRepo.FetchDue(suite.ctx, time.Now().Add(time.Second), 10)
	suite.Require().NoError(err)
	suite.Require().Len(msgs, 1)
	suite.Contains(msgs[0].Payload, `"items":"Tea, Cake"`)
	suite.Contains(msgs[0].Payload, `"total_price":"55.50"`)
}

func (suite *ServiceTestSuite) TestPlaceOrderComputedTotalWins() {
	tea := suite.addItem("Tea", "20")

	order, err := suite.orderService.PlaceOrder(suite.ctx, PlaceOrderInput{
		TableNumber: "2",
		TotalPrice:  "1",
		ItemIDs:     []string{itoa(tea.ID), itoa(tea.ID), "abc", "9999"},
		UserID:      suite.user.ID,
	})
	suite.Require().NoError(err)
	suite.Equal("Tea x2", order.Items)
	suite.True(decimal.NewFromInt(40).Equal(order.TotalPrice))
	suite.Nil(order.CustomerID)
}

func (suite *ServiceTestSuite) TestPlaceOrderUnknownCustomer() {
	tea := suite.addItem("Tea", "20")

	order, err := suite.orderService.PlaceOrder(suite.ctx, PlaceOrderInput{
		TableNumber: "3",
		TotalPrice:  "20",
		ItemIDs:     []string{itoa(tea.ID)},
		CustomerID:  "4242",
		UserID:      suite.user.ID,
	})
	suite.Require().NoError(err)
	suite.Nil(order.CustomerID)
}

func (suite *ServiceTestSuite) TestPlaceOrderValidation() {
	cases := []struct {
		name string
		in   PlaceOrderInput
		code apperr.Code
	}{
		{"no user", PlaceOrderInput{TableNumber: "1", TotalPrice: "1"}, apperr.UnauthenticatedCode},
		{"missing table", PlaceOrderInput{TotalPrice: "1", UserID: suite.user.ID}, apperr.ValidationCode},
		{"bad table", PlaceOrderInput{TableNumber: "x", TotalPrice: "1", UserID: suite.user.ID}, apperr.ValidationCode},
		{"zero table", PlaceOrderInput{TableNumber: "0", TotalPrice: "1", UserID: suite.user.ID}, apperr.ValidationCode},
		{"missing total", PlaceOrderInput{TableNumber: "1", UserID: suite.user.ID}, apperr.ValidationCode},
		{"bad total", PlaceOrderInput{TableNumber: "1", TotalPrice: "ten", UserID: suite.user.ID}, apperr.ValidationCode},
		{"exponent total", PlaceOrderInput{TableNumber: "1", TotalPrice: "1e400000000", UserID: suite.user.ID}, apperr.ValidationCode},
		{"too many decimals", PlaceOrderInput{TableNumber: "1", TotalPrice: "1.005", UserID: suite.user.ID}, apperr.ValidationCode},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			_, err := suite.orderService.PlaceOrder(suite.ctx, tc.in)
			suite.Equal(tc.code, apperr.CodeOf(err))
		})
	}

	orders, err := suite.orderService.SearchOrders(suite.ctx, "")
	suite.Require().NoError(err)
	suite.Empty(orders)
}

func (suite *ServiceTestSuite) TestSearchOrders() {
	tea := suite.addItem("Tea", "20")
	for _, table := range []string{"5", "15", "7"} {
		_, err := suite.orderService.PlaceOrder(suite.ctx, PlaceOrderInput{
			TableNumber: table,
			TotalPrice:  "20",
			ItemIDs:     []string{itoa(tea.ID)},
			UserID:      suite.user.ID,
		})
		suite.Require().NoError(err)
	}

	all, err := suite.orderService.SearchOrders(suite.ctx, "  ")
	suite.Require().NoError(err)
	suite.Len(all, 3)

	matched, err := suite.orderService.SearchOrders(suite.ctx, "5")
	suite.Require().NoError(err)
	suite.Len(matched, 2)

	none, err := suite.orderService.SearchOrders(suite.ctx, "zzz")
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *ServiceTestSuite) TestGetOrderNotFound() {
	_, err := suite.orderService.GetOrder(suite.ctx, 99)
	suite.Equal(apperr.NotFoundCode, apperr.CodeOf(err))
	suite.Equal("Order 99 not found.", apperr.MessageOf(err))
}

func (suite *ServiceTestSuite) TestPayeeID() {
	payee, err := suite.paymentService.GetPayeeID(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal("default@upi", payee)

	suite.Equal(apperr.ValidationCode, apperr.CodeOf(suite.paymentService.UpdatePayeeID(suite.ctx, " ")))

	suite.Require().NoError(suite.paymentService.UpdatePayeeID(suite.ctx, "shop@upi"))
	payee, err = suite.paymentService.GetPayeeID(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal("shop@upi", payee)
}

func (suite *ServiceTestSuite) TestGetReceipt() {
	tea := suite.addItem("Tea", "20.0")
	suite.Require().NoError(suite.paymentService.UpdatePayeeID(suite.ctx, "shop@upi"))

	order, err := suite.orderService.PlaceOrder(suite.ctx, PlaceOrderInput{
		TableNumber: "5",
		TotalPrice:  "20.0",
		ItemIDs:     []string{itoa(tea.ID)},
		UserID:      suite.user.ID,
	})
	suite.Require().NoError(err)

	receipt, err := suite.receiptService.GetReceipt(suite.ctx, order.ID)
	suite.Require().NoError(err)
	suite.Equal("shop@upi", receipt.PayeeID)
	suite.Contains(receipt.PaymentURI, "pa=shop@upi")
	suite.Contains(receipt.PaymentURI, "am=20.00")
	suite.NotEmpty(receipt.QRCodeBase64)

	again, err := suite.receiptService.GetReceipt(suite.ctx, order.ID)
	suite.Require().NoError(err)
	suite.Equal(receipt.QRCodeBase64, again.QRCodeBase64)

	_, err = suite.receiptService.GetReceipt(suite.ctx, order.ID+100)
	suite.Equal(apperr.NotFoundCode, apperr.CodeOf(err))
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestParseAmount(t *testing.T) {
	for _, raw := range []string{"0", "20", "20.5", " 35.50 ", "-3.25", "99999999.99"} {
		_, err := parseAmount(raw)
		require.NoError(t, err, raw)
	}
	for _, raw := range []string{"", "1e400000000", "1E2", "0x10", "20.123", "100000000", "1,000", "+5"} {
		_, err := parseAmount(raw)
		require.Error(t, err, raw)
	}
}

func TestJoinItemNames(t *testing.T) {
	lines := []model.OrderLine{
		{Name: "Tea", Quantity: 1},
		{Name: "Cake", Quantity: 3},
	}
	require.Equal(t, "Tea, Cake x3", joinItemNames(lines))
	require.Equal(t, "", joinItemNames(nil))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
