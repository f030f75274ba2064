package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
	"github.com/RoyceAzure/lab/restaurant/internal/service"
	"github.com/RoyceAzure/lab/restaurant/internal/util"
	"github.com/RoyceAzure/lab/restaurant/internal/view"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	pageRenderer
	orderService    service.IOrderService
	menuService     service.IMenuService
	customerService service.ICustomerService
	receiptService  service.IReceiptService
}

func NewOrderHandler(
	renderer *view.Renderer,
	orderService service.IOrderService,
	menuService service.IMenuService,
	customerService service.ICustomerService,
	receiptService service.IReceiptService,
) *OrderHandler {
	if orderService == nil || menuService == nil || customerService == nil || receiptService == nil {
		panic("order handler dependency cannot be nil")
	}
	return &OrderHandler{
		pageRenderer:    pageRenderer{renderer: renderer},
		orderService:    orderService,
		menuService:     menuService,
		customerService: customerService,
		receiptService:  receiptService,
	}
}

type orderForm struct {
	Items     []model.MenuItem
	Customers []model.Customer
}

func (o *OrderHandler) OrderPage(w http.ResponseWriter, r *http.Request) {
	items, err := o.menuService.ListMenuItems(r.Context())
	if err != nil {
		o.renderError(w, r, err)
		return
	}
	customers, err := o.customerService.ListCustomers(r.Context())
	if err != nil {
		o.renderError(w, r, err)
		return
	}
	o.render(w, r, http.StatusOK, "order.html", "New Order", orderForm{
		Items:     items,
		Customers: customers,
	})
}

func (o *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		o.handleFormError(w, r, err, "/order")
		return
	}

	var userID uint
	if payload := util.GetTokenPayloadFromContext(r.Context()); payload != nil {
		userID = payload.UserID
	}

	order, err := o.orderService.PlaceOrder(r.Context(), service.PlaceOrderInput{
		TableNumber: r.PostForm.Get("table_number"),
		TotalPrice:  r.PostForm.Get("total_price"),
		ItemIDs:     r.PostForm["item_ids"],
		CustomerID:  r.PostForm.Get("customer_id"),
		UserID:      userID,
	})
	if err != nil {
		if apperr.CodeOf(err) == apperr.UnauthenticatedCode {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		o.handleFormError(w, r, err, "/order")
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/receipt/%d", order.ID), http.StatusSeeOther)
}

func (o *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || id == 0 {
		o.renderError(w, r, apperr.New(apperr.NotFoundCode, "Order not found."))
		return
	}

	receipt, err := o.receiptService.GetReceipt(r.Context(), uint(id))
	if err != nil {
		o.renderError(w, r, err)
		return
	}
	o.render(w, r, http.StatusOK, "receipt.html", fmt.Sprintf("Receipt #%d", receipt.Order.ID), receipt)
}
