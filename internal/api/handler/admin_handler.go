package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/service"
	"github.com/RoyceAzure/lab/restaurant/internal/view"
)

type AdminHandler struct {
	pageRenderer
	menuService     service.IMenuService
	orderService    service.IOrderService
	customerService service.ICustomerService
	paymentService  service.IPaymentService
}

func NewAdminHandler(
	renderer *view.Renderer,
	menuService service.IMenuService,
	orderService service.IOrderService,
	customerService service.ICustomerService,
	paymentService service.IPaymentService,
) *AdminHandler {
	if menuService == nil || orderService == nil || customerService == nil || paymentService == nil {
		panic("admin handler dependency cannot be nil")
	}
	return &AdminHandler{
		pageRenderer:    pageRenderer{renderer: renderer},
		menuService:     menuService,
		orderService:    orderService,
		customerService: customerService,
		paymentService:  paymentService,
	}
}

func (a *AdminHandler) ItemsPage(w http.ResponseWriter, r *http.Request) {
	items, err := a.menuService.ListMenuItems(r.Context())
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, "admin_items.html", "Menu Items", items)
}

func (a *AdminHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		a.handleFormError(w, r, err, "/admin/items")
		return
	}

	item, err := a.menuService.AddMenuItem(r.Context(), r.PostForm.Get("name"), r.PostForm.Get("price"))
	if err != nil {
		a.handleFormError(w, r, err, "/admin/items")
		return
	}
	a.flashRedirect(w, r, constants.FlashSuccess, "Added "+item.Name+".", "/admin/items")
}

type ordersPage struct {
	Search string
	Orders []model.Order
}

func (a *AdminHandler) OrdersPage(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	orders, err := a.orderService.SearchOrders(r.Context(), search)
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, "admin_orders.html", "Orders", ordersPage{
		Search: search,
		Orders: orders,
	})
}

func (a *AdminHandler) CustomersPage(w http.ResponseWriter, r *http.Request) {
	customers, err := a.customerService.ListCustomers(r.Context())
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, "admin_customers.html", "Customers", customers)
}

func (a *AdminHandler) UpdateUPIPage(w http.ResponseWriter, r *http.Request) {
	payeeID, err := a.paymentService.GetPayeeID(r.Context())
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, "update_upi.html", "UPI ID", payeeID)
}

func (a *AdminHandler) UpdateUPI(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		a.handleFormError(w, r, err, "/admin/update_upi")
		return
	}
	if err := a.paymentService.UpdatePayeeID(r.Context(), r.PostForm.Get("upi_id")); err != nil {
		a.handleFormError(w, r, err, "/admin/update_upi")
		return
	}
	a.flashRedirect(w, r, constants.FlashSuccess, "UPI ID updated.", "/admin/update_upi")
}
