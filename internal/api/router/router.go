package router

import (
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/api"
	m "github.com/RoyceAzure/lab/restaurant/internal/api/middleware"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const requestTimeout = 30 * time.Second

func SetupRouter(server *api.Server, tokenMaker token.Maker, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.AuthPayloadMiddleware(tokenMaker))
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/", server.HomeHandler.Index)
	r.Get("/healthz", server.HomeHandler.Healthz)

	r.Get("/login", server.AuthHandler.LoginPage)
	r.Post("/login", server.AuthHandler.Login)
	r.Get("/register", server.AuthHandler.RegisterPage)
	r.Post("/register", server.AuthHandler.Register)

	// 需登入
	r.Group(func(r chi.Router) {
		r.Use(m.AuthMiddleware)

		r.Get("/logout", server.AuthHandler.Logout)
		r.Get("/order", server.OrderHandler.OrderPage)
		r.Post("/order", server.OrderHandler.PlaceOrder)
		r.Get("/receipt/{order_id}", server.OrderHandler.Receipt)

		r.Route("/admin", func(r chi.Router) {
			r.Use(m.AdminMiddleware)

			r.Get("/items", server.AdminHandler.ItemsPage)
			r.Post("/items", server.AdminHandler.AddItem)
			r.Get("/orders", server.AdminHandler.OrdersPage)
			r.Get("/customers", server.AdminHandler.CustomersPage)
			r.Get("/update_upi", server.AdminHandler.UpdateUPIPage)
			r.Post("/update_upi", server.AdminHandler.UpdateUPI)
		})
	})

	return r
}
