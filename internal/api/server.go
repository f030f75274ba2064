package api

import "github.com/RoyceAzure/lab/restaurant/internal/api/handler"

type Server struct {
	HomeHandler  *handler.HomeHandler
	AuthHandler  *handler.AuthHandler
	AdminHandler *handler.AdminHandler
	OrderHandler *handler.OrderHandler
}

func NewServer(
	homeHandler *handler.HomeHandler,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	orderHandler *handler.OrderHandler,
) *Server {
	return &Server{
		HomeHandler:  homeHandler,
		AuthHandler:  authHandler,
		AdminHandler: adminHandler,
		OrderHandler: orderHandler,
	}
}
