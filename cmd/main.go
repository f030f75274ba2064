package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/api"
	"github.com/RoyceAzure/lab/restaurant/internal/api/handler"
	"github.com/RoyceAzure/lab/restaurant/internal/api/router"
	"github.com/RoyceAzure/lab/restaurant/internal/appcontext"
	"github.com/RoyceAzure/lab/restaurant/internal/config"
	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/logger"
	"github.com/RoyceAzure/lab/restaurant/internal/view"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cf := config.GetConfig()
	zlogger, logCloser := logger.Setup(cf)
	defer logCloser.Close()
	config.OnReload(func(cf *config.Config) {
		logger.SetLevel(cf.LogLevel)
	})

	app, err := appcontext.NewApplicationContext(cf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init application")
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	// 初始化 handler
	server := api.NewServer(
		handler.NewHomeHandler(renderer, app.DbDao),
		handler.NewAuthHandler(renderer, app.AuthService, constants.ENV(cf.Env) == constants.Prod),
		handler.NewAdminHandler(renderer, app.MenuService, app.OrderService, app.CustomerService, app.PaymentService),
		handler.NewOrderHandler(renderer, app.OrderService, app.MenuService, app.CustomerService, app.ReceiptService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cf.ServerPort),
		Handler:           router.SetupRouter(server, app.TokenMaker, zlogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 設置訊號監聽
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return app.NotificationWorker.Run(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("application shutdown error")
	}
	log.Info().Msg("closed completed")
}
