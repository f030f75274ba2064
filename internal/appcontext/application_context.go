package appcontext

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/config"
	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/mail"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/redisx"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/token"
	"github.com/RoyceAzure/lab/restaurant/internal/service"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type ApplicationContext struct {
	Cf                 *config.Config
	DbDao              *db.DbDao
	RedisClient        *redis.Client
	TokenMaker         token.Maker
	UserRepo           db.IUserRepository
	MenuRepo           db.IMenuRepository
	CustomerRepo       db.ICustomerRepository
	OrderRepo          db.IOrderRepository
	SettingRepo        db.ISettingRepository
	OutboxRepo         db.IOutboxRepository
	AuthService        service.IAuthService
	MenuService        service.IMenuService
	CustomerService    service.ICustomerService
	OrderService       service.IOrderService
	PaymentService     service.IPaymentService
	ReceiptService     service.IReceiptService
	MailService        service.IMailService
	NotificationWorker *service.NotificationWorker
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}
	log.Info().
		Str("env", cf.Env).
		Str("db_driver", cf.DbDriver).
		Str("server_port", cf.ServerPort).
		Bool("redis", cf.RedisAddr != "").
		Msg("loading application context")

	if err := app.Init(); err != nil {
		if app.DbDao != nil {
			_ = app.DbDao.Close()
		}
		return nil, err
	}

	return &app, nil
}

func (app *ApplicationContext) Init() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"database connection", app.setUpDbConn},
		{"database schema", app.setUpSchema},
		{"repositories", app.setUpRepositories},
		{"menu cache", app.setUpMenuCache},
		{"token maker", app.setUpTokenMaker},
		{"services", app.setUpServices},
		{"notification worker", app.setUpNotificationWorker},
		{"seed data", app.setUpSeed},
	}

	for _, step := range steps {
		log.Info().Msgf("Start setup %s", step.name)
		if err := step.fn(); err != nil {
			return fmt.Errorf("setup %s: %w", step.name, err)
		}
		log.Info().Msgf("Finish setup %s", step.name)
	}
	return nil
}

func (app *ApplicationContext) setUpDbConn() error {
	conn, err := db.GetDbConn(app.Cf)
	if err != nil {
		return err
	}
	app.DbDao = db.NewDbDao(conn)
	return nil
}

// postgres 且設定 MIGRATION_URL 時使用 migrate 檔案, 其餘情況用 AutoMigrate
func (app *ApplicationContext) setUpSchema() error {
	if constants.DbDriver(app.Cf.DbDriver) == constants.Postgres && app.Cf.MigrationURL != "" {
		return runDBMigration(app.Cf.MigrationURL, app.Cf.PostgresURL())
	}
	return app.DbDao.InitMigrate()
}

func (app *ApplicationContext) setUpRepositories() error {
	app.UserRepo = db.NewUserRepo(app.DbDao)
	app.MenuRepo = db.NewMenuRepo(app.DbDao)
	app.CustomerRepo = db.NewCustomerRepo(app.DbDao)
	app.OrderRepo = db.NewOrderRepo(app.DbDao)
	app.SettingRepo = db.NewSettingRepo(app.DbDao)
	app.OutboxRepo = db.NewOutboxRepo(app.DbDao)
	return nil
}

// 沒有 REDIS_ADDR 時直接讀 db
func (app *ApplicationContext) setUpMenuCache() error {
	if app.Cf.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, menu cache disabled")
		return nil
	}

	app.RedisClient = redisx.GetRedisClient(app.Cf.RedisAddr,
		redisx.WithPassword(app.Cf.RedisPassword),
		redisx.WithDB(app.Cf.RedisDB),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := app.RedisClient.Ping(ctx).Err(); err != nil {
		// redis 不可用時 decorator 仍會退回 db
		log.Warn().Err(err).Str("addr", app.Cf.RedisAddr).Msg("redis ping failed, cache will fall back to database")
	}

	app.MenuRepo = redis_decorator.NewCacheAsideMenuRepo(app.MenuRepo, app.RedisClient, app.Cf.MenuCacheTTL)
	return nil
}

func (app *ApplicationContext) setUpTokenMaker() error {
	tokenMaker, err := token.NewPasetoMaker(app.Cf.SecretKey)
	if err != nil {
		return err
	}
	app.TokenMaker = tokenMaker
	return nil
}

func (app *ApplicationContext) setUpServices() error {
	app.AuthService = service.NewAuthService(app.UserRepo, app.TokenMaker)
	app.MenuService = service.NewMenuService(app.MenuRepo)
	app.CustomerService = service.NewCustomerService(app.CustomerRepo)
	app.OrderService = service.NewOrderService(app.DbDao, app.MenuRepo, app.CustomerRepo, app.OrderRepo)
	app.PaymentService = service.NewPaymentService(app.SettingRepo, app.Cf.UpiID)
	app.ReceiptService = service.NewReceiptService(app.OrderService, app.PaymentService)

	sender := mail.NewSmtpSender(mail.SmtpConfig{
		Host:     app.Cf.SmtpHost,
		Port:     app.Cf.SmtpPort,
		Username: app.Cf.SmtpUsername,
		Password: app.Cf.SmtpPassword,
		From:     app.Cf.MailSender,
		UseTLS:   app.Cf.SmtpUseTLS,
		UseSSL:   app.Cf.SmtpUseSSL,
	})
	recipients := app.Cf.Recipients()
	if len(recipients) == 0 && app.Cf.MailSender != "" {
		recipients = []string{app.Cf.MailSender}
	}
	app.MailService = service.NewMailService(sender, recipients, app.Cf.MailTimeout)
	return nil
}

func (app *ApplicationContext) setUpNotificationWorker() error {
	app.NotificationWorker = service.NewNotificationWorker(app.OutboxRepo, app.MailService, service.NotificationWorkerConfig{
		PollInterval: app.Cf.OutboxPollInterval,
		BatchSize:    app.Cf.OutboxBatchSize,
		MaxAttempts:  app.Cf.OutboxMaxAttempts,
	})
	return nil
}

func (app *ApplicationContext) setUpSeed() error {
	if app.Cf.SeedFile == "" {
		return nil
	}
	seedCf, err := config.LoadSeedConfig(app.Cf.SeedFile)
	if err != nil {
		return err
	}
	return service.NewSeedService(app.MenuRepo, app.CustomerRepo).Seed(context.Background(), seedCf)
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Info().Msg("Start application shutdown")

	done := make(chan error, 1)
	go func() {
		var errs []error
		if app.RedisClient != nil {
			log.Info().Msg("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if app.DbDao != nil {
			log.Info().Msg("Closing database connection...")
			if err := app.DbDao.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		log.Info().Msg("Application shutdown complete")
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

func runDBMigration(migrationURL string, dbSource string) error {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		return err
	}
	defer migration.Close()

	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
