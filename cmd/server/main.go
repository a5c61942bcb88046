package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/api"
	"github.com/francisco-dev-ao/angohost-api/internal/api/handlers"
	"github.com/francisco-dev-ao/angohost-api/internal/cart"
	"github.com/francisco-dev-ao/angohost-api/internal/checkout"
	"github.com/francisco-dev-ao/angohost-api/internal/config"
	"github.com/francisco-dev-ao/angohost-api/internal/device"
	"github.com/francisco-dev-ao/angohost-api/internal/gateway"
	"github.com/francisco-dev-ao/angohost-api/internal/mailer"
	"github.com/francisco-dev-ao/angohost-api/internal/pricing"
	"github.com/francisco-dev-ao/angohost-api/internal/profile"
	"github.com/francisco-dev-ao/angohost-api/internal/realtime"
	"github.com/francisco-dev-ao/angohost-api/internal/repository/postgres"
	"github.com/francisco-dev-ao/angohost-api/internal/service"
	"github.com/francisco-dev-ao/angohost-api/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger := newLogger(cfg)
	defer logger.Sync()

	logger.Info("starting angohost api",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port))

	// Connect to database and run migrations
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, cfg.Database); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// Redis: sessions and the realtime change feed
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	// Device store: local-first profiles and cart snapshots
	deviceStore, err := device.Open(cfg.Device.Path)
	if err != nil {
		logger.Fatal("device store open failed", zap.Error(err))
	}
	defer deviceStore.Close()

	repos := postgres.NewRepositories(db, logger)
	feed := realtime.NewFeed(redisClient, logger)
	sessions := session.NewStore(redisClient, cfg.SessionTTL)
	pricingCfg := pricing.DefaultConfig()

	carts := cart.NewManager(cart.Reducer{Pricing: pricingCfg}, deviceStore, logger)
	flows := checkout.NewManager()
	profiles := profile.NewService(deviceStore, repos.Profile, logger)
	mail := mailer.New(cfg.SMTP, repos.EmailTemplate, logger)
	pay := gateway.NewClient(cfg.Gateway, logger)

	deps := &handlers.Deps{
		Cfg:      cfg,
		Repos:    repos,
		Carts:    carts,
		Flows:    flows,
		Pricing:  pricingCfg,
		Profiles: profiles,
		Auth:     service.NewAuthService(repos.User, sessions, logger),
		Checkout: service.NewCheckoutService(repos.Order, repos.Invoice, repos.PaymentMethod, repos.Domain, pricingCfg, feed, logger),
		Orders:   service.NewOrderService(repos.Order, repos.Domain, feed, logger),
		Invoices: service.NewInvoiceService(repos.Invoice, repos.Wallet, feed, logger),
		Tickets:  service.NewTicketService(repos.Ticket, feed, logger),
		Wallets:  service.NewWalletService(repos.Wallet, feed, logger),
		Domains:  service.NewDomainService(repos.Domain, feed, logger),
		Stats:    service.NewStatsService(repos.Order, repos.Invoice, repos.Ticket, repos.Domain, logger),
		Feed:     feed,
		Mailer:   mail,
		Gateway:  pay,
		Logger:   logger,
	}

	router := api.NewRouter(deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}
	logger, err := zapCfg.Build()
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	return logger
}
