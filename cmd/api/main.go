package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/api/routes"
	authsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/auth"
	cartsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/cart"
	checkoutsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/checkout"
	inventorysvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/inventory"
	mediasvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/media"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/notifications"
	ordersvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/orders"
	productsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/products"
	reviewsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/reviews"
	userpkg "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/users"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/mailer"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/metrics"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/migrate"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/paystack"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	paystackClient, err := paystack.NewClient(cfg.Paystack.SecretKey,
		paystack.WithBaseURL(cfg.Paystack.BaseURL),
		paystack.WithTimeout(cfg.Paystack.Timeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap paystack client", err)
		os.Exit(1)
	}

	sender, err := mailer.NewSMTPSender(cfg.SMTP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap smtp sender", err)
		os.Exit(1)
	}
	notifier, err := notifications.NewEmailNotifier(sender, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create email notifier", err)
		os.Exit(1)
	}

	usersRepo := userpkg.NewRepository(dbClient.DB())
	productsRepo := productsvc.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	ordersRepo := ordersvc.NewRepository(dbClient.DB())
	reviewsRepo := reviewsvc.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       usersRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	exitOnError(logg, "failed to create auth service", err)

	productService, err := productsvc.NewService(productsRepo)
	exitOnError(logg, "failed to create product service", err)

	cartService, err := cartsvc.NewService(cartRepo)
	exitOnError(logg, "failed to create cart service", err)

	orderService, err := ordersvc.NewService(ordersRepo, notifier, logg)
	exitOnError(logg, "failed to create orders service", err)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:           dbClient,
		OrdersRepo:   ordersRepo,
		ProductsRepo: productsRepo,
		CartRepo:     cartRepo,
		Gateway:      paystackClient,
		Notifier:     notifier,
		Paystack:     cfg.Paystack,
		Logger:       logg,
	})
	exitOnError(logg, "failed to create checkout service", err)

	inventoryService, err := inventorysvc.NewService(productsRepo)
	exitOnError(logg, "failed to create inventory service", err)

	reviewService, err := reviewsvc.NewService(reviewsRepo, productsRepo)
	exitOnError(logg, "failed to create reviews service", err)

	mediaService, err := mediasvc.NewService(cfg.Media)
	exitOnError(logg, "failed to create media service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, metricsHandler, routes.Services{
			Auth:      authService,
			Users:     usersRepo,
			Products:  productService,
			Cart:      cartService,
			Checkout:  checkoutService,
			Orders:    orderService,
			Inventory: inventoryService,
			Reviews:   reviewService,
			Media:     mediaService,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdown
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnError(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
