package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/elevate-hq/elevate-backend/api/routes"
	"github.com/elevate-hq/elevate-backend/internal/access"
	"github.com/elevate-hq/elevate-backend/internal/paymentlinks"
	"github.com/elevate-hq/elevate-backend/internal/payments"
	"github.com/elevate-hq/elevate-backend/internal/quota"
	"github.com/elevate-hq/elevate-backend/internal/timeclock"
	"github.com/elevate-hq/elevate-backend/pkg/config"
	"github.com/elevate-hq/elevate-backend/pkg/db"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
	"github.com/elevate-hq/elevate-backend/pkg/metrics"
	"github.com/elevate-hq/elevate-backend/pkg/migrate"
	"github.com/elevate-hq/elevate-backend/pkg/redis"
	"github.com/elevate-hq/elevate-backend/pkg/stripe"
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

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	accessMetrics := metrics.NewAccessMetrics(prometheus.DefaultRegisterer)
	resolver := access.NewResolver(time.Duration(cfg.Billing.GraceDays) * 24 * time.Hour)
	accessService, err := access.NewService(access.NewRepository(dbClient.DB()), resolver, nil, logg, accessMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create access service", err)
		os.Exit(1)
	}

	quotaService, err := quota.NewService(quota.NewRepository(dbClient.DB()), accessService)
	if err != nil {
		logg.Error(context.Background(), "failed to create quota service", err)
		os.Exit(1)
	}

	calculator := payments.NewCalculator(
		time.Duration(cfg.Billing.OverdueAfterDays)*24*time.Hour,
		time.Weekday(cfg.Billing.PaymentWeekday),
	)
	paymentsService, err := payments.NewService(payments.NewRepository(dbClient.DB()), calculator, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	linksService, err := paymentlinks.NewService(
		paymentlinks.NewStripeClient(stripeClient),
		paymentlinks.NewRepository(dbClient.DB()),
		dbClient,
		cfg.Billing.PaymentLinkTTL,
		cfg.Billing.SuccessRedirectURL,
		nil,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment link service", err)
		os.Exit(1)
	}

	timeclockService, err := timeclock.NewService(
		paymentsService,
		linksService,
		timeclock.NewRepository(dbClient.DB()),
		nil,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create timeclock service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			accessService,
			quotaService,
			paymentsService,
			linksService,
			timeclockService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
