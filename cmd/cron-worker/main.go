package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/elevate-hq/elevate-backend/internal/cron"
	"github.com/elevate-hq/elevate-backend/internal/notifications"
	"github.com/elevate-hq/elevate-backend/internal/paymentlinks"
	"github.com/elevate-hq/elevate-backend/internal/payments"
	"github.com/elevate-hq/elevate-backend/pkg/config"
	"github.com/elevate-hq/elevate-backend/pkg/db"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
	"github.com/elevate-hq/elevate-backend/pkg/metrics"
	"github.com/elevate-hq/elevate-backend/pkg/migrate"
	"github.com/elevate-hq/elevate-backend/pkg/redis"
	"github.com/elevate-hq/elevate-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	mailer, err := notifications.NewSMTPMailer(cfg.Mail)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}
	reminderService, err := notifications.NewService(mailer, cfg.Mail.MaxAttempts)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	sweepJob, err := cron.NewWeeklyPaymentJob(
		paymentsService,
		linksService,
		reminderService,
		cfg.App.SiteURL+"/apprentice",
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create weekly payment job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("weekly-payments"), cfg.Sweep.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(sweepJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Sweep.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
