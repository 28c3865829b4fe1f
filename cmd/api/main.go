package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/booking"
	bookingStore "github.com/MrJamesThe3rd/wandura/internal/booking/store"
	"github.com/MrJamesThe3rd/wandura/internal/config"
	"github.com/MrJamesThe3rd/wandura/internal/database"
	"github.com/MrJamesThe3rd/wandura/internal/events"
	wanduraHttp "github.com/MrJamesThe3rd/wandura/internal/http"
	bookingHandler "github.com/MrJamesThe3rd/wandura/internal/http/booking"
	notificationHandler "github.com/MrJamesThe3rd/wandura/internal/http/notification"
	paymentHandler "github.com/MrJamesThe3rd/wandura/internal/http/payment"
	reviewHandler "github.com/MrJamesThe3rd/wandura/internal/http/review"
	txHandler "github.com/MrJamesThe3rd/wandura/internal/http/transaction"
	workerHandler "github.com/MrJamesThe3rd/wandura/internal/http/worker"
	"github.com/MrJamesThe3rd/wandura/internal/lock"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/wandura/internal/notification/store"
	"github.com/MrJamesThe3rd/wandura/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/wandura/internal/payment/store"
	"github.com/MrJamesThe3rd/wandura/internal/payment/stripe"
	"github.com/MrJamesThe3rd/wandura/internal/pricing"
	"github.com/MrJamesThe3rd/wandura/internal/review"
	reviewStore "github.com/MrJamesThe3rd/wandura/internal/review/store"
	"github.com/MrJamesThe3rd/wandura/internal/transaction"
	txStore "github.com/MrJamesThe3rd/wandura/internal/transaction/store"
	"github.com/MrJamesThe3rd/wandura/internal/worker"
	workerStore "github.com/MrJamesThe3rd/wandura/internal/worker/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	calc, err := pricing.NewCalculator(cfg.Pricing.CommissionRate)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.Nop{}

	if cfg.Rabbit.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			return fmt.Errorf("connecting to rabbitmq: %w", err)
		}
		defer amqpPublisher.Close()

		publisher = amqpPublisher
	} else {
		slog.Warn("RABBIT_URL not set, domain events are discarded")
	}

	var locker lock.Locker = lock.Nop{}

	if cfg.Redis.URL != "" {
		redisLocker, rdb, err := lock.NewRedisFromURL(ctx, cfg.Redis.URL, cfg.Redis.LockTTL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		locker = redisLocker
	}

	if cfg.Stripe.WebhookSecret == "" {
		slog.Warn("STRIPE_WEBHOOK_SECRET not set, every gateway callback will be rejected")
	}

	var (
		workerRepo = workerStore.New(db)

		workerService       = worker.NewService(workerRepo)
		bookingService      = booking.NewService(bookingStore.New(db), workerRepo, calc, publisher)
		transactionService  = transaction.NewService(txStore.New(db))
		notificationService = notification.NewService(notificationStore.New(db))
		reviewService       = review.NewService(reviewStore.New(db))
		paymentService      = payment.NewService(
			paymentStore.New(db),
			stripe.New(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret),
			calc,
			payment.WithLocker(locker),
			payment.WithPublisher(publisher),
			payment.WithCurrency(cfg.Stripe.Currency),
			payment.WithVerifyTimeout(cfg.Stripe.VerifyTimeout),
			payment.WithConfirmation(cfg.Stripe.ConfirmEvents),
		)
	)

	router := wanduraHttp.New(auth.New(cfg.Auth.JWTSecret), cfg.CORS.AllowedOrigins, wanduraHttp.Handlers{
		Bookings:      bookingHandler.NewHandler(bookingService),
		Payments:      paymentHandler.NewHandler(paymentService, cfg.Server.MaxBodyBytes),
		Transactions:  txHandler.NewHandler(transactionService),
		Notifications: notificationHandler.NewHandler(notificationService),
		Reviews:       reviewHandler.NewHandler(reviewService),
		Workers:       workerHandler.NewHandler(workerService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}
