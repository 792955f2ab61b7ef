package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/cache"
	"github.com/Domenick1991/airline-booking/internal/email"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.CacheTTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log.With("component", "kafka"))
	defer producer.Close()

	bookingService := booking.NewBookingService(
		booking.Repositories{
			Bookings:   repository.NewBookingRepository(pool),
			Flights:    repository.NewFlightRepository(pool),
			Seats:      repository.NewSeatRepository(pool),
			Passengers: repository.NewPassengerRepository(pool),
			Payments:   repository.NewPaymentRepository(pool),
			Loyalty:    repository.NewLoyaltyRepository(pool),
		},
		repository.NewTxManager(pool),
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		cfg.Booking.HoldTTL(),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(log.With("component", "expiry")),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log.With("component", "consumer"))
	defer consumer.Close()
	sender := email.NewSender(log.With("component", "notifier"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sweep(gctx, bookingService, time.Duration(cfg.Worker.ExpirationSweepMinutes)*time.Minute, log)
	})
	g.Go(func() error {
		if cfg.Kafka.NotificationsTopic == "" {
			log.Info("notifications topic not configured, consumer disabled")
			return nil
		}
		return consumer.Consume(gctx, sender.Send)
	})
	return g.Wait()
}

// sweep expires abandoned pending bookings every interval. A failed round is
// logged and retried on the next tick.
func sweep(ctx context.Context, service booking.BookingUseCase, interval time.Duration, log logger.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			expired, err := service.ExpirePendingBookings(ctx)
			if err != nil {
				log.Error("expire bookings failed", "error", err)
			}
			if len(expired) > 0 {
				log.Info("expired bookings", "count", len(expired))
			}
		}
	}
}
