package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/bootstrap"
	"github.com/Domenick1991/airline-booking/internal/cache"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/metrics"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/Domenick1991/airline-booking/internal/service/loyalty"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
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
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			return err
		}
		log.Info("database schema applied")
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.CacheTTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log.With("component", "kafka"))
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.Warn("kafka unavailable, events will be dropped until it recovers", "error", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("airline_booking", registry)

	repos := booking.Repositories{
		Bookings:   repository.NewBookingRepository(pool),
		Flights:    repository.NewFlightRepository(pool),
		Seats:      repository.NewSeatRepository(pool),
		Passengers: repository.NewPassengerRepository(pool),
		Payments:   repository.NewPaymentRepository(pool),
		Loyalty:    repository.NewLoyaltyRepository(pool),
	}

	bookingService := booking.NewBookingService(
		repos,
		repository.NewTxManager(pool),
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		cfg.Booking.HoldTTL(),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithSeatLockTTL(cfg.Booking.SeatLockTTL()),
		booking.WithLogger(log.With("component", "booking")),
		booking.WithMetrics(m),
	)
	flightService := flights.NewFlightService(repos.Flights, repos.Seats, redisCache, log.With("component", "flights"))
	loyaltyService := loyalty.NewLoyaltyService(repos.Loyalty)

	router := bootstrap.NewRouter(bootstrap.Services{
		Flights:  flightService,
		Bookings: bookingService,
		Loyalty:  loyaltyService,
	}, registry, map[string]bootstrap.HealthCheck{
		"postgres": pool.Ping,
		"redis":    redisCache.Ping,
	}, log.With("component", "http"))

	return bootstrap.Run(ctx, cfg.HTTP, router, log)
}
