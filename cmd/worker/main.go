package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/sevaqueue/seva-api/internal/config"
	"github.com/sevaqueue/seva-api/internal/repository/postgres"
	internalworker "github.com/sevaqueue/seva-api/internal/worker"
	"github.com/sevaqueue/seva-api/pkg/logger"
	"github.com/sevaqueue/seva-api/pkg/messaging/redis"
	"github.com/sevaqueue/seva-api/pkg/metrics"
	"github.com/sevaqueue/seva-api/pkg/worker"
)

// WorkerEnv holds environment overrides for the worker binary.
type WorkerEnv struct {
	MetricsPort         int `envconfig:"METRICS_PORT" default:"9091"`
	OutboxBatchSize     int `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	OutboxPollSeconds   int `envconfig:"OUTBOX_POLL_SECONDS" default:"5"`
	OutboxRetryAttempts int `envconfig:"OUTBOX_RETRY_ATTEMPTS" default:"3"`
	ReminderPollSeconds int `envconfig:"REMINDER_POLL_SECONDS" default:"60"`
}

func main() {
	var env WorkerEnv
	if err := envconfig.Process("seva", &env); err != nil {
		log.Fatal().Err(err).Msg("failed to process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	zl := log.Logger
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	appMetrics := metrics.NewMetrics("seva", "worker")

	outboxRepo := postgres.NewOutboxRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     env.OutboxBatchSize,
		PollInterval:  time.Duration(env.OutboxPollSeconds) * time.Second,
		RetryAttempts: env.OutboxRetryAttempts,
		RetryDelay:    time.Second,
	}, appLogger, appMetrics)

	mailSender := internalworker.NewGomailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	reminder := internalworker.NewReminder(bookingRepo, mailSender, cfg.Departments, internalworker.ReminderConfig{
		PollInterval: time.Duration(env.ReminderPollSeconds) * time.Second,
		Window:       time.Duration(cfg.Booking.ReminderWindowMinutes) * time.Minute,
	}, appLogger, appMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		outboxProcessor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		reminder.Start(ctx)
	}()

	// Metrics endpoint for the worker process.
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", env.MetricsPort),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down workers...")

	cancel()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("metrics server forced to shutdown")
	}

	log.Info().Msg("workers exited properly")
}
