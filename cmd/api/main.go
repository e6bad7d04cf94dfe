package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sevaqueue/seva-api/internal/config"
	"github.com/sevaqueue/seva-api/internal/handler"
	"github.com/sevaqueue/seva-api/internal/handler/authhttp"
	"github.com/sevaqueue/seva-api/internal/handler/bookinghttp"
	"github.com/sevaqueue/seva-api/internal/handler/chatbothttp"
	"github.com/sevaqueue/seva-api/internal/handler/slots"
	"github.com/sevaqueue/seva-api/internal/middleware"
	"github.com/sevaqueue/seva-api/internal/repository/postgres"
	"github.com/sevaqueue/seva-api/internal/router"
	authService "github.com/sevaqueue/seva-api/internal/service/auth"
	bookingService "github.com/sevaqueue/seva-api/internal/service/booking"
	chatbotService "github.com/sevaqueue/seva-api/internal/service/chatbot"
	otpService "github.com/sevaqueue/seva-api/internal/service/otp"
	"github.com/sevaqueue/seva-api/internal/slot"
	"github.com/sevaqueue/seva-api/internal/worker"
	pkgauth "github.com/sevaqueue/seva-api/pkg/auth"
	"github.com/sevaqueue/seva-api/pkg/logger"
	"github.com/sevaqueue/seva-api/pkg/metrics"
	"github.com/sevaqueue/seva-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Booking.Timezone).Msg("invalid timezone")
	}

	// The department table is immutable for the life of the process.
	slotManager, err := slot.NewManager(cfg.Departments, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid department configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.NewMetrics("seva", "api")

	bookingRepo := postgres.NewBookingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	clerkRepo := postgres.NewClerkRepository(db)

	otpSvc := otpService.NewService(time.Duration(cfg.Booking.OTPTTLMinutes)*time.Minute, appLogger)
	bookingSvc := bookingService.NewService(bookingRepo, outboxRepo, slotManager, otpSvc, appLogger, appMetrics)
	chatbotSvc := chatbotService.NewService(nil)

	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	authSvc := authService.NewService(clerkRepo, jwtSvc, hasher)

	mailSender := worker.NewGomailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	h := handler.NewHandler(db)
	slotsHandler := slots.NewHandler(bookingSvc, slotManager)
	bookingHandler := bookinghttp.NewHandler(bookingSvc, otpSvc, mailSender)
	chatbotHandler := chatbothttp.NewHandler(chatbotSvc)
	authHandler := authhttp.NewHandler(authSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		slotsHandler,
		bookingHandler,
		chatbotHandler,
		authHandler,
		h,
		router.Config{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORS:           middleware.DefaultCORSConfig(),
			MetricsPrefix:  "seva_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
