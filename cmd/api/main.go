package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicab/booking-api/internal/config"
	"github.com/medicab/booking-api/internal/email"
	"github.com/medicab/booking-api/internal/handler"
	appthandler "github.com/medicab/booking-api/internal/handler/appointment"
	authhandler "github.com/medicab/booking-api/internal/handler/auth"
	profilehandler "github.com/medicab/booking-api/internal/handler/profile"
	"github.com/medicab/booking-api/internal/middleware"
	"github.com/medicab/booking-api/internal/repository/postgres"
	"github.com/medicab/booking-api/internal/router"
	apptsvc "github.com/medicab/booking-api/internal/service/appointment"
	authsvc "github.com/medicab/booking-api/internal/service/auth"
	profilesvc "github.com/medicab/booking-api/internal/service/profile"
	"github.com/medicab/booking-api/internal/worker"
	"github.com/medicab/booking-api/pkg/auth"
	"github.com/medicab/booking-api/pkg/messaging/redis"
	"github.com/medicab/booking-api/pkg/metrics"
	"github.com/medicab/booking-api/pkg/security"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "booking-api").Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	apptRepo := postgres.NewAppointmentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	var notifier email.Notifier = email.NoopNotifier{}
	if cfg.SMTP.Host != "" {
		notifier = email.NewSMTPNotifier(cfg.SMTP, &logger)
	}

	authService := authsvc.NewService(userRepo, jwtService, hasher, &logger)
	profileService := profilesvc.NewService(profileRepo, &logger)
	apptService := apptsvc.NewService(apptRepo, profileRepo, userRepo, outboxRepo, notifier, &logger)

	handlers := router.Handlers{
		Health:      handler.NewHealthHandler(db),
		Auth:        authhandler.NewHandler(authService),
		Profile:     profilehandler.NewHandler(profileService),
		Appointment: appthandler.NewHandler(apptService),
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	engine := router.Setup(jwtService, rateLimiter, cfg.Server.WriteTimeout, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(cfg.Redis.URL, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer broker.Close()

		m := metrics.NewMetrics("booking_api")
		processor := worker.NewOutboxProcessor(outboxRepo, broker, cfg.Outbox, m, &logger)
		go processor.Start(ctx)
	} else {
		logger.Warn().Msg("redis not configured, outbox processing disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}
