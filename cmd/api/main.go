package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/jordankom/sofhair/internal/config"
	"github.com/jordankom/sofhair/internal/handler"
	appointmentHandler "github.com/jordankom/sofhair/internal/handler/appointment"
	catalogHandler "github.com/jordankom/sofhair/internal/handler/catalog"
	staffHandler "github.com/jordankom/sofhair/internal/handler/staff"
	"github.com/jordankom/sofhair/internal/middleware"
	"github.com/jordankom/sofhair/internal/repository/cache"
	"github.com/jordankom/sofhair/internal/repository/postgres"
	"github.com/jordankom/sofhair/internal/router"
	"github.com/jordankom/sofhair/internal/service/booking"
	"github.com/jordankom/sofhair/pkg/clock"
	"github.com/jordankom/sofhair/pkg/logger"
	redisbroker "github.com/jordankom/sofhair/pkg/messaging/redis"
	"github.com/jordankom/sofhair/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Booking.Timezone).Msg("invalid booking timezone")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.New("sofhair")

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db, appMetrics)
	serviceRepo := cache.NewServiceRepository(postgres.NewServiceRepository(db, appMetrics), cfg.Booking.CatalogCacheTTL)
	staffRepo := postgres.NewStaffRepository(db, appMetrics)
	promotionRepo := postgres.NewPromotionRepository(db, appMetrics)
	userRepo := postgres.NewUserRepository(db, appMetrics)

	bookingOpts := []booking.Option{booking.WithMetrics(appMetrics)}
	if cfg.Redis.Enabled {
		broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		}, &log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
		bookingOpts = append(bookingOpts, booking.WithBroker(broker))
	}

	bookingSvc := booking.NewService(
		appointmentRepo,
		serviceRepo,
		staffRepo,
		promotionRepo,
		userRepo,
		clock.New(),
		loc,
		log,
		bookingOpts...,
	)

	// Handlers and router
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	h := handler.NewHandler(db)

	routerCfg := router.Config{
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "sofhair_http",
		Timeout:       cfg.Server.RequestTimeout,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerCfg.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(
		authMiddleware,
		appointmentHandler.NewHandler(bookingSvc),
		catalogHandler.NewHandler(serviceRepo),
		staffHandler.NewHandler(staffRepo),
		h,
		routerCfg,
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
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
