package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/tour-booking-service/internal/api/http"
	"github.com/spec-kit/tour-booking-service/internal/api/http/handlers"
	"github.com/spec-kit/tour-booking-service/internal/auth"
	"github.com/spec-kit/tour-booking-service/internal/config"
	"github.com/spec-kit/tour-booking-service/internal/events"
	"github.com/spec-kit/tour-booking-service/internal/observability"
	"github.com/spec-kit/tour-booking-service/internal/persistence"
	"github.com/spec-kit/tour-booking-service/internal/repository"
	"github.com/spec-kit/tour-booking-service/internal/service"
	"github.com/spec-kit/tour-booking-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	tourRepo := repository.NewTourRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	revocationStore := auth.NewRedisRevocationStore(redis.Client)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:        userRepo,
		RevocationStore: revocationStore,
	})
	tourService := service.NewTourService(service.TourDependencies{
		TourRepo:   tourRepo,
		Dispatcher: dispatcher,
	})
	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		RegistrationRepo: registrationRepo,
		TourRepo:         tourRepo,
		Dispatcher:       dispatcher,
	})
	reviewService := service.NewReviewService(service.ReviewDependencies{
		ReviewRepo: reviewRepo,
		TourRepo:   tourRepo,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revocationStore, cfg.Auth.CookieName)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics)
	usersHandler := handlers.NewUsersHandler(authService, cfg.Auth)
	toursHandler := handlers.NewToursHandler(tourService)
	registrationsHandler := handlers.NewRegistrationsHandler(registrationService)
	reviewsHandler := handlers.NewReviewsHandler(reviewService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		Tours:          toursHandler,
		Registrations:  registrationsHandler,
		Reviews:        reviewsHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
