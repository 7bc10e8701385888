package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/event-service/internal/api/http"
	"github.com/spec-kit/event-service/internal/api/http/handlers"
	"github.com/spec-kit/event-service/internal/auth"
	"github.com/spec-kit/event-service/internal/config"
	"github.com/spec-kit/event-service/internal/events"
	"github.com/spec-kit/event-service/internal/observability"
	"github.com/spec-kit/event-service/internal/persistence"
	"github.com/spec-kit/event-service/internal/repository"
	"github.com/spec-kit/event-service/internal/service"
	"github.com/spec-kit/event-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		return err
	}
	defer st.close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	eventRepo := st.events
	if redis.Enabled() {
		eventRepo = repository.NewCachedEventRepository(eventRepo, redis.Client, cfg.Redis.EventCacheTTL(), logger)
		st.probes["redis"] = redis
	}

	app, err := buildApp(cfg, logger, st, eventRepo)
	if err != nil {
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	if err := waitForShutdown(ctx, logger, listenErr); err != nil {
		logger.Error("fiber listen", zap.Error(err))
		return err
	}
	return app.ShutdownWithTimeout(shutdownTimeout)
}

func buildApp(cfg *config.Config, logger *zap.Logger, st *stores, eventRepo repository.EventRepository) (*fiber.App, error) {
	metrics := observability.NewMetrics()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), logger, auth.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	authService := service.NewAuthService(service.AuthDependencies{
		Users:      st.users,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	eventService := service.NewEventService(eventRepo, st.users, dispatcher, logger)
	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		Events:        eventRepo,
		Registrations: st.registrations,
		Users:         st.users,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, auth.NewIdentityMiddleware(tokens), cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, st.probes),
		Users:         handlers.NewUsersHandler(authService),
		Events:        handlers.NewEventsHandler(eventService),
		Registrations: handlers.NewRegistrationsHandler(registrationService),
		Metrics:       metrics,
		RateLimit:     cfg.RateLimit,
	})
	return app, nil
}

// waitForShutdown blocks until a signal arrives, ctx ends or the listener
// fails. Only a listener failure is returned.
func waitForShutdown(ctx context.Context, logger *zap.Logger, listenErr <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		return nil
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
		return nil
	case err := <-listenErr:
		return err
	}
}
