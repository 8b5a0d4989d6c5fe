package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lms-console/internal/api/http"
	"github.com/spec-kit/lms-console/internal/api/http/handlers"
	"github.com/spec-kit/lms-console/internal/config"
	"github.com/spec-kit/lms-console/internal/gate"
	"github.com/spec-kit/lms-console/internal/notify"
	"github.com/spec-kit/lms-console/internal/observability"
	"github.com/spec-kit/lms-console/internal/resource"
	"github.com/spec-kit/lms-console/internal/session"
	"github.com/spec-kit/lms-console/internal/shell"
	"github.com/spec-kit/lms-console/internal/upstream"
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

	metrics := observability.NewMetrics()

	var vault session.Vault
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		vault = session.NewRedisVault(cfg.Redis, cfg.Session.RedisKey, logger)
	default:
		vault = session.NewFileVault(cfg.Session.FilePath, cfg.Session.Secret)
	}

	// The gateway consults the store per request; the store logs in through
	// the gateway. Late-bind the token source to break the cycle.
	var sessions *session.Store
	gateway := upstream.NewGateway(cfg.Upstream.Origin, func() string {
		if sessions == nil {
			return ""
		}
		return sessions.Token()
	}, logger, metrics)

	// Hydration happens here, before the listener starts: the first
	// authorization decision never observes an unresolved session.
	sessions = session.NewStore(vault, gateway, logger)

	bus := notify.NewBus(cfg.Notify.DefaultDuration())
	bus.Attach()

	authGate := gate.New(sessions)
	chrome := shell.New(gateway, logger)
	catalog := resource.NewCatalog(gateway, bus, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, gateway, vault),
		Auth:          handlers.NewAuthHandler(sessions, gateway, authGate, bus),
		Shell:         handlers.NewShellHandler(chrome),
		Resources:     handlers.NewResourcesHandler(catalog),
		Settings:      handlers.NewSettingsHandler(gateway, bus),
		Notifications: handlers.NewNotificationsHandler(bus),
		Gate:          authGate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	bus.Detach()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
