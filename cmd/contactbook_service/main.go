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
	"time"

	"golang.org/x/sync/errgroup"

	authapp "github.com/aradsms/contactbook/internal/auth_service/app"
	"github.com/aradsms/contactbook/internal/bootstrap"
	contactapp "github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/platform/config"
	"github.com/aradsms/contactbook/internal/platform/logger"
	httptransport "github.com/aradsms/contactbook/internal/public_api_service/transport/http"
)

const serviceName = "contactbook_service"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat).With("service", serviceName)
	slog.SetDefault(appLogger)
	appLogger.Info("Configuration loaded", "port", cfg.ServerPort, "store", cfg.StoreDriver)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Service shut down gracefully")
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, cancelStartup := context.WithTimeout(ctx, 15*time.Second)
	defer cancelStartup()

	stores, err := bootstrap.OpenStores(startupCtx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer stores.Close()

	events, closeEvents := bootstrap.NewEventPublisher(cfg, serviceName, appLogger)
	defer closeEvents()

	weatherSvc, closeWeather := bootstrap.NewWeatherService(startupCtx, cfg, appLogger)
	defer closeWeather()

	contacts := contactapp.NewApplication(stores.Contacts, events, appLogger)
	auth := authapp.NewAuthService(stores.Users, authapp.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		JWTExpiryHours: cfg.JWTExpiryHours,
	}, appLogger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Contacts:     contacts,
		Auth:         auth,
		Tokens:       auth,
		Weather:      weatherSvc,
		AuthRequired: cfg.AuthRequired,
		Logger:       appLogger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("HTTP server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutdown signal received, shutting down HTTP server...")
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelShutdown()
		if err := httpServer.Shutdown(ctxShutdown); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
