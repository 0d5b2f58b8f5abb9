package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mobilvask/internal/api"
	"mobilvask/internal/booking"
	"mobilvask/internal/config"
	"mobilvask/internal/domain"
	"mobilvask/internal/events"
	"mobilvask/internal/logging"
	"mobilvask/internal/metrics"
	"mobilvask/internal/notify"
	"mobilvask/internal/repository"
	"mobilvask/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	backupLog, srcPath, err := initStore(cfg, &logger)
	if err != nil {
		return err
	}
	if c, ok := backupLog.(io.Closer); ok {
		defer c.Close()
	}

	notifier := notify.NewEmailJSClient(cfg.Email, &logger)
	secondary := initTelegram(cfg, &logger)
	limiter := initRateLimiter(cfg, &logger)
	eventBus := initEventBus(&logger)

	svc := booking.NewService(backupLog, notifier, secondary, eventBus, cfg.Booking.Services, &logger)
	httpServer := api.NewHTTPServer(cfg.API, svc, limiter, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go store.NewBackupService(srcPath, cfg.Storage.Backend, cfg.Backup, &logger).Start(ctx)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initStore(cfg *config.Config, logger *zerolog.Logger) (domain.BackupLog, string, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Storage.Path, logger)
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.Storage.Path).Msg("init sqlite store")
			return nil, "", err
		}
		return s, s.Path(), nil
	default:
		s, err := store.NewFileStore(cfg.Storage.Path, cfg.Storage.Key, logger)
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.Storage.Path).Msg("init file store")
			return nil, "", err
		}
		return s, s.Path(), nil
	}
}

func initTelegram(cfg *config.Config, logger *zerolog.Logger) domain.SecondaryNotifier {
	if !cfg.Telegram.Enabled {
		return nil
	}

	tg, err := notify.NewTelegramNotifier(cfg.Telegram, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without secondary channel")
		return nil
	}

	logger.Info().Int64("chat_id", cfg.Telegram.ChatID).Msg("telegram channel connected")
	return tg
}

func initRateLimiter(cfg *config.Config, logger *zerolog.Logger) domain.RateLimiter {
	fallback := repository.NewMemoryRateLimiter()
	if cfg.Redis.Address == "" {
		return fallback
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory rate limiter")
		return fallback
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return repository.NewFailoverRateLimiter(repository.NewRedisRateLimiter(redisClient), fallback, logger)
}

func initEventBus(logger *zerolog.Logger) *events.EventBus {
	bus := events.NewEventBus()

	// Audit trail of outcomes in the service log.
	bus.Subscribe(events.EventBookingSubmitted, func(e *events.Event) error {
		logger.Info().RawJSON("payload", e.Payload).Msg("event: booking submitted")
		return nil
	})
	bus.Subscribe(events.EventBookingFailed, func(e *events.Event) error {
		logger.Warn().RawJSON("payload", e.Payload).Msg("event: booking failed")
		return nil
	})

	return bus
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
