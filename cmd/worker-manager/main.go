// cmd/worker-manager/main.go
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

	"go.uber.org/zap"

	"consultancy-workers/internal/common/camunda"
	"consultancy-workers/internal/common/config"
	"consultancy-workers/internal/common/database"
	apperrors "consultancy-workers/internal/common/errors"
	"consultancy-workers/internal/common/logger"
	"consultancy-workers/internal/common/observability"
	"consultancy-workers/internal/profiles"
	"consultancy-workers/pkg/calculator"
	"consultancy-workers/pkg/registry"

	cs "consultancy-workers/internal/workers/consultancy/compute-savings"
	sh "consultancy-workers/internal/workers/consultancy/select-highlight"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
// A non-retryable StandardError ends the loop at once.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && !stdErr.Retryable {
			return fmt.Errorf("%s failed: %w", operationName, err)
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).
		With(zap.String("app", cfg.App.Name), zap.String("version", cfg.App.Version))
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Profile table ---
	backends, closeBackends := connectBackends(ctx, cfg, zapLog)
	defer closeBackends()

	src, err := profiles.NewSource(cfg.Calculator, backends)
	if err != nil {
		zapLog.Fatal("profile source", zap.Error(err))
	}

	var table *calculator.Table
	err = retryWithBackoff(func() error {
		var err error
		table, err = profiles.LoadTable(ctx, src, log)
		return err
	}, 5, 2*time.Second, zapLog, "Profile table load")
	if err != nil {
		zapLog.Fatal("profile table unavailable", zap.Error(err))
	}

	card, err := sh.CardFromConfig(cfg.Highlight)
	if err != nil {
		zapLog.Fatal("invalid highlight variants", zap.Error(err))
	}

	// --- Activity registry ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(camunda.ConfigFromApp(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Workers ---
	var workers []*camunda.CamundaWorker

	if taskType := cs.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		handler, err := cs.NewHandler(cs.HandlerOptions{
			AppConfig:     cfg,
			Table:         table,
			Registry:      reg,
			Observability: obs,
			Logger:        log,
		})
		if err != nil {
			zapLog.Fatal("failed to create compute-savings handler", zap.Error(err))
		}
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), cfg.App.Name, taskType,
			config.GetWorkerConfig(cfg, taskType), handler, log))
	}

	if taskType := sh.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		handler, err := sh.NewHandler(sh.HandlerOptions{
			AppConfig:     cfg,
			Card:          card,
			Registry:      reg,
			Observability: obs,
			Logger:        log,
		})
		if err != nil {
			zapLog.Fatal("failed to create select-highlight handler", zap.Error(err))
		}
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), cfg.App.Name, taskType,
			config.GetWorkerConfig(cfg, taskType), handler, log))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	srv := newServer(cfg.Server.Address, zeebe.HealthCheck)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("Health/Metrics server shutdown", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped")
}

// connectBackends dials only the store the profile source needs.
func connectBackends(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (profiles.Backends, func()) {
	var b profiles.Backends
	closers := []func() error{}

	switch cfg.Calculator.ProfileSource {
	case config.ProfileSourceRedis:
		var rc *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		b.Redis = rc.GetClient()
		closers = append(closers, rc.Close)
		zapLog.Info("Redis connected successfully")

	case config.ProfileSourcePostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		b.Postgres = pg.GetDB()
		closers = append(closers, pg.Close)
		zapLog.Info("PostgreSQL connected successfully")
	}

	return b, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				zapLog.Warn("close backend", zap.Error(err))
			}
		}
	}
}
