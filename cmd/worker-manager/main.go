package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	kisanaws "kisan-scheme-workers/internal/common/aws"
	"kisan-scheme-workers/internal/common/camunda"
	"kisan-scheme-workers/internal/common/config"
	"kisan-scheme-workers/internal/common/database"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	var zeebeClient zbc.Client
	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, "Zeebe client initialization", log, func() error {
		var err error
		zeebeClient, err = camunda.NewClient(ctx, cfg.Camunda)
		return err
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = camunda.Retry(ctx, retryFor(15), "PostgreSQL connection", log, func() error {
		var err error
		if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return err
		}
		return nil
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = camunda.Retry(ctx, retryFor(15), "Elasticsearch connection", log, func() error {
		var err error
		if esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
			return err
		}
		return esClient.Ping(ctx)
	})
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected")

	// --- Redis ---
	var redisClient *database.RedisClient
	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, "Redis connection", log, func() error {
		var err error
		if redisClient, err = database.NewRedis(cfg.Database.Redis); err != nil {
			return err
		}
		if err := redisClient.Ping(ctx); err != nil {
			redisClient.Close()
			return err
		}
		return nil
	})
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected")

	// --- AWS notification channels ---
	senders := newSenders(ctx, cfg.Notifications, zapLog)

	deps := workerDeps{
		cfg:     cfg,
		pg:      pg,
		redis:   redisClient,
		es:      esClient,
		senders: senders,
		log:     log,
	}
	workers, err := registerWorkers(zeebeClient, deps, obs, zapLog)
	if err != nil {
		zapLog.Fatal("worker registration failed", zap.Error(err))
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	srv := newServer(cfg.Server.Address, map[string]readinessCheck{
		"zeebe": func(ctx context.Context) error {
			return camunda.HealthCheck(ctx, zeebeClient, config.GetDuration(cfg.Camunda.RequestTimeout))
		},
		"postgres":      pg.Ping,
		"redis":         redisClient.Ping,
		"elasticsearch": esClient.Ping,
	})
	go func() {
		zapLog.Info("health/metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("health/metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("shutdown signal received, stopping workers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeWorkers(shutdownCtx, workers, zapLog)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error stopping health/metrics server", zap.Error(err))
	}
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error flushing metrics", zap.Error(err))
	}

	zapLog.Info("worker manager stopped")
}

func retryFor(attempts int) camunda.RetryConfig {
	rc := camunda.DefaultRetryConfig
	rc.MaxRetries = attempts
	return rc
}

// newSenders builds the SES and SNS clients for the enabled channels. A
// channel whose AWS config cannot be loaded is disabled rather than fatal.
func newSenders(ctx context.Context, cfg config.NotificationConfig, log *zap.Logger) notificationSenders {
	var senders notificationSenders
	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return senders
	}

	awsCfg, err := kisanaws.LoadConfig(ctx, cfg.AWS.Region)
	if err != nil {
		log.Error("AWS config unavailable, notifications disabled", zap.Error(err))
		return senders
	}
	if cfg.Email.Enabled {
		senders.email = kisanaws.NewSESClient(awsCfg, cfg.Email.FromEmail)
	}
	if cfg.SMS.Enabled {
		senders.sms = kisanaws.NewSNSClient(awsCfg, cfg.SMS.SenderID)
	}
	log.Info("notification channels ready",
		zap.Bool("email", senders.email != nil),
		zap.Bool("sms", senders.sms != nil),
		zap.String("region", cfg.AWS.Region),
	)
	return senders
}
