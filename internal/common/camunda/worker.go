package camunda

import (
	"context"
	"time"

	"kisan-scheme-workers/internal/common/config"
	"kisan-scheme-workers/internal/common/metrics"
	"kisan-scheme-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

type HandlerFunc func(client worker.JobClient, job entities.Job)

// Instrument wraps a handler with the job gauge, duration histogram and otel counters.
func Instrument(taskType string, obs *observability.Observability, handle HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		done := metrics.ObserveJob(taskType)
		defer func() {
			done()
			obs.RecordJob(context.Background(), taskType, time.Since(start))
		}()
		handle(client, job)
	}
}

// StartWorker opens a job worker for taskType, or returns nil when it is disabled.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handle HandlerFunc,
	obs *observability.Observability,
	log *zap.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, obs, handle))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return jobWorker
}
