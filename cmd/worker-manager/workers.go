package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	kisanaws "kisan-scheme-workers/internal/common/aws"
	"kisan-scheme-workers/internal/common/camunda"
	"kisan-scheme-workers/internal/common/config"
	"kisan-scheme-workers/internal/common/database"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/observability"
	"kisan-scheme-workers/pkg/registry"

	ss "kisan-scheme-workers/internal/workers/catalog/search-schemes"
	nf "kisan-scheme-workers/internal/workers/communication/notify-farmer"
	cdr "kisan-scheme-workers/internal/workers/documents/check-document-readiness"
	ase "kisan-scheme-workers/internal/workers/eligibility/analyze-scheme-eligibility"
	gsc "kisan-scheme-workers/internal/workers/eligibility/generate-scheme-catalog"
	res "kisan-scheme-workers/internal/workers/eligibility/rank-eligible-schemes"
	rsa "kisan-scheme-workers/internal/workers/profile/record-scheme-analysis"
	vfp "kisan-scheme-workers/internal/workers/profile/validate-farmer-profile"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

type notificationSenders struct {
	email *kisanaws.SESClient
	sms   *kisanaws.SNSClient
}

// The notify-farmer handler treats a nil interface as a disabled channel, so
// nil pointers must not be boxed.
func (s notificationSenders) emailSender() nf.EmailSender {
	if s.email == nil {
		return nil
	}
	return s.email
}

func (s notificationSenders) smsSender() nf.SMSSender {
	if s.sms == nil {
		return nil
	}
	return s.sms
}

type workerDeps struct {
	cfg     *config.Config
	pg      *database.PostgresClient
	redis   *database.RedisClient
	es      *database.ElasticsearchClient
	senders notificationSenders
	log     logger.Logger
}

type registration struct {
	taskType string
	handle   camunda.HandlerFunc
}

func buildRegistrations(d workerDeps) ([]registration, error) {
	cfg := d.cfg
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	validateProfile, err := vfp.NewHandler(&vfp.Config{Timeout: timeout(vfp.TaskType)}, d.log)
	if err != nil {
		return nil, fmt.Errorf("create %s handler: %w", vfp.TaskType, err)
	}

	generateCatalog := gsc.NewHandler(&gsc.Config{
		Timeout: timeout(gsc.TaskType),
		Seed:    cfg.Engine.Seed,
	}, d.log)

	rankSchemes := res.NewHandler(&res.Config{
		MaxCatalogSize: 100,
		Timeout:        timeout(res.TaskType),
	}, d.log)

	analyze := ase.NewHandler(&ase.Config{
		CacheTTL: config.GetDuration(cfg.Engine.ProfileCacheTTL),
		Timeout:  timeout(ase.TaskType),
		Seed:     cfg.Engine.Seed,
	}, d.pg.DB, d.redis.Client, d.log)

	readiness := cdr.NewHandler(&cdr.Config{
		MaxDocuments: 50,
		Timeout:      timeout(cdr.TaskType),
	}, d.log)

	record := rsa.NewHandler(&rsa.Config{Timeout: timeout(rsa.TaskType)}, d.pg.DB, d.log)

	notify := nf.NewHandler(&nf.Config{
		EmailEnabled: cfg.Notifications.Email.Enabled,
		SMSEnabled:   cfg.Notifications.SMS.Enabled,
		Timeout:      timeout(nf.TaskType),
	}, d.pg.DB, d.senders.emailSender(), d.senders.smsSender(), d.log)

	search := ss.NewHandler(&ss.Config{
		Index:         cfg.Engine.SchemeIndex,
		MaxSearchSize: cfg.Engine.MaxSearchSize,
		DefaultSize:   10,
		Timeout:       timeout(ss.TaskType),
	}, d.es.Client, d.log)

	return []registration{
		{vfp.TaskType, validateProfile.Handle},
		{gsc.TaskType, generateCatalog.Handle},
		{res.TaskType, rankSchemes.Handle},
		{ase.TaskType, analyze.Handle},
		{cdr.TaskType, readiness.Handle},
		{rsa.TaskType, record.Handle},
		{nf.TaskType, notify.Handle},
		{ss.TaskType, search.Handle},
	}, nil
}

func registerWorkers(client zbc.Client, d workerDeps, obs *observability.Observability, log *zap.Logger) ([]worker.JobWorker, error) {
	registrations, err := buildRegistrations(d)
	if err != nil {
		return nil, err
	}
	checkRegistry(d.cfg.App.RegistryPath, registrations, log)

	var workers []worker.JobWorker
	for _, r := range registrations {
		wcfg := config.GetWorkerConfig(d.cfg, r.taskType)
		if w := camunda.StartWorker(client, r.taskType, wcfg, r.handle, obs, log); w != nil {
			workers = append(workers, w)
		}
	}
	return workers, nil
}

// checkRegistry warns when the served task types drift from the activity
// registry. A missing or broken registry never blocks startup.
func checkRegistry(path string, registrations []registration, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry unavailable", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", zap.String("path", path), zap.Error(err))
		return
	}

	served := make([]string, 0, len(registrations))
	for _, r := range registrations {
		served = append(served, r.taskType)
	}
	unregistered, unserved := reg.Coverage(served)
	if len(unregistered) > 0 {
		log.Warn("task types missing from activity registry", zap.Strings("taskTypes", unregistered))
	}
	if len(unserved) > 0 {
		log.Warn("completed activities without a worker", zap.Strings("taskTypes", unserved))
	}
}

// closeWorkers stops polling and waits for in-flight jobs until ctx expires.
func closeWorkers(ctx context.Context, workers []worker.JobWorker, log *zap.Logger) {
	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w worker.JobWorker) {
			defer wg.Done()
			w.Close()
			w.AwaitClose()
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("all workers stopped", zap.Int("count", len(workers)))
	case <-ctx.Done():
		log.Warn("timed out waiting for workers to stop", zap.Error(ctx.Err()))
	}
}
