package generateschemecatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"kisan-scheme-workers/internal/common/errors"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/metrics"
	"kisan-scheme-workers/internal/scheme"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-scheme-catalog"
)

type Handler struct {
	config *Config
	engine *scheme.Engine
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: scheme.NewEngine(scheme.NewSeededSource(config.Seed)),
		errors: errors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(ctx, client, job, errors.NewInvalidCatalogError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	state := strings.TrimSpace(input.State)
	if state == "" {
		return nil, errors.NewInvalidCatalogError("state is required")
	}

	supported := scheme.IsSupportedState(state)
	if !supported {
		h.logger.Warn("state has no regional multiplier, using default", map[string]interface{}{
			"state": state,
		})
	}

	schemes := h.engine.GenerateSchemesForRegion(state)

	h.logger.Info("scheme catalog generated", map[string]interface{}{
		"state":       state,
		"schemeCount": len(schemes),
	})

	return &Output{
		State:              state,
		RegionalMultiplier: scheme.RegionalMultiplier(state),
		SupportedState:     supported,
		SchemeCount:        len(schemes),
		Schemes:            schemes,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
