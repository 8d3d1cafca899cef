package rankeligibleschemes

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
	TaskType = "rank-eligible-schemes"
)

type Handler struct {
	config *Config
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
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
	if err := input.FarmerProfile.Validate(); err != nil {
		return nil, errors.NewProfileValidationFailedError(err.Error())
	}
	if err := h.validateCatalog(input.Schemes); err != nil {
		return nil, err
	}

	result := scheme.FilterAndRank(input.FarmerProfile, input.Schemes)
	top, _ := result.Top()

	h.logger.Info("schemes ranked", map[string]interface{}{
		"catalogSize":   len(input.Schemes),
		"eligibleCount": len(result.EligibleSchemes),
		"topScheme":     top.SchemeName,
		"fallbackOnly":  result.IsFallbackOnly(),
	})

	return &Output{
		EligibleSchemes: result.EligibleSchemes,
		NearMisses:      result.NearMisses,
		TopScheme:       top,
		FallbackOnly:    result.IsFallbackOnly(),
	}, nil
}

// validateCatalog accepts an empty catalog, which ranks to the fallback scheme.
func (h *Handler) validateCatalog(schemes []scheme.GeneratedScheme) error {
	if h.config.MaxCatalogSize > 0 && len(schemes) > h.config.MaxCatalogSize {
		return errors.NewInvalidCatalogError(fmt.Sprintf("catalog has %d schemes, limit is %d", len(schemes), h.config.MaxCatalogSize))
	}
	for i, s := range schemes {
		if strings.TrimSpace(s.Name) == "" {
			return errors.NewInvalidCatalogError(fmt.Sprintf("schemes[%d]: name is required", i))
		}
		if s.BaseSubsidyAmount < 0 {
			return errors.NewInvalidCatalogError(fmt.Sprintf("schemes[%d]: base_subsidy_amount must not be negative", i))
		}
	}
	return nil
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
