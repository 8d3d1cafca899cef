package checkdocumentreadiness

import (
	"context"
	"encoding/json"
	"fmt"

	"kisan-scheme-workers/internal/common/errors"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/metrics"
	"kisan-scheme-workers/internal/scheme"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "check-document-readiness"
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
		h.errors.HandleJobError(ctx, client, job, errors.NewInvalidDocumentListError(fmt.Sprintf("parse input: %v", err)))
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
	// An empty list is a valid "nothing uploaded yet"; an absent variable is a modelling error.
	if input.UserDocuments == nil {
		return nil, errors.NewInvalidDocumentListError("userDocuments is required")
	}
	if h.config.MaxDocuments > 0 && len(input.UserDocuments) > h.config.MaxDocuments {
		return nil, errors.NewInvalidDocumentListError(
			fmt.Sprintf("%d documents submitted, limit is %d", len(input.UserDocuments), h.config.MaxDocuments))
	}

	readiness := scheme.CheckDocumentReadiness(input.UserDocuments)
	metrics.DocumentReadiness.WithLabelValues(readiness.ReadinessStatus).Inc()

	h.logger.Info("document readiness checked", map[string]interface{}{
		"submitted":       len(input.UserDocuments),
		"missing":         len(readiness.MissingDocuments),
		"readinessStatus": readiness.ReadinessStatus,
	})

	return &Output{
		MissingDocuments:     readiness.MissingDocuments,
		OptionalAlternatives: readiness.OptionalAlternatives,
		ReadinessStatus:      readiness.ReadinessStatus,
		RequiredDocuments:    scheme.RequiredDocuments(),
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
