package recordschemeanalysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kisan-scheme-workers/internal/common/errors"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/metrics"
	"kisan-scheme-workers/internal/scheme"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "record-scheme-analysis"
)

type Handler struct {
	config *Config
	db     *sql.DB
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
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
		h.errors.HandleJobError(ctx, client, job, errors.NewProfileValidationFailedError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	farmerID := strings.TrimSpace(input.FarmerID)
	if farmerID == "" {
		return nil, errors.NewProfileValidationFailedError("farmerId is required")
	}
	if err := input.FarmerProfile.Validate(); err != nil {
		return nil, errors.NewProfileValidationFailedError(err.Error())
	}
	if len(input.EligibleSchemes) == 0 {
		return nil, errors.NewInvalidCatalogError("eligibleSchemes must contain at least one scheme")
	}

	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM scheme_analyses
			WHERE farmer_id = $1 AND created_at >= date_trunc('day', now())
		)`, farmerID).Scan(&exists)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("duplicate_check", err)
	}
	if exists {
		return nil, errors.NewDuplicateAnalysisError(farmerID)
	}

	analysisID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	result := scheme.AnalysisResult{EligibleSchemes: input.EligibleSchemes}
	resultJSON, err := json.Marshal(storedResult{
		FarmerProfile:   input.FarmerProfile,
		EligibleSchemes: input.EligibleSchemes,
		FallbackOnly:    result.IsFallbackOnly(),
	})
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(fmt.Errorf("marshal analysis result: %w", err))
	}
	top, _ := result.Top()

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO scheme_analyses (
			id, farmer_id, state, farmer_category, result,
			top_scheme, scheme_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		analysisID,
		farmerID,
		input.FarmerProfile.Location.State,
		string(input.FarmerProfile.FarmerCategory),
		resultJSON,
		top.SchemeName,
		len(input.EligibleSchemes),
		createdAt,
	)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	// Audit entries are best effort.
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"farmerId":    farmerID,
		"state":       input.FarmerProfile.Location.State,
		"topScheme":   top.SchemeName,
		"schemeCount": len(input.EligibleSchemes),
	})
	if err != nil {
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"scheme_analysis_recorded",
		"scheme_analysis",
		analysisID,
		auditDetailsJSON,
		createdAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":      err,
			"analysisId": analysisID,
		})
	}

	h.logger.Info("scheme analysis recorded", map[string]interface{}{
		"analysisId":  analysisID,
		"farmerId":    farmerID,
		"topScheme":   top.SchemeName,
		"schemeCount": len(input.EligibleSchemes),
	})

	return &Output{
		AnalysisID: analysisID,
		Status:     StatusRecorded,
		CreatedAt:  createdAt,
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
