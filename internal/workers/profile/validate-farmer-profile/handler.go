package validatefarmerprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"kisan-scheme-workers/internal/common/errors"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/metrics"
	"kisan-scheme-workers/internal/common/validation"
	"kisan-scheme-workers/internal/scheme"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	TaskType = "validate-farmer-profile"
)

type Handler struct {
	config    *Config
	validator *validation.Validator
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	validator, err := validation.ForSchema(scheme.FarmerProfileSchema)
	if err != nil {
		return nil, fmt.Errorf("load farmer profile schema: %w", err)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		validator: validator,
		errors:    errors.NewErrorHandler(log),
		logger:    log,
	}, nil
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.FarmerProfile == nil {
		return nil, errors.NewProfileValidationFailedError("farmerProfile is required")
	}

	result, err := h.validator.Validate(input.FarmerProfile)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, h.rejected(result.Errors)
	}

	profile, err := decodeProfile(input.FarmerProfile)
	if err != nil {
		return nil, errors.NewProfileValidationFailedError(err.Error())
	}

	if ruleErrs := ruleViolations(profile.Validate()); len(ruleErrs) > 0 {
		return nil, h.rejected(ruleErrs)
	}

	h.logger.Info("farmer profile valid", map[string]interface{}{
		"state":          profile.Location.State,
		"farmerCategory": profile.FarmerCategory,
	})

	return &Output{
		IsValid:          true,
		ValidationErrors: []validation.ValidationError{},
		FarmerProfile:    profile,
	}, nil
}

func (h *Handler) rejected(errs []validation.ValidationError) error {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	h.logger.Warn("farmer profile rejected", map[string]interface{}{
		"errorCount": len(errs),
	})

	return errors.NewProfileValidationFailedError(strings.Join(messages, "; ")).
		WithMetadata("validationErrors", errs)
}

func decodeProfile(raw map[string]interface{}) (*scheme.FarmerProfile, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode farmer profile: %w", err)
	}
	var profile scheme.FarmerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode farmer profile: %w", err)
	}
	profile.Location.State = strings.TrimSpace(profile.Location.State)
	profile.CropType = strings.TrimSpace(profile.CropType)
	return &profile, nil
}

// ruleViolations flattens ozzo errors, which the schema mostly pre-empts, in field order.
func ruleViolations(err error) []validation.ValidationError {
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(ozzo.Errors)
	if !ok {
		return []validation.ValidationError{{Field: "farmerProfile", Message: err.Error(), Code: "RULE_VIOLATION"}}
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]validation.ValidationError, 0, len(fields))
	for _, field := range fields {
		out = append(out, validation.ValidationError{
			Field:   field,
			Message: fieldErrs[field].Error(),
			Code:    "RULE_VIOLATION",
		})
	}
	return out
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
