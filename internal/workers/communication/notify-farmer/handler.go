package notifyfarmer

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"kisan-scheme-workers/internal/common/errors"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/metrics"
	"kisan-scheme-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-farmer"
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config *Config
	db     *sql.DB
	email  EmailSender
	sms    SMSSender
	errors *errors.ErrorHandler
	logger logger.Logger
}

// NewHandler accepts nil senders; the matching channel is then treated as disabled.
func NewHandler(config *Config, db *sql.DB, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		email:  email,
		sms:    sms,
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
	tmpl, ok := templates[input.NotificationType]
	if !ok {
		return nil, errors.NewInvalidNotificationTypeError(input.NotificationType)
	}

	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)
	output := &Output{
		NotificationID: notificationID,
		Status:         StatusDisabled,
		Channels:       []string{},
		SentAt:         sentAt,
	}

	email, phone, err := h.farmerContact(ctx, farmerID)
	if stderrors.Is(err, sql.ErrNoRows) {
		h.logger.Warn("farmer not found, notification skipped", map[string]interface{}{
			"farmerId": farmerID,
		})
		return output, nil
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("farmer_contact", err)
	}

	data := templateData(input)
	subject := renderTemplate(tmpl.Subject, data)

	if h.config.EmailEnabled && h.email != nil && email != "" {
		if !validation.ValidateEmail(email) {
			h.logger.Warn("skipping malformed email address", map[string]interface{}{"farmerId": farmerID})
		} else if _, err := h.email.SendText(ctx, email, subject, renderTemplate(tmpl.Body, data)); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error":    errors.NewNotificationSendFailedError(ChannelEmail, err).Details,
				"farmerId": farmerID,
			})
			output.Status = StatusFailed
			return output, nil
		} else {
			output.Channels = append(output.Channels, ChannelEmail)
		}
	}

	if h.config.SMSEnabled && h.sms != nil && phone != "" {
		if !validation.ValidatePhone(phone) {
			h.logger.Warn("skipping malformed phone number", map[string]interface{}{"farmerId": farmerID})
		} else if _, err := h.sms.SendSMS(ctx, phone, renderTemplate(tmpl.SMS, data)); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error":    errors.NewNotificationSendFailedError(ChannelSMS, err).Details,
				"farmerId": farmerID,
			})
			output.Status = StatusFailed
			return output, nil
		} else {
			output.Channels = append(output.Channels, ChannelSMS)
		}
	}

	if len(output.Channels) > 0 {
		output.Status = StatusSent
	}

	h.logger.Info("farmer notification processed", map[string]interface{}{
		"notificationId":   notificationID,
		"farmerId":         farmerID,
		"notificationType": input.NotificationType,
		"status":           output.Status,
		"channels":         output.Channels,
	})
	return output, nil
}

func (h *Handler) farmerContact(ctx context.Context, farmerID string) (string, string, error) {
	var email, phone sql.NullString
	err := h.db.QueryRowContext(ctx, `SELECT email, phone FROM farmers WHERE id = $1`, farmerID).
		Scan(&email, &phone)
	return strings.TrimSpace(email.String), strings.TrimSpace(phone.String), err
}

func templateData(input *Input) map[string]interface{} {
	data := map[string]interface{}{
		"schemeCount":      len(input.EligibleSchemes),
		"topScheme":        "the universal support scheme",
		"topAmount":        "",
		"readinessStatus":  input.ReadinessStatus,
		"missingDocuments": "none",
	}
	if len(input.EligibleSchemes) > 0 {
		data["topScheme"] = input.EligibleSchemes[0].SchemeName
		data["topAmount"] = input.EligibleSchemes[0].AdjustedSubsidyAmount
	}
	if len(input.MissingDocuments) > 0 {
		data["missingDocuments"] = input.MissingDocuments
	}
	return data
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
