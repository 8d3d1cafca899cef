package searchschemes

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"kisan-scheme-workers/internal/common/errors"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/metrics"
	"kisan-scheme-workers/internal/workers/catalog/search-schemes/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "search-schemes"
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: client,
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
		h.errors.HandleJobError(ctx, client, job, errors.NewSearchQueryFailedError(h.config.Index, fmt.Errorf("parse input: %w", err)))
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
	q := queries.SchemeQuery{
		Index:    h.config.Index,
		Text:     input.Query,
		Category: input.Category,
		State:    input.State,
		From:     input.Pagination.From,
		Size:     h.pageSize(input.Pagination.Size),
	}
	if q.From < 0 {
		q.From = 0
	}

	result, err := queries.Search(ctx, h.client, q)
	if err != nil {
		switch {
		case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, errors.NewSearchTimeoutError(h.config.Index)
		case stderrors.Is(err, queries.ErrMissingIndex), stderrors.Is(err, queries.ErrIndexNotFound):
			return nil, errors.NewIndexNotFoundError(h.config.Index)
		case stderrors.Is(err, queries.ErrUnreachable):
			return nil, errors.NewElasticsearchConnectionFailedError(err)
		default:
			return nil, errors.NewSearchQueryFailedError(h.config.Index, err)
		}
	}

	schemes := make([]SchemeDocument, 0, len(result.Hits))
	for _, hit := range result.Hits {
		var doc SchemeDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			h.logger.Warn("skipping unreadable scheme document", map[string]interface{}{
				"id":    hit.ID,
				"error": err.Error(),
			})
			continue
		}
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		doc.Score = hit.Score
		schemes = append(schemes, doc)
	}

	h.logger.Info("scheme search completed", map[string]interface{}{
		"query":     input.Query,
		"category":  input.Category,
		"state":     input.State,
		"totalHits": result.TotalHits,
		"returned":  len(schemes),
	})

	return &Output{
		Schemes:   schemes,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
	}, nil
}

// pageSize clamps size to [1, MaxSearchSize]; zero means the default size.
func (h *Handler) pageSize(size int) int {
	if size == 0 {
		size = h.config.DefaultSize
	}
	if size < 1 {
		size = 1
	}
	if h.config.MaxSearchSize > 0 && size > h.config.MaxSearchSize {
		size = h.config.MaxSearchSize
	}
	return size
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
