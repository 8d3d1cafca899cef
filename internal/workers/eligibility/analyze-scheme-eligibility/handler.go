package analyzeschemeeligibility

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"kisan-scheme-workers/internal/common/database"
	"kisan-scheme-workers/internal/common/errors"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/metrics"
	"kisan-scheme-workers/internal/scheme"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "analyze-scheme-eligibility"
)

const profileQuery = `
		SELECT land_size_acres, state, district, crop_type, irrigation_type, annual_income, farmer_category
		FROM farmer_profiles WHERE farmer_id = $1`

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	engine *scheme.Engine
	errors *errors.ErrorHandler
	logger logger.Logger
}

// NewHandler accepts a nil redis client, in which case profiles always come from Postgres.
func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
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
	input.FarmerID = strings.TrimSpace(input.FarmerID)

	profile, source, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, errors.NewProfileValidationFailedError(err.Error()).WithMetadata("profileSource", source)
	}
	if source == SourceDatabase {
		h.cacheProfile(ctx, input.FarmerID, profile)
	}

	result := h.engine.AnalyzeEligibility(*profile)
	top, _ := result.Top()

	outcome := metrics.OutcomeMatched
	if result.IsFallbackOnly() {
		outcome = metrics.OutcomeFallback
	}
	tier := metrics.StateTier(scheme.RegionalMultiplier(profile.Location.State))
	metrics.SchemeAnalyses.WithLabelValues(tier, outcome).Inc()
	metrics.EligibleSchemesReturned.Observe(float64(len(result.EligibleSchemes)))

	h.logger.Info("eligibility analysed", map[string]interface{}{
		"farmerId":      input.FarmerID,
		"state":         profile.Location.State,
		"profileSource": source,
		"eligibleCount": len(result.EligibleSchemes),
		"topScheme":     top.SchemeName,
		"outcome":       outcome,
	})

	return &Output{
		FarmerID:        input.FarmerID,
		State:           profile.Location.State,
		FarmerProfile:   *profile,
		EligibleSchemes: result.EligibleSchemes,
		NearMisses:      result.NearMisses,
		TopScheme:       top,
		ProfileSource:   source,
		AnalyzedAt:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// resolveProfile prefers the inline profile, then the cache, then Postgres.
// Profiles read from Postgres are cached by execute once they validate.
func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*scheme.FarmerProfile, string, error) {
	if input.FarmerProfile != nil {
		return input.FarmerProfile, SourceInline, nil
	}

	farmerID := input.FarmerID
	if farmerID == "" {
		return nil, "", errors.NewProfileValidationFailedError("farmerId or farmerProfile is required")
	}

	if profile, ok := h.cachedProfile(ctx, farmerID); ok {
		return profile, SourceCache, nil
	}

	profile, err := h.loadProfile(ctx, farmerID)
	if err != nil {
		return nil, "", err
	}
	return profile, SourceDatabase, nil
}

func (h *Handler) cachedProfile(ctx context.Context, farmerID string) (*scheme.FarmerProfile, bool) {
	if h.redis == nil {
		return nil, false
	}

	val, err := h.redis.Get(ctx, database.ProfileCacheKey(farmerID)).Result()
	switch {
	case err == redis.Nil:
		metrics.ProfileCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		metrics.ProfileCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("profile cache unavailable, reading from database", map[string]interface{}{
			"farmerId": farmerID,
			"error":    errors.NewCacheUnavailableError(err).Details,
		})
		return nil, false
	}

	var profile scheme.FarmerProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		metrics.ProfileCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("discarding unreadable cached profile", map[string]interface{}{
			"farmerId": farmerID,
			"error":    err.Error(),
		})
		return nil, false
	}
	metrics.ProfileCacheLookups.WithLabelValues("hit").Inc()
	return &profile, true
}

func (h *Handler) loadProfile(ctx context.Context, farmerID string) (*scheme.FarmerProfile, error) {
	var (
		profile              scheme.FarmerProfile
		district, cropType   sql.NullString
		irrigation, category string
	)

	err := h.db.QueryRowContext(ctx, profileQuery, farmerID).Scan(
		&profile.LandSizeAcres,
		&profile.Location.State,
		&district,
		&cropType,
		&irrigation,
		&profile.AnnualIncome,
		&category,
	)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		return nil, errors.NewProfileNotFoundError(farmerID)
	case err != nil && stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, errors.NewQueryTimeoutError("farmer_profile")
	case stderrors.Is(err, driver.ErrBadConn), stderrors.Is(err, sql.ErrConnDone):
		return nil, errors.NewDatabaseConnectionFailedError(err)
	case err != nil:
		return nil, errors.NewQueryExecutionFailedError("farmer_profile", err)
	}

	profile.Location.District = district.String
	profile.CropType = cropType.String
	profile.IrrigationType = scheme.IrrigationType(irrigation)
	profile.FarmerCategory = scheme.FarmerCategory(category)
	return &profile, nil
}

func (h *Handler) cacheProfile(ctx context.Context, farmerID string, profile *scheme.FarmerProfile) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, database.ProfileCacheKey(farmerID), data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache farmer profile", map[string]interface{}{
			"farmerId": farmerID,
			"error":    err.Error(),
		})
	}
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
