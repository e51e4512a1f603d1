package indexguardprofile

import (
	"context"
	stderrors "errors"

	"guard-matching/internal/common/camunda"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/validation"
	"guard-matching/internal/models"
	"guard-matching/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "index-guard-profile"

type GuardReader interface {
	GetGuard(ctx context.Context, id string) (models.GuardProfile, error)
}

type CatalogIndexer interface {
	Index(ctx context.Context, g models.GuardProfile) error
}

type GeoIndexer interface {
	Upsert(ctx context.Context, guardID string, p models.GeoPoint) error
	Remove(ctx context.Context, guardID string) error
}

type RosterInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Handler propagates a guard's profile from Postgres into the search catalog,
// the geo index and the cached roster after the profile changes.
type Handler struct {
	config     *Config
	guards     GuardReader
	catalog    CatalogIndexer
	geo        GeoIndexer
	roster     RosterInvalidator
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler accepts a nil catalog when Elasticsearch is disabled.
func NewHandler(config *Config, guards GuardReader, catalog CatalogIndexer, geo GeoIndexer, roster RosterInvalidator, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		guards:     guards,
		catalog:    catalog,
		geo:        geo,
		roster:     roster,
		validator:  validator,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) error {
	h.logger.WithContext(ctx).Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := h.validator.Decode(TaskType, job.Variables, &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	execCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, err := h.execute(execCtx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	guard, err := h.guards.GetGuard(ctx, input.GuardID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.NewGuardNotFoundError(input.GuardID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_guard", err)
	}

	out := &Output{GuardID: guard.ID}

	if h.catalog != nil {
		if err := h.catalog.Index(ctx, guard); err != nil {
			return nil, errors.NewSearchQueryFailedError("index_guard", err)
		}
		out.CatalogIndexed = true
	}

	// A guard without a valid location must not linger in the geo index,
	// otherwise the radius prefilter keeps returning it.
	if guard.Location != nil && guard.Location.Valid() {
		if err := h.geo.Upsert(ctx, guard.ID, *guard.Location); err != nil {
			return nil, errors.NewCacheOperationFailedError("geo_upsert", err)
		}
		out.GeoIndexed = true
	} else if err := h.geo.Remove(ctx, guard.ID); err != nil {
		return nil, errors.NewCacheOperationFailedError("geo_remove", err)
	}

	if err := h.roster.Invalidate(ctx); err != nil {
		h.logger.Warn("roster cache invalidation failed", map[string]interface{}{
			"guardId": guard.ID,
			"error":   err.Error(),
		})
	}

	h.logger.Info("guard profile indexed", map[string]interface{}{
		"guardId":        guard.ID,
		"catalogIndexed": out.CatalogIndexed,
		"geoIndexed":     out.GeoIndexed,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
