package searchguards

import (
	"context"

	"guard-matching/internal/common/camunda"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/validation"
	"guard-matching/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "search-guards"

type Searcher interface {
	Search(ctx context.Context, filters models.SearchFilters, userLocation *models.GeoPoint) ([]models.SearchResult, error)
}

type Handler struct {
	config     *Config
	searcher   Searcher
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, searcher Searcher, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		searcher:   searcher,
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
	filters, err := parseFilters(input.RawFilters)
	if err != nil {
		return nil, err
	}

	results, err := h.searcher.Search(ctx, filters, input.UserLocation)
	if err != nil {
		return nil, err
	}

	h.logger.Info("search complete", map[string]interface{}{
		"query":   filters.Query,
		"sortBy":  filters.SortBy,
		"results": len(results),
	})

	return &Output{Filters: filters, Results: results, TotalResults: len(results)}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
