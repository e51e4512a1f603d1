package recommendguards

import (
	"context"

	"guard-matching/internal/common/camunda"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/validation"
	"guard-matching/internal/matching"
	"guard-matching/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "recommend-guards"

const plainRatingCeiling = 20.0

type Recommender interface {
	RecommendGuards(ctx context.Context, clientID string, criteria models.BookingCriteria, limit int) ([]models.MatchResult, error)
}

type Handler struct {
	config      *Config
	recommender Recommender
	validator   *validation.Validator
	errHandler  *errors.ErrorHandler
	logger      logger.Logger
}

func NewHandler(config *Config, recommender Recommender, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:      config,
		recommender: recommender,
		validator:   validator,
		errHandler:  errors.NewErrorHandler(l),
		logger:      l,
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
	recs, err := h.recommender.RecommendGuards(ctx, input.ClientID, input.Criteria, input.Limit)
	if err != nil {
		return nil, err
	}

	// The boost lands in the rating factor, so anything above the plain
	// rating ceiling came from the client's history or explicit preferences.
	preferred := 0
	for _, r := range recs {
		if r.Breakdown[matching.FactorRating] > plainRatingCeiling {
			preferred++
		}
	}

	return &Output{Recommendations: recs, PreferredCount: preferred}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
