package findbestmatches

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

const TaskType = "find-best-matches"

type Matcher interface {
	FindBestMatches(ctx context.Context, criteria models.BookingCriteria, limit int) ([]models.MatchResult, error)
}

type Handler struct {
	config     *Config
	matcher    Matcher
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, matcher Matcher, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		matcher:    matcher,
		validator:  validator,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) error {
	log := h.logger.WithContext(ctx)
	log.Info("processing job", map[string]interface{}{
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

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		log.Error("failed to complete job", map[string]interface{}{"error": err})
		return err
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	matches, err := h.matcher.FindBestMatches(ctx, input.Criteria, input.Limit)
	if err != nil {
		return nil, err
	}

	output := &Output{Matches: matches, TotalMatches: len(matches)}
	if len(matches) > 0 {
		output.TopGuardID = matches[0].Guard.ID
	}
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
