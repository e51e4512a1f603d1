package findalternativeguards

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

const TaskType = "find-alternative-guards"

type AlternativeFinder interface {
	FindAlternativeGuards(ctx context.Context, bookingID string, limit int) ([]models.MatchResult, error)
}

// Handler ranks replacement guards for an existing booking, for example
// after the assigned guard declines.
type Handler struct {
	config     *Config
	finder     AlternativeFinder
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, finder AlternativeFinder, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		finder:     finder,
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
	if input.BookingID == "" {
		return nil, errors.NewInputValidationFailedError("bookingId is required")
	}

	alternatives, err := h.finder.FindAlternativeGuards(ctx, input.BookingID, input.Limit)
	if err != nil {
		return nil, err
	}

	h.logger.Info("alternatives ranked", map[string]interface{}{
		"bookingId": input.BookingID,
		"count":     len(alternatives),
	})

	return &Output{
		Alternatives:      alternatives,
		TotalAlternatives: len(alternatives),
		HasAlternatives:   len(alternatives) > 0,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
