package cancelguardslot

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

const TaskType = "cancel-guard-slot"

type SlotCanceller interface {
	Cancel(ctx context.Context, guardID, date string, slot models.TimeSlot) (bool, error)
}

type Handler struct {
	config     *Config
	canceller  SlotCanceller
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, canceller SlotCanceller, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		canceller:  canceller,
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
	if err := input.Validate(); err != nil {
		return nil, errors.NewInputValidationFailedError(err.Error())
	}

	cancelled, err := h.canceller.Cancel(ctx, input.GuardID, input.Date, input.Slot)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		h.logger.Warn("no booked slot with matching bounds", map[string]interface{}{
			"guardId": input.GuardID,
			"date":    input.Date,
			"slot":    input.Slot.String(),
		})
	}

	return &Output{
		GuardID:   input.GuardID,
		Date:      input.Date,
		Slot:      input.Slot,
		Cancelled: cancelled,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
