package bookguardslot

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

const TaskType = "book-guard-slot"

type SlotBooker interface {
	Book(ctx context.Context, guardID, date string, slot models.TimeSlot) (bool, error)
}

// Handler reserves a slot on a guard's calendar. A conflicting or missing
// day completes the job with booked=false so the process can branch on it;
// only infrastructure failures and lost races fail the job.
type Handler struct {
	config     *Config
	booker     SlotBooker
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, booker SlotBooker, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		booker:     booker,
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

	// The slot is already committed at this point. A retry carrying the same
	// bookingId finds the slot held and completes with booked=true.
	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		log.Error("failed to complete job after booking", map[string]interface{}{
			"guardId": input.GuardID,
			"date":    input.Date,
			"slot":    input.Slot.String(),
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.NewInputValidationFailedError(err.Error())
	}

	slot := input.Slot
	slot.BookingID = input.BookingID
	booked, err := h.booker.Book(ctx, input.GuardID, input.Date, slot)
	if err != nil {
		return nil, err
	}

	h.logger.Info("slot booking attempted", map[string]interface{}{
		"guardId":   input.GuardID,
		"date":      input.Date,
		"slot":      input.Slot.String(),
		"bookingId": input.BookingID,
		"booked":    booked,
	})

	return &Output{
		GuardID:   input.GuardID,
		Date:      input.Date,
		Slot:      input.Slot,
		BookingID: input.BookingID,
		Booked:    booked,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
