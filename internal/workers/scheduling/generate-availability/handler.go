package generateavailability

import (
	"context"
	"strings"

	"guard-matching/internal/common/camunda"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/validation"
	"guard-matching/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-availability"

	maxDays = 90
)

type CalendarInitializer interface {
	Initialize(ctx context.Context, guardID string, days int) (models.Calendar, error)
}

// Handler seeds the default calendar for a newly onboarded guard.
type Handler struct {
	config     *Config
	calendars  CalendarInitializer
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, calendars CalendarInitializer, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		calendars:  calendars,
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
	if strings.TrimSpace(input.GuardID) == "" {
		return nil, errors.NewInputValidationFailedError("guardId is required")
	}
	if input.Days < 0 || input.Days > maxDays {
		return nil, errors.NewInputValidationFailedError("days must not exceed 90")
	}

	// Zero days falls through to the configured horizon.
	cal, err := h.calendars.Initialize(ctx, input.GuardID, input.Days)
	if err != nil {
		return nil, err
	}

	out := &Output{GuardID: input.GuardID, DaysGenerated: len(cal.Days), Calendar: cal}
	if n := len(cal.Days); n > 0 {
		out.FirstDate = cal.Days[0].Date
		out.LastDate = cal.Days[n-1].Date
	}

	h.logger.Info("availability generated", map[string]interface{}{
		"guardId": input.GuardID,
		"days":    out.DaysGenerated,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
