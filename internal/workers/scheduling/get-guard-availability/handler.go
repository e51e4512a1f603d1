package getguardavailability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guard-matching/internal/common/camunda"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/validation"
	"guard-matching/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "get-guard-availability"

type CalendarReader interface {
	Calendar(ctx context.Context, guardID string) (models.Calendar, error)
}

// Handler reads a guard's stored calendar, optionally narrowed to an
// inclusive date range. A guard without a calendar yields no days.
type Handler struct {
	config     *Config
	calendars  CalendarReader
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, calendars CalendarReader, validator *validation.Validator, log logger.Logger) *Handler {
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
	for _, d := range []string{input.FromDate, input.ToDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return nil, errors.NewInputValidationFailedError(fmt.Sprintf("date %q is not YYYY-MM-DD", d))
		}
	}
	if input.FromDate != "" && input.ToDate != "" && input.ToDate < input.FromDate {
		return nil, errors.NewInputValidationFailedError("toDate must not be before fromDate")
	}

	cal, err := h.calendars.Calendar(ctx, input.GuardID)
	if err != nil {
		return nil, err
	}

	out := &Output{GuardID: input.GuardID, Days: []models.DayAvailability{}, RecurringSchedule: cal.Recurring}
	for _, day := range cal.Days {
		// YYYY-MM-DD sorts lexically.
		if input.FromDate != "" && day.Date < input.FromDate {
			continue
		}
		if input.ToDate != "" && day.Date > input.ToDate {
			continue
		}
		out.Days = append(out.Days, day)
		if day.IsAvailable {
			out.OpenDays++
		}
	}

	h.logger.Info("availability read", map[string]interface{}{
		"guardId": input.GuardID,
		"days":    len(out.Days),
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
