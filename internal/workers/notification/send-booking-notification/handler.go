package sendbookingnotification

import (
	"context"
	stderrors "errors"
	"time"

	"guard-matching/internal/common/camunda"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/validation"
	"guard-matching/internal/models"
	"guard-matching/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "send-booking-notification"

type ContactReader interface {
	GetContact(ctx context.Context, guardID string) (models.GuardContact, error)
}

// Sender is satisfied by aws.Notifier.
type Sender interface {
	EmailEnabled() bool
	SMSEnabled() bool
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config     *Config
	contacts   ContactReader
	sender     Sender
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, contacts ContactReader, sender Sender, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		contacts:   contacts,
		sender:     sender,
		validator:  validator,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
		now:        time.Now,
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
	contact, err := h.contacts.GetContact(ctx, input.GuardID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.NewGuardNotFoundError(input.GuardID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_contact", err)
	}

	data := templateData{
		GuardName:     contact.Name,
		BookingID:     input.BookingID,
		Date:          input.Date,
		ClientName:    input.ClientName,
		PickupAddress: input.PickupAddress,
	}
	if input.Slot != nil {
		data.Slot = input.Slot.String()
	}
	msg, err := render(input.Kind, data)
	if err != nil {
		return nil, errors.NewInputValidationFailedError(err.Error())
	}

	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		SentAt:         h.now().UTC().Format(time.RFC3339),
	}

	if h.sender.EmailEnabled() && contact.Email != "" {
		id, err := h.sender.SendEmail(ctx, contact.Email, msg.Subject, msg.Body)
		if err != nil {
			return nil, errors.NewNotificationSendFailedError("email", err)
		}
		out.EmailMessageID = id
		out.Status = StatusSent
	}

	// SMS is sent in addition to email. Its failure only matters when it is the sole channel.
	if h.sender.SMSEnabled() && contact.Phone != "" {
		id, err := h.sender.SendSMS(ctx, contact.Phone, msg.SMS)
		if err != nil {
			if out.Status == StatusSent {
				h.logger.Warn("sms failed after email was sent", map[string]interface{}{
					"guardId": input.GuardID,
					"error":   err.Error(),
				})
				return out, nil
			}
			return nil, errors.NewNotificationSendFailedError("sms", err)
		}
		out.SMSMessageID = id
		out.Status = StatusSent
	}

	if out.Status == StatusDisabled {
		h.logger.Warn("no delivery channel for guard", map[string]interface{}{
			"guardId":      input.GuardID,
			"emailEnabled": h.sender.EmailEnabled(),
			"smsEnabled":   h.sender.SMSEnabled(),
		})
	}

	h.logger.Info("booking notification processed", map[string]interface{}{
		"notificationId": out.NotificationID,
		"guardId":        input.GuardID,
		"kind":           input.Kind,
		"status":         out.Status,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
