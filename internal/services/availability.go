package services

import (
	"context"
	stderrors "errors"
	"time"

	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/metrics"
	"guard-matching/internal/events"
	"guard-matching/internal/matching"
	"guard-matching/internal/models"
	"guard-matching/internal/store"
)

type AvailabilityRepository interface {
	GetDay(ctx context.Context, guardID, date string) (models.DayAvailability, error)
	GetCalendar(ctx context.Context, guardID string) (models.Calendar, error)
	SaveCalendar(ctx context.Context, cal models.Calendar) error
	BookSlot(ctx context.Context, guardID, date string, slot models.TimeSlot) (bool, error)
	CancelSlot(ctx context.Context, guardID, date string, slot models.TimeSlot) (bool, error)
}

const (
	resultBooked     = "booked"
	resultConflict   = "conflict"
	resultMissingDay = "missing_day"
	resultError      = "error"
)

type AvailabilityService struct {
	repo        AvailabilityRepository
	publisher   events.Publisher
	days        int
	maxAttempts int
	now         func() time.Time
	logger      logger.Logger
}

func NewAvailabilityService(repo AvailabilityRepository, publisher events.Publisher, settings Settings, maxAttempts int, log logger.Logger) *AvailabilityService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	days := settings.AvailabilityDays
	if days <= 0 {
		days = matching.DefaultAvailabilityDays
	}
	return &AvailabilityService{
		repo:        repo,
		publisher:   publisher,
		days:        days,
		maxAttempts: maxAttempts,
		now:         time.Now,
		logger:      log,
	}
}

// Check reports whether slot is free on date. A guard with no calendar for
// that date is never available.
func (s *AvailabilityService) Check(ctx context.Context, guardID, date string, slot models.TimeSlot) (bool, error) {
	day, err := s.repo.GetDay(ctx, guardID, date)
	if stderrors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.NewQueryExecutionFailedError("get_availability", err)
	}
	return matching.IsSlotAvailable(day.BookedSlots, slot), nil
}

// Calendar returns every stored day of the guard with its recurring schedule.
func (s *AvailabilityService) Calendar(ctx context.Context, guardID string) (models.Calendar, error) {
	cal, err := s.repo.GetCalendar(ctx, guardID)
	if err != nil {
		return models.Calendar{}, errors.NewQueryExecutionFailedError("get_calendar", err)
	}
	return cal, nil
}

// Book atomically reserves slot. It returns false when the slot conflicts
// with an existing booking or the day does not exist.
func (s *AvailabilityService) Book(ctx context.Context, guardID, date string, slot models.TimeSlot) (bool, error) {
	ok, err := s.repo.BookSlot(ctx, guardID, date, slot)
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		metrics.SlotBookings.WithLabelValues(resultMissingDay).Inc()
		return false, nil
	case stderrors.Is(err, store.ErrVersionConflict):
		metrics.SlotBookings.WithLabelValues(resultError).Inc()
		return false, errors.NewConcurrentModificationError(guardID, date, s.maxAttempts)
	case err != nil:
		metrics.SlotBookings.WithLabelValues(resultError).Inc()
		return false, errors.NewQueryExecutionFailedError("book_slot", err)
	case !ok:
		metrics.SlotBookings.WithLabelValues(resultConflict).Inc()
		return false, nil
	}

	metrics.SlotBookings.WithLabelValues(resultBooked).Inc()
	s.publish(ctx, events.NewSlotEvent(events.TypeSlotBooked, guardID, date, slot))
	return true, nil
}

// Cancel removes a booked slot with exactly the given bounds.
func (s *AvailabilityService) Cancel(ctx context.Context, guardID, date string, slot models.TimeSlot) (bool, error) {
	ok, err := s.repo.CancelSlot(ctx, guardID, date, slot)
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return false, nil
	case stderrors.Is(err, store.ErrVersionConflict):
		return false, errors.NewConcurrentModificationError(guardID, date, s.maxAttempts)
	case err != nil:
		return false, errors.NewQueryExecutionFailedError("cancel_slot", err)
	case !ok:
		return false, nil
	}

	s.publish(ctx, events.NewSlotEvent(events.TypeSlotCancelled, guardID, date, slot))
	return true, nil
}

// Initialize writes the default template for the next days, starting today,
// together with the default recurring schedule.
func (s *AvailabilityService) Initialize(ctx context.Context, guardID string, days int) (models.Calendar, error) {
	if days <= 0 {
		days = s.days
	}
	cal := matching.GenerateAvailability(guardID, days, s.now())
	if err := s.repo.SaveCalendar(ctx, cal); err != nil {
		return models.Calendar{}, errors.NewQueryExecutionFailedError("save_calendar", err)
	}
	return cal, nil
}

// Event delivery is best effort; the booking is already committed.
func (s *AvailabilityService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Error("failed to publish booking event", map[string]interface{}{
			"eventId":   e.ID,
			"eventType": e.Type,
			"guardId":   e.GuardID,
			"error":     err.Error(),
		})
	}
}
