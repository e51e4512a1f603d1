package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/metrics"
	"guard-matching/internal/events"
	"guard-matching/internal/matching"
	"guard-matching/internal/models"
	"guard-matching/internal/store"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo applies the pure slot operations to an in-memory calendar.
type memoryRepo struct {
	days    []models.DayAvailability
	saved   *models.Calendar
	err     error
	bookErr error
}

func (r *memoryRepo) GetDay(_ context.Context, _, date string) (models.DayAvailability, error) {
	if r.err != nil {
		return models.DayAvailability{}, r.err
	}
	if i := matching.FindDay(r.days, date); i >= 0 {
		return r.days[i], nil
	}
	return models.DayAvailability{}, fmt.Errorf("day %s: %w", date, store.ErrNotFound)
}

func (r *memoryRepo) GetCalendar(_ context.Context, guardID string) (models.Calendar, error) {
	if r.err != nil {
		return models.Calendar{}, r.err
	}
	return models.Calendar{GuardID: guardID, Days: append([]models.DayAvailability{}, r.days...)}, nil
}

func (r *memoryRepo) SaveCalendar(_ context.Context, cal models.Calendar) error {
	if r.err != nil {
		return r.err
	}
	r.saved = &cal
	return nil
}

func (r *memoryRepo) BookSlot(_ context.Context, _, date string, slot models.TimeSlot) (bool, error) {
	if r.bookErr != nil {
		return false, r.bookErr
	}
	if matching.FindDay(r.days, date) < 0 {
		return false, fmt.Errorf("day %s: %w", date, store.ErrNotFound)
	}
	next, ok := matching.BookSlot(r.days, date, slot)
	r.days = next
	return ok, nil
}

func (r *memoryRepo) CancelSlot(_ context.Context, _, date string, slot models.TimeSlot) (bool, error) {
	next, ok := matching.CancelSlot(r.days, date, slot)
	r.days = next
	return ok, nil
}

func newAvailabilityService(t *testing.T, repo AvailabilityRepository, pub events.Publisher) *AvailabilityService {
	return NewAvailabilityService(repo, pub, DefaultSettings(), 3, logger.NewTestLogger(t))
}

func oneDay() []models.DayAvailability {
	return []models.DayAvailability{{
		Date:        "2024-03-01",
		IsAvailable: true,
		TimeSlots:   []models.TimeSlot{models.MustSlot("08:00", "12:00")},
		BookedSlots: []models.TimeSlot{models.MustSlot("10:00", "12:00")},
	}}
}

func TestAvailabilityService_Check(t *testing.T) {
	svc := newAvailabilityService(t, &memoryRepo{days: oneDay()}, nil)
	ctx := context.Background()

	ok, err := svc.Check(ctx, "g-1", "2024-03-01", models.MustSlot("08:00", "10:00"))
	require.NoError(t, err)
	assert.True(t, ok, "adjacent slots do not overlap")

	ok, err = svc.Check(ctx, "g-1", "2024-03-01", models.MustSlot("09:00", "11:00"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Check(ctx, "g-1", "2024-03-02", models.MustSlot("08:00", "10:00"))
	require.NoError(t, err)
	assert.False(t, ok, "missing day is unavailable")
}

func TestAvailabilityService_Check_StorageError(t *testing.T) {
	svc := newAvailabilityService(t, &memoryRepo{err: stderrors.New("i/o timeout")}, nil)

	_, err := svc.Check(context.Background(), "g-1", "2024-03-01", models.MustSlot("08:00", "10:00"))

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestAvailabilityService_BookPublishesEvent(t *testing.T) {
	repo := &memoryRepo{days: oneDay()}
	pub := &recordingPublisher{}
	svc := newAvailabilityService(t, repo, pub)
	before := testutil.ToFloat64(metrics.SlotBookings.WithLabelValues("booked"))

	ok, err := svc.Book(context.Background(), "g-1", "2024-03-01", models.MustSlot("08:00", "10:00"))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Len(t, repo.days[0].BookedSlots, 2)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeSlotBooked, pub.events[0].Type)
	assert.Equal(t, "g-1", pub.events[0].GuardID)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SlotBookings.WithLabelValues("booked")))
}

func TestAvailabilityService_BookRetrySameBooking(t *testing.T) {
	repo := &memoryRepo{days: oneDay()}
	svc := newAvailabilityService(t, repo, &recordingPublisher{})
	ctx := context.Background()

	slot := models.MustSlot("08:00", "10:00")
	slot.BookingID = "b-1"
	for i := 0; i < 2; i++ {
		ok, err := svc.Book(ctx, "g-1", "2024-03-01", slot)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}
	assert.Len(t, repo.days[0].BookedSlots, 2)
}

func TestAvailabilityService_Calendar(t *testing.T) {
	svc := newAvailabilityService(t, &memoryRepo{days: oneDay()}, nil)

	cal, err := svc.Calendar(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, "g-1", cal.GuardID)
	assert.Len(t, cal.Days, 1)

	svc = newAvailabilityService(t, &memoryRepo{err: stderrors.New("connection reset")}, nil)
	_, err = svc.Calendar(context.Background(), "g-1")
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, errors.Normalize(err).Code)
}

func TestAvailabilityService_BookConflictAndMissingDay(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newAvailabilityService(t, &memoryRepo{days: oneDay()}, pub)
	ctx := context.Background()

	ok, err := svc.Book(ctx, "g-1", "2024-03-01", models.MustSlot("11:00", "12:00"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Book(ctx, "g-1", "2024-03-05", models.MustSlot("11:00", "12:00"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, pub.events)
}

func TestAvailabilityService_BookVersionConflict(t *testing.T) {
	repo := &memoryRepo{bookErr: fmt.Errorf("g-1/2024-03-01: %w", store.ErrVersionConflict)}
	svc := newAvailabilityService(t, repo, nil)

	_, err := svc.Book(context.Background(), "g-1", "2024-03-01", models.MustSlot("08:00", "10:00"))

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeConcurrentModification, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestAvailabilityService_PublishFailureKeepsBooking(t *testing.T) {
	repo := &memoryRepo{days: oneDay()}
	svc := newAvailabilityService(t, repo, &recordingPublisher{err: stderrors.New("broker down")})

	ok, err := svc.Book(context.Background(), "g-1", "2024-03-01", models.MustSlot("08:00", "09:00"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAvailabilityService_Cancel(t *testing.T) {
	repo := &memoryRepo{days: oneDay()}
	pub := &recordingPublisher{}
	svc := newAvailabilityService(t, repo, pub)
	ctx := context.Background()

	ok, err := svc.Cancel(ctx, "g-1", "2024-03-01", models.MustSlot("10:00", "11:00"))
	require.NoError(t, err)
	assert.False(t, ok, "partial overlap does not cancel")

	ok, err = svc.Cancel(ctx, "g-1", "2024-03-01", models.MustSlot("10:00", "12:00"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, repo.days[0].BookedSlots)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeSlotCancelled, pub.events[0].Type)
}

func TestAvailabilityService_Initialize(t *testing.T) {
	repo := &memoryRepo{}
	svc := newAvailabilityService(t, repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC) }

	cal, err := svc.Initialize(context.Background(), "g-1", 0)
	require.NoError(t, err)

	require.NotNil(t, repo.saved)
	assert.Len(t, cal.Days, matching.DefaultAvailabilityDays)
	assert.Equal(t, "2024-03-01", cal.Days[0].Date)
	assert.Equal(t, "2024-03-14", cal.Days[13].Date)
	assert.Len(t, cal.Recurring, 7)
}

func TestAvailabilityService_Initialize_SaveError(t *testing.T) {
	svc := newAvailabilityService(t, &memoryRepo{err: stderrors.New("disk full")}, nil)

	_, err := svc.Initialize(context.Background(), "g-1", 3)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, stdErr.Code)
}
