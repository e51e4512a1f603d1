package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"guard-matching/internal/common/metrics"
	"guard-matching/internal/matching"
	"guard-matching/internal/models"
)

const DefaultMaxAttempts = 3

// AvailabilityStore keeps one row per guard and date. Booked slots are
// mutated with a compare-and-swap on the row's version column.
type AvailabilityStore struct {
	db          *sql.DB
	maxAttempts int
}

func NewAvailabilityStore(db *sql.DB, maxAttempts int) *AvailabilityStore {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &AvailabilityStore{db: db, maxAttempts: maxAttempts}
}

func (s *AvailabilityStore) GetDay(ctx context.Context, guardID, date string) (models.DayAvailability, error) {
	var (
		day                    models.DayAvailability
		timeSlots, bookedSlots []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT date::text, is_available, time_slots, booked_slots
		FROM guard_availability
		WHERE guard_id = $1 AND date = $2`, guardID, date,
	).Scan(&day.Date, &day.IsAvailable, &timeSlots, &bookedSlots)
	if errors.Is(err, sql.ErrNoRows) {
		return day, fmt.Errorf("availability %s/%s: %w", guardID, date, ErrNotFound)
	}
	if err != nil {
		return day, fmt.Errorf("get availability %s/%s: %w", guardID, date, err)
	}
	if err := decodeSlots(timeSlots, &day.TimeSlots); err != nil {
		return day, err
	}
	if err := decodeSlots(bookedSlots, &day.BookedSlots); err != nil {
		return day, err
	}
	return day, nil
}

// GetCalendar returns every stored day for the guard plus the recurring schedule.
func (s *AvailabilityStore) GetCalendar(ctx context.Context, guardID string) (models.Calendar, error) {
	cal := models.Calendar{GuardID: guardID, Days: []models.DayAvailability{}}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date::text, is_available, time_slots, booked_slots
		FROM guard_availability
		WHERE guard_id = $1
		ORDER BY date`, guardID)
	if err != nil {
		return cal, fmt.Errorf("get calendar %s: %w", guardID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day                    models.DayAvailability
			timeSlots, bookedSlots []byte
		)
		if err := rows.Scan(&day.Date, &day.IsAvailable, &timeSlots, &bookedSlots); err != nil {
			return cal, fmt.Errorf("scan availability: %w", err)
		}
		if err := decodeSlots(timeSlots, &day.TimeSlots); err != nil {
			return cal, err
		}
		if err := decodeSlots(bookedSlots, &day.BookedSlots); err != nil {
			return cal, err
		}
		cal.Days = append(cal.Days, day)
	}
	if err := rows.Err(); err != nil {
		return cal, fmt.Errorf("iterate availability: %w", err)
	}

	var schedule []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT schedule FROM guard_recurring_schedules WHERE guard_id = $1`, guardID).Scan(&schedule)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return cal, fmt.Errorf("get recurring schedule %s: %w", guardID, err)
	default:
		if err := json.Unmarshal(schedule, &cal.Recurring); err != nil {
			return cal, fmt.Errorf("decode recurring schedule: %w", err)
		}
	}
	return cal, nil
}

// SaveCalendar upserts the offered slots of each day and the recurring
// schedule in one transaction. Existing booked slots are preserved.
func (s *AvailabilityStore) SaveCalendar(ctx context.Context, cal models.Calendar) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save calendar: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, day := range cal.Days {
		timeSlots, err := encodeSlots(day.TimeSlots)
		if err != nil {
			return err
		}
		bookedSlots, err := encodeSlots(day.BookedSlots)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO guard_availability (guard_id, date, is_available, time_slots, booked_slots, version)
			VALUES ($1, $2, $3, $4, $5, 0)
			ON CONFLICT (guard_id, date) DO UPDATE
			SET is_available = EXCLUDED.is_available,
			    time_slots = EXCLUDED.time_slots,
			    version = guard_availability.version + 1,
			    updated_at = NOW()`,
			cal.GuardID, day.Date, day.IsAvailable, timeSlots, bookedSlots,
		); err != nil {
			return fmt.Errorf("save availability %s/%s: %w", cal.GuardID, day.Date, err)
		}
	}

	if cal.Recurring != nil {
		schedule, err := json.Marshal(cal.Recurring)
		if err != nil {
			return fmt.Errorf("encode recurring schedule: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO guard_recurring_schedules (guard_id, schedule)
			VALUES ($1, $2)
			ON CONFLICT (guard_id) DO UPDATE SET schedule = EXCLUDED.schedule, updated_at = NOW()`,
			cal.GuardID, schedule,
		); err != nil {
			return fmt.Errorf("save recurring schedule %s: %w", cal.GuardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save calendar: %w", err)
	}
	return nil
}

// BookSlot appends slot to the day's booked list if it conflicts with nothing.
// It returns false on conflict, ErrNotFound when the day does not exist and
// ErrVersionConflict when every attempt lost the race to another writer.
// A slot already held under the same booking id reports true without a write.
func (s *AvailabilityStore) BookSlot(ctx context.Context, guardID, date string, slot models.TimeSlot) (bool, error) {
	return s.mutate(ctx, guardID, date, func(booked []models.TimeSlot) ([]models.TimeSlot, bool, bool) {
		if matching.HeldBy(booked, slot) {
			return booked, true, false
		}
		next, ok := matching.AppendIfFree(booked, slot)
		return next, ok, ok
	})
}

// CancelSlot removes the booked slot with exactly the same bounds.
func (s *AvailabilityStore) CancelSlot(ctx context.Context, guardID, date string, slot models.TimeSlot) (bool, error) {
	return s.mutate(ctx, guardID, date, func(booked []models.TimeSlot) ([]models.TimeSlot, bool, bool) {
		next, ok := matching.RemoveExact(booked, slot)
		return next, ok, ok
	})
}

// slotEdit returns the new booked list, whether the edit succeeded and
// whether the list changed and must be written back.
type slotEdit func(booked []models.TimeSlot) (next []models.TimeSlot, ok, changed bool)

func (s *AvailabilityStore) mutate(ctx context.Context, guardID, date string, apply slotEdit) (bool, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		booked, version, err := s.readBooked(ctx, guardID, date)
		if err != nil {
			return false, err
		}

		next, ok, changed := apply(booked)
		if !ok {
			return false, nil
		}
		if !changed {
			return true, nil
		}

		payload, err := encodeSlots(next)
		if err != nil {
			return false, err
		}
		res, err := s.db.ExecContext(ctx, `
			UPDATE guard_availability
			SET booked_slots = $1, version = version + 1, updated_at = NOW()
			WHERE guard_id = $2 AND date = $3 AND version = $4`,
			payload, guardID, date, version,
		)
		if err != nil {
			return false, fmt.Errorf("update booked slots %s/%s: %w", guardID, date, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("update booked slots %s/%s: %w", guardID, date, err)
		}
		if affected == 1 {
			return true, nil
		}
		metrics.SlotCASRetries.Inc()
	}
	return false, fmt.Errorf("%s/%s after %d attempts: %w", guardID, date, s.maxAttempts, ErrVersionConflict)
}

func (s *AvailabilityStore) readBooked(ctx context.Context, guardID, date string) ([]models.TimeSlot, int64, error) {
	var (
		raw     []byte
		version int64
		booked  []models.TimeSlot
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT booked_slots, version
		FROM guard_availability
		WHERE guard_id = $1 AND date = $2`, guardID, date,
	).Scan(&raw, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("availability %s/%s: %w", guardID, date, ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read booked slots %s/%s: %w", guardID, date, err)
	}
	if err := decodeSlots(raw, &booked); err != nil {
		return nil, 0, err
	}
	return booked, version, nil
}

func encodeSlots(slots []models.TimeSlot) ([]byte, error) {
	if slots == nil {
		slots = []models.TimeSlot{}
	}
	b, err := json.Marshal(slots)
	if err != nil {
		return nil, fmt.Errorf("encode slots: %w", err)
	}
	return b, nil
}

func decodeSlots(raw []byte, dst *[]models.TimeSlot) error {
	*dst = []models.TimeSlot{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode slots: %w", err)
	}
	return nil
}
