package store

import (
	"context"
	"database/sql"
	"fmt"

	"guard-matching/internal/models"

	"github.com/lib/pq"
)

const bookingColumns = `id, client_id, guard_id, status, rating, pickup_latitude, pickup_longitude,
	languages, COALESCE(protection_type, ''), COALESCE(vehicle_type, ''),
	scheduled_date::text, start_time, duration_hours, number_of_protectors`

type BookingStore struct {
	db *sql.DB
}

func NewBookingStore(db *sql.DB) *BookingStore {
	return &BookingStore{db: db}
}

func (s *BookingStore) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		return models.Booking{}, fmt.Errorf("get booking %s: %w", id, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return models.Booking{}, err
	}
	if len(bookings) == 0 {
		return models.Booking{}, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return bookings[0], nil
}

// ListByClient returns a client's booking history, newest first.
func (s *BookingStore) ListByClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE client_id = $1 ORDER BY scheduled_date DESC, id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for client %s: %w", clientID, err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}
	for rows.Next() {
		var (
			b      models.Booking
			rating sql.NullFloat64
		)
		if err := rows.Scan(
			&b.ID, &b.ClientID, &b.GuardID, &b.Status, &rating,
			&b.PickupLocation.Latitude, &b.PickupLocation.Longitude,
			pq.Array(&b.Languages), &b.ProtectionType, &b.VehicleType,
			&b.ScheduledDate, &b.StartTime, &b.DurationHours, &b.NumberOfProtectors,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if rating.Valid {
			r := rating.Float64
			b.Rating = &r
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}
