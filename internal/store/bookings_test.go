package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingRowColumns = []string{
	"id", "client_id", "guard_id", "status", "rating", "pickup_latitude", "pickup_longitude",
	"languages", "protection_type", "vehicle_type", "scheduled_date", "start_time",
	"duration_hours", "number_of_protectors",
}

func TestBookingStore_GetBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow("b-1", "c-1", "g-1", "confirmed", nil, 19.07, 72.87, "{en}", "armed", "", "2024-03-01", "09:00", 4.0, 1))

	b, err := NewBookingStore(db).GetBooking(context.Background(), "b-1")
	require.NoError(t, err)

	assert.Equal(t, "g-1", b.GuardID)
	assert.Nil(t, b.Rating)
	assert.Equal(t, 72.87, b.PickupLocation.Longitude)
	assert.Equal(t, "armed", b.ProtectionType)
	assert.Equal(t, "2024-03-01", b.ScheduledDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingStore_GetBooking_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs("b-404").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	_, err = NewBookingStore(db).GetBooking(context.Background(), "b-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingStore_ListByClient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE client_id = \$1`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow("b-2", "c-1", "g-2", "completed", 4.5, 19.0, 72.8, "{en,mr}", "", "suv", "2024-02-10", "18:00", 2.0, 2).
			AddRow("b-1", "c-1", "g-1", "completed", 3.0, 19.0, 72.8, "{}", "", "", "2024-01-05", "08:30", 6.0, 1))

	history, err := NewBookingStore(db).ListByClient(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	require.NotNil(t, history[0].Rating)
	assert.Equal(t, 4.5, *history[0].Rating)
	assert.Equal(t, []string{"en", "mr"}, history[0].Languages)
	assert.Equal(t, 2, history[0].NumberOfProtectors)
	assert.NoError(t, mock.ExpectationsWereMet())
}
