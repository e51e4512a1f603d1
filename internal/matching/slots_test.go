package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guard-matching/internal/models"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b models.TimeSlot
		want bool
	}{
		{"start inside", models.MustSlot("09:00", "11:00"), models.MustSlot("10:00", "12:00"), true},
		{"end inside", models.MustSlot("09:00", "11:00"), models.MustSlot("08:00", "10:00"), true},
		{"contains booked", models.MustSlot("09:00", "11:00"), models.MustSlot("08:00", "12:00"), true},
		{"inside booked", models.MustSlot("09:00", "11:00"), models.MustSlot("09:30", "10:30"), true},
		{"identical", models.MustSlot("09:00", "11:00"), models.MustSlot("09:00", "11:00"), true},
		{"touching after", models.MustSlot("09:00", "11:00"), models.MustSlot("11:00", "13:00"), false},
		{"touching before", models.MustSlot("09:00", "11:00"), models.MustSlot("07:00", "09:00"), false},
		{"disjoint", models.MustSlot("09:00", "11:00"), models.MustSlot("20:00", "24:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestIsSlotAvailable(t *testing.T) {
	booked := []models.TimeSlot{models.MustSlot("09:00", "11:00")}

	assert.False(t, IsSlotAvailable(booked, models.MustSlot("10:00", "12:00")))
	assert.True(t, IsSlotAvailable(booked, models.MustSlot("11:00", "13:00")))
	assert.True(t, IsSlotAvailable(booked, models.MustSlot("07:00", "09:00")))
	assert.True(t, IsSlotAvailable(nil, models.MustSlot("07:00", "09:00")))

	t.Run("malformed candidate", func(t *testing.T) {
		assert.False(t, IsSlotAvailable(nil, models.TimeSlot{Start: 600, End: 600}))
		assert.False(t, IsSlotAvailable(nil, models.TimeSlot{Start: 700, End: 600}))
		assert.False(t, IsSlotAvailable(nil, models.TimeSlot{Start: 1400, End: 1500}))
	})
}

func testDays() []models.DayAvailability {
	return []models.DayAvailability{
		{
			Date:        "2024-03-01",
			IsAvailable: true,
			TimeSlots:   []models.TimeSlot{models.MustSlot("08:00", "12:00")},
			BookedSlots: []models.TimeSlot{models.MustSlot("09:00", "11:00")},
		},
		{Date: "2024-03-02", IsAvailable: true},
	}
}

func TestBookSlot(t *testing.T) {
	t.Run("appends when free", func(t *testing.T) {
		days := testDays()
		out, ok := BookSlot(days, "2024-03-01", models.MustSlot("11:00", "13:00"))
		require.True(t, ok)
		assert.Len(t, out[0].BookedSlots, 2)
		assert.Equal(t, models.MustSlot("11:00", "13:00"), out[0].BookedSlots[1])
		assert.Len(t, days[0].BookedSlots, 1, "input must not be mutated")
	})

	t.Run("rejects conflict", func(t *testing.T) {
		out, ok := BookSlot(testDays(), "2024-03-01", models.MustSlot("10:00", "12:00"))
		assert.False(t, ok)
		assert.Len(t, out[0].BookedSlots, 1)
	})

	t.Run("rejects missing day", func(t *testing.T) {
		_, ok := BookSlot(testDays(), "2024-04-01", models.MustSlot("10:00", "12:00"))
		assert.False(t, ok)
	})

	t.Run("books day with nil list", func(t *testing.T) {
		out, ok := BookSlot(testDays(), "2024-03-02", models.MustSlot("10:00", "12:00"))
		require.True(t, ok)
		assert.Len(t, out[1].BookedSlots, 1)
	})

	t.Run("same booking id rebooks without change", func(t *testing.T) {
		slot := models.MustSlot("13:00", "15:00")
		slot.BookingID = "b-7"

		first, ok := BookSlot(testDays(), "2024-03-01", slot)
		require.True(t, ok)
		again, ok := BookSlot(first, "2024-03-01", slot)
		require.True(t, ok)
		assert.Len(t, again[0].BookedSlots, 2)

		other := slot
		other.BookingID = "b-8"
		_, ok = BookSlot(first, "2024-03-01", other)
		assert.False(t, ok, "another booking still conflicts")
	})
}

func TestHeldBy(t *testing.T) {
	held := models.MustSlot("09:00", "11:00")
	held.BookingID = "b-1"
	booked := []models.TimeSlot{held}

	assert.True(t, HeldBy(booked, held))

	anonymous := models.MustSlot("09:00", "11:00")
	assert.False(t, HeldBy(booked, anonymous), "slots without a booking id are never held")

	shifted := models.MustSlot("09:00", "10:00")
	shifted.BookingID = "b-1"
	assert.False(t, HeldBy(booked, shifted))
}

func TestCancelSlot(t *testing.T) {
	t.Run("book then cancel restores the original list", func(t *testing.T) {
		days := testDays()
		slot := models.MustSlot("13:00", "15:00")

		booked, ok := BookSlot(days, "2024-03-01", slot)
		require.True(t, ok)
		restored, ok := CancelSlot(booked, "2024-03-01", slot)
		require.True(t, ok)

		assert.Len(t, restored[0].BookedSlots, len(days[0].BookedSlots))
		assert.ElementsMatch(t, days[0].BookedSlots, restored[0].BookedSlots)
	})

	t.Run("requires exact match", func(t *testing.T) {
		_, ok := CancelSlot(testDays(), "2024-03-01", models.MustSlot("09:00", "10:00"))
		assert.False(t, ok)
	})

	t.Run("missing day", func(t *testing.T) {
		_, ok := CancelSlot(testDays(), "2025-01-01", models.MustSlot("09:00", "11:00"))
		assert.False(t, ok)
	})
}
